package handler

import (
	"github.com/gofiber/fiber/v2"

	"exercise-forge/internal/domain"
	"exercise-forge/internal/dto"
	"exercise-forge/internal/middleware"
	"exercise-forge/internal/service"
)

// ExerciseHandler handles exercise generation and grading requests
type ExerciseHandler struct {
	service service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler instance
func NewExerciseHandler(service service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{service: service}
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return domain.ValidationErrors{domain.NewInvalidFormatError("body", "malformed JSON")}
	}
	return nil
}

// GenerateMultipleChoice godoc
// @Summary Generate multiple-choice questions
// @Description Generates a batch of normalized four-option questions for a knowledge point. Send X-Session-ID to have older in-flight submissions of the same session rejected as superseded.
// @Tags exercises
// @Accept json
// @Produce json
// @Param X-Session-ID header string false "Client session scoping supersession"
// @Param request body dto.MultipleChoiceRequest true "Knowledge point and question count"
// @Success 200 {object} dto.MultipleChoiceResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Failure 422 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Failure 504 {object} middleware.ErrorResponse
// @Router /exercises/multiple-choice [post]
func (h *ExerciseHandler) GenerateMultipleChoice(c *fiber.Ctx) error {
	var req dto.MultipleChoiceRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	resp, err := h.service.GenerateMultipleChoice(c.UserContext(), middleware.SessionID(c), &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GenerateGapFill godoc
// @Summary Generate a gap-fill exercise
// @Description Generates one passage with blanks and the expected answer per blank.
// @Tags exercises
// @Accept json
// @Produce json
// @Param X-Session-ID header string false "Client session scoping supersession"
// @Param request body dto.GapFillRequest true "Knowledge point"
// @Success 200 {object} dto.GapFillResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Failure 422 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Failure 504 {object} middleware.ErrorResponse
// @Router /exercises/gap-fill [post]
func (h *ExerciseHandler) GenerateGapFill(c *fiber.Ctx) error {
	var req dto.GapFillRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	resp, err := h.service.GenerateGapFill(c.UserContext(), middleware.SessionID(c), &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GradeMultipleChoice godoc
// @Summary Grade multiple-choice answers
// @Tags exercises
// @Accept json
// @Produce json
// @Param request body dto.GradeMultipleChoiceRequest true "Questions as served and chosen option per question"
// @Success 200 {object} dto.GradeResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /exercises/multiple-choice/grade [post]
func (h *ExerciseHandler) GradeMultipleChoice(c *fiber.Ctx) error {
	var req dto.GradeMultipleChoiceRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	resp, err := h.service.GradeMultipleChoice(&req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GradeGapFill godoc
// @Summary Grade gap-fill answers
// @Description Answers are compared case-insensitively; a one-letter slip on a longer word is flagged as a near miss.
// @Tags exercises
// @Accept json
// @Produce json
// @Param request body dto.GradeGapFillRequest true "Exercise as served and one answer per gap"
// @Success 200 {object} dto.GradeResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /exercises/gap-fill/grade [post]
func (h *ExerciseHandler) GradeGapFill(c *fiber.Ctx) error {
	var req dto.GradeGapFillRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	resp, err := h.service.GradeGapFill(&req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
