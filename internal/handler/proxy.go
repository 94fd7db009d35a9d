package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"exercise-forge/internal/domain"
	"exercise-forge/internal/dto"
	"exercise-forge/internal/logger"
	"exercise-forge/internal/middleware"
	"exercise-forge/internal/service"
)

// ProxyHandler relays exercise requests to the completion vendor. The vendor
// credential never leaves the server.
type ProxyHandler struct {
	completions service.CompletionService
}

func NewProxyHandler(completions service.CompletionService) *ProxyHandler {
	return &ProxyHandler{completions: completions}
}

// Generate godoc
// @Summary Generate raw exercise content
// @Description Builds the prompt for the requested exercise type, calls the completion vendor and relays its chat-completion envelope unchanged.
// @Tags proxy
// @Accept json
// @Produce json
// @Param request body dto.GenerateRequest true "Exercise request"
// @Success 200 {object} dto.CompletionEnvelope
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 500 {object} dto.ProxyErrorResponse
// @Security ApiKeyAuth
// @Router /generate [post]
func (h *ProxyHandler) Generate(c *fiber.Ctx) error {
	req, ok := c.Locals(middleware.ExerciseRequestKey).(domain.ExerciseRequest)
	if !ok {
		return domain.NewInternalError("exercise request missing from context", nil)
	}

	content, err := h.completions.Complete(c.UserContext(), req)
	if err != nil {
		logger.Get().Error("Vendor completion failed",
			zap.String("type", string(req.Kind)),
			zap.String("knowledge_point", req.KnowledgePoint),
			zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(proxyError(err))
	}

	return c.JSON(dto.CompletionEnvelope{
		Choices: []dto.CompletionChoice{{
			Index:   0,
			Message: domain.ChatMessage{Role: domain.RoleAssistant, Content: content},
		}},
	})
}

func proxyError(err error) dto.ProxyErrorResponse {
	resp := dto.ProxyErrorResponse{Error: err.Error()}
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		resp.Error = domainErr.Message
		if details, ok := domainErr.Context["details"]; ok {
			resp.Details = details
		}
	}
	return resp
}
