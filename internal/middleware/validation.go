package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"exercise-forge/internal/domain"
	"exercise-forge/internal/dto"
	"exercise-forge/internal/validation"
)

const (
	SessionHeader = "X-Session-ID"

	SessionIDKey       = "session_id"
	ExerciseRequestKey = "exercise_request"
)

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.NewValidator(),
	}
}

// ValidateSession checks the optional X-Session-ID header and stores it for handlers.
func (vm *ValidationMiddleware) ValidateSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := strings.TrimSpace(c.Get(SessionHeader))
		if errors := vm.validator.ValidateSessionID(sessionID); len(errors) > 0 {
			return errors
		}

		c.Locals(SessionIDKey, sessionID)
		return c.Next()
	}
}

// ValidateGenerateRequest parses the proxy body into a domain.ExerciseRequest and
// stores it for the proxy handler.
func (vm *ValidationMiddleware) ValidateGenerateRequest() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body dto.GenerateRequest
		if err := c.BodyParser(&body); err != nil {
			return domain.ValidationErrors{domain.NewInvalidFormatError("body", "malformed JSON")}
		}

		req, err := domain.NewExerciseRequest(body.Type, body.KnowledgePoint, body.Count)
		if err != nil {
			return err
		}

		c.Locals(ExerciseRequestKey, req)
		return c.Next()
	}
}

// SessionID returns the validated session id, empty when the client sent none.
func SessionID(c *fiber.Ctx) string {
	id, _ := c.Locals(SessionIDKey).(string)
	return id
}
