package handler

import (
	"github.com/gofiber/fiber/v2"

	"exercise-forge/internal/middleware"
)

// RegisterRoutes mounts the proxy endpoint and the exercise API under api.
// accessKey guards only the proxy endpoint.
func RegisterRoutes(api fiber.Router, proxy *ProxyHandler, exercises *ExerciseHandler, accessKey string) {
	vm := middleware.NewValidationMiddleware()

	api.Use("/generate", middleware.ProxyCORS())
	api.Post("/generate", middleware.AccessKey(accessKey), vm.ValidateGenerateRequest(), proxy.Generate)

	exerciseGroup := api.Group("/exercises", middleware.APICORS(), vm.ValidateSession())
	exerciseGroup.Post("/multiple-choice", exercises.GenerateMultipleChoice)
	exerciseGroup.Post("/multiple-choice/grade", exercises.GradeMultipleChoice)
	exerciseGroup.Post("/gap-fill", exercises.GenerateGapFill)
	exerciseGroup.Post("/gap-fill/grade", exercises.GradeGapFill)
}
