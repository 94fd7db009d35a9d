package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/keyauth"
)

// AccessKey protects a route with a static bearer key. An empty key disables the check.
func AccessKey(key string) fiber.Handler {
	if key == "" {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	return keyauth.New(keyauth.Config{
		KeyLookup:  "header:" + fiber.HeaderAuthorization,
		AuthScheme: "Bearer",
		Validator: func(_ *fiber.Ctx, presented string) (bool, error) {
			if subtle.ConstantTimeCompare([]byte(presented), []byte(key)) == 1 {
				return true, nil
			}
			return false, keyauth.ErrMissingOrMalformedAPIKey
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: err.Error(),
				Status:  fiber.StatusUnauthorized,
			})
		},
	})
}
