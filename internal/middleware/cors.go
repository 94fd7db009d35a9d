package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

const (
	proxyAllowMethods = "GET,OPTIONS,POST"
	proxyAllowHeaders = "X-CSRF-Token, X-Requested-With, Accept, Accept-Version, Content-Length, Content-MD5, Content-Type, Date, X-Api-Version"
)

// ProxyCORS is the permissive header set browsers expect from the generate endpoint.
// Preflight requests stop here with an empty 200.
func ProxyCORS() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderAccessControlAllowCredentials, "true")
		c.Set(fiber.HeaderAccessControlAllowOrigin, "*")
		c.Set(fiber.HeaderAccessControlAllowMethods, proxyAllowMethods)
		c.Set(fiber.HeaderAccessControlAllowHeaders, proxyAllowHeaders)

		if c.Method() == fiber.MethodOptions {
			c.Status(fiber.StatusOK)
			return nil
		}
		return c.Next()
	}
}

// APICORS covers the exercise API, which has no credentialed callers.
func APICORS() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization," + SessionHeader,
		MaxAge:       300,
	})
}
