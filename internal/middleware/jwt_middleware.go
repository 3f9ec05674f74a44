package middleware

import (
	"strings"

	"foodorder/internal/identity"
	"foodorder/internal/services"

	"github.com/gofiber/fiber/v2"
)

const callerKey = "caller"

// AuthRequired is a Fiber middleware that resolves the bearer token into a
// Caller. Expired, forged and malformed tokens share one 401 response.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return unauthorized(c, "Authorization header is required")
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") || parts[1] == "" {
			return unauthorized(c, "Authorization header format must be 'Bearer <token>'")
		}

		caller, err := authService.Resolve(parts[1])
		if err != nil {
			RequestLog(c).WithError(err).Debug("token rejected")
			return unauthorized(c, "Invalid or expired token")
		}

		c.Locals(callerKey, caller)
		return c.Next()
	}
}

// CallerFrom returns the Caller stored by AuthRequired, or the zero Caller
// which is never authenticated.
func CallerFrom(c *fiber.Ctx) identity.Caller {
	caller, _ := c.Locals(callerKey).(identity.Caller)
	return caller
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message": message,
		"error":   services.ErrUnauthenticated.Error(),
	})
}
