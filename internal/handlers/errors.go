package handlers

import (
	"errors"
	"fmt"

	"foodorder/internal/middleware"
	"foodorder/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// errorStatus maps every service error kind to exactly one HTTP status.
var errorStatus = []struct {
	kind   error
	status int
}{
	{services.ErrUnauthenticated, fiber.StatusUnauthorized},
	{services.ErrForbidden, fiber.StatusForbidden},
	{services.ErrInvalidInput, fiber.StatusBadRequest},
	{services.ErrNotFound, fiber.StatusNotFound},
	{services.ErrInvalidTransition, fiber.StatusBadRequest},
	{services.ErrConflict, fiber.StatusConflict},
	{services.ErrStorageUnavailable, fiber.StatusServiceUnavailable},
}

// respondError writes the JSON error body for a service error.
func respondError(c *fiber.Ctx, message string, err error) error {
	status := fiber.StatusInternalServerError
	for _, m := range errorStatus {
		if errors.Is(err, m.kind) {
			status = m.status
			break
		}
	}

	body := fiber.Map{"message": message, "error": err.Error()}
	switch status {
	case fiber.StatusServiceUnavailable:
		middleware.RequestLog(c).WithError(err).Error(message)
		body["error"] = services.ErrStorageUnavailable.Error()
	case fiber.StatusInternalServerError:
		middleware.RequestLog(c).WithError(err).Error(message)
		body["error"] = "internal error"
	}
	return c.Status(status).JSON(body)
}

func badRequest(c *fiber.Ctx, message string, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

// validationFailed reports struct validation errors field by field.
func validationFailed(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return badRequest(c, "Validation failed", err)
	}
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Namespace()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}

// paramID parses a positive numeric route parameter.
func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", services.ErrInvalidInput, name)
	}
	return uint(id), nil
}
