package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const requestIDKey = "request_id"

// RequestLogger assigns every request an ID (taken from X-Request-ID when the
// client sends one), echoes it back and logs the outcome with logrus.
func RequestLogger(base *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(fiber.HeaderXRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals(requestIDKey, rid)
		c.Set(fiber.HeaderXRequestID, rid)

		start := time.Now()
		err := c.Next()
		if err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		status := c.Response().StatusCode()

		entry := base.WithFields(requestLogFields(c)).WithFields(logrus.Fields{
			"status":      status,
			"duration_ms": time.Since(start).Milliseconds(),
			"remote_ip":   c.IP(),
		})
		if caller := CallerFrom(c); caller.Authenticated() {
			entry = entry.WithField("caller", caller.String())
		}

		switch {
		case err != nil || status >= fiber.StatusInternalServerError:
			entry.WithError(err).Error("request completed")
		case status >= fiber.StatusBadRequest:
			entry.Warn("request completed")
		default:
			entry.WithField("bytes", len(c.Response().Body())).Info("request completed")
		}
		return nil
	}
}

// RequestLog returns a logrus entry carrying the request's ID, method and path.
func RequestLog(c *fiber.Ctx) *logrus.Entry {
	return logrus.WithFields(requestLogFields(c))
}

func requestLogFields(c *fiber.Ctx) logrus.Fields {
	fields := logrus.Fields{
		"method": c.Method(),
		"path":   c.Path(),
	}
	if rid, ok := c.Locals(requestIDKey).(string); ok && rid != "" {
		fields["request_id"] = rid
	}
	return fields
}
