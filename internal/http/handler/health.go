package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"convertapi/internal/apperr"
	"convertapi/internal/service"
)

// Root godoc
// @Summary Service banner
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router / [get]
func Root() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "message": "Backend running successfully"})
	}
}

// HealthCheck pings the document database.
//
// @Summary Readiness probe
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} errorPayload
// @Router /health [get]
func HealthCheck(records service.RecordService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := records.Ping(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy", "db": "connected"})
	}
}

// LivenessProbe answers 200 without touching dependencies.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// TestMongo lists the database's collections.
//
// @Summary Document database connectivity check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]string
// @Router /test-mongo [get]
func TestMongo(records service.RecordService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		names, err := records.Collections(c.UserContext())
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "Error connecting to MongoDB",
				"detail": apperr.Message(err),
			})
		}
		return c.JSON(fiber.Map{"status": "MongoDB connected", "collections": names})
	}
}
