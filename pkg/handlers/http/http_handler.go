package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/modsentry/modsentry/pkg/domain"
)

const ErrInvalidJsonPayload = "invalid JSON payload"

type Handler interface {
	Handle(ctx *fiber.Ctx) error
}

type HandlerTransport struct {
	// Session lifecycle
	CreateSessionHandler Handler
	GetSessionHandler    Handler
	StopSessionHandler   Handler

	// Analysis
	AnalyzeContentHandler Handler
	BatchAnalyzeHandler   Handler

	// Analytics
	GetAnalyticsHandler Handler

	// Catalog
	DemoDataHandler Handler
}

// statusFromError maps the engine's error taxonomy onto HTTP statuses.
// Lifecycle and validation errors are caller mistakes; everything else is
// treated as internal.
func statusFromError(err error) int {
	switch {
	case domain.IsSessionNotFound(err):
		return fiber.StatusNotFound
	case domain.IsSessionInactive(err),
		domain.IsInvalidConfiguration(err),
		errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func errorResponse(c *fiber.Ctx, err error) error {
	status := statusFromError(err)
	message := err.Error()
	if status == fiber.StatusInternalServerError {
		message = "internal error"
	}
	return c.Status(status).JSON(fiber.Map{"success": false, "error": message})
}
