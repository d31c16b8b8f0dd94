package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/modsentry/modsentry/pkg/domain"
	"github.com/modsentry/modsentry/pkg/engine"
	"github.com/sirupsen/logrus"
)

type stopSessionHandler struct {
	logger  *logrus.Logger
	manager *engine.Manager
}

func NewStopSessionHandler(logger *logrus.Logger, manager *engine.Manager) Handler {
	return &stopSessionHandler{
		logger:  logger,
		manager: manager,
	}
}

// Handle @Summary Stop a moderation session
// @Description Moves the session to stopped and returns its final statistics
// @Tags Sessions
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} map[string]interface{} "Final statistics"
// @Failure 400 {object} map[string]interface{} "Session already stopped"
// @Failure 404 {object} map[string]interface{} "Session not found"
// @Router /sessions/{session_id}/stop [post]
func (s *stopSessionHandler) Handle(c *fiber.Ctx) error {
	sessionID := c.Params("session_id")
	final, err := s.manager.Stop(c.Context(), sessionID)
	if err != nil {
		// A second stop is a caller error, but the snapshot from the first
		// stop is still reported for idempotent clients.
		if domain.IsSessionInactive(err) && final != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success":          false,
				"error":            err.Error(),
				"final_statistics": final,
			})
		}
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":          true,
		"final_statistics": final,
	})
}
