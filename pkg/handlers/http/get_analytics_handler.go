package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/modsentry/modsentry/pkg/engine"
	"github.com/sirupsen/logrus"
)

type getAnalyticsHandler struct {
	logger  *logrus.Logger
	manager *engine.Manager
}

func NewGetAnalyticsHandler(logger *logrus.Logger, manager *engine.Manager) Handler {
	return &getAnalyticsHandler{
		logger:  logger,
		manager: manager,
	}
}

// Handle @Summary Retrieve session analytics
// @Description Returns running statistics plus action and category breakdowns
// @Tags Analytics
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} map[string]interface{} "Session analytics"
// @Failure 404 {object} map[string]interface{} "Session not found"
// @Router /sessions/{session_id}/analytics [get]
func (s *getAnalyticsHandler) Handle(c *fiber.Ctx) error {
	stats, detail, err := s.manager.Statistics(c.Params("session_id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":    true,
		"statistics": stats,
		"metrics":    detail,
	})
}
