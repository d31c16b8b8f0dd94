package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/modsentry/modsentry/pkg/engine"
	"github.com/sirupsen/logrus"
)

type getSessionHandler struct {
	logger  *logrus.Logger
	manager *engine.Manager
}

func NewGetSessionHandler(logger *logrus.Logger, manager *engine.Manager) Handler {
	return &getSessionHandler{
		logger:  logger,
		manager: manager,
	}
}

// Handle @Summary Retrieve a session by ID
// @Description Returns the session entity including its status and options
// @Tags Sessions
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} map[string]interface{} "Session"
// @Failure 404 {object} map[string]interface{} "Session not found"
// @Router /sessions/{session_id} [get]
func (s *getSessionHandler) Handle(c *fiber.Ctx) error {
	sess, err := s.manager.Get(c.Params("session_id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"session": sess,
	})
}
