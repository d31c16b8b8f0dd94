package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/modsentry/modsentry/pkg/domain"
	"github.com/modsentry/modsentry/pkg/engine"
	"github.com/modsentry/modsentry/pkg/handlers/http/request"
	"github.com/sirupsen/logrus"
)

type createSessionHandler struct {
	logger  *logrus.Logger
	manager *engine.Manager
}

func NewCreateSessionHandler(logger *logrus.Logger, manager *engine.Manager) Handler {
	return &createSessionHandler{
		logger:  logger,
		manager: manager,
	}
}

// Handle @Summary Start a moderation session
// @Description Creates a session bound to the requested classifiers and sensitivity
// @Tags Sessions
// @Accept json
// @Produce json
// @Param session body request.CreateSessionRequest true "Session request body"
// @Success 201 {object} map[string]interface{} "Session created"
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Router /sessions [post]
func (s *createSessionHandler) Handle(c *fiber.Ctx) error {
	var req request.CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		s.logger.WithError(err).Error("failed to bind request")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": ErrInvalidJsonPayload})
	}
	if err := req.Validate(); err != nil {
		return errorResponse(c, domain.NewInvalidConfigurationError(err.Error()))
	}

	sess, err := s.manager.Start(req.InterviewID, req.UserID, req.Options)
	if err != nil {
		s.logger.WithError(err).Error("failed to start session")
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"session": sess,
	})
}
