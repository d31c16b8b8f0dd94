package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/modsentry/modsentry/pkg/domain"
	"github.com/modsentry/modsentry/pkg/engine"
	"github.com/modsentry/modsentry/pkg/handlers/http/request"
	"github.com/sirupsen/logrus"
)

type analyzeContentHandler struct {
	logger  *logrus.Logger
	manager *engine.Manager
}

func NewAnalyzeContentHandler(logger *logrus.Logger, manager *engine.Manager) Handler {
	return &analyzeContentHandler{
		logger:  logger,
		manager: manager,
	}
}

// Handle @Summary Analyze a content item
// @Description Runs the session's classifiers against one content item and returns the verdict
// @Tags Analysis
// @Accept json
// @Produce json
// @Param session_id path string true "Session ID"
// @Param content body request.AnalyzeContentRequest true "Content payload"
// @Success 200 {object} map[string]interface{} "Analysis result"
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Failure 404 {object} map[string]interface{} "Session not found"
// @Router /sessions/{session_id}/analyze [post]
func (s *analyzeContentHandler) Handle(c *fiber.Ctx) error {
	sessionID := c.Params("session_id")

	var req request.AnalyzeContentRequest
	if err := c.BodyParser(&req); err != nil {
		s.logger.WithError(err).Error("failed to bind request")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": ErrInvalidJsonPayload})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	record, err := s.manager.Analyze(c.Context(), sessionID, req.ContentData.ToItem())
	if err != nil {
		if !domain.IsSessionNotFound(err) && !domain.IsSessionInactive(err) {
			s.logger.WithError(err).WithField("session_id", sessionID).Error("analysis failed")
		}
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":  true,
		"analysis": record,
	})
}
