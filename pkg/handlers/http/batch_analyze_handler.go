package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/modsentry/modsentry/pkg/engine"
	"github.com/modsentry/modsentry/pkg/handlers/http/request"
	"github.com/modsentry/modsentry/pkg/handlers/http/response"
	"github.com/sirupsen/logrus"
)

type batchAnalyzeHandler struct {
	logger  *logrus.Logger
	manager *engine.Manager
}

func NewBatchAnalyzeHandler(logger *logrus.Logger, manager *engine.Manager) Handler {
	return &batchAnalyzeHandler{
		logger:  logger,
		manager: manager,
	}
}

// Handle @Summary Analyze a batch of content items
// @Description Runs the pipeline over every submitted item with bounded concurrency
// @Tags Analysis
// @Accept json
// @Produce json
// @Param session_id path string true "Session ID"
// @Param batch body request.BatchAnalyzeRequest true "Batch payload"
// @Success 200 {object} map[string]interface{} "Batch results"
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Failure 404 {object} map[string]interface{} "Session not found"
// @Router /sessions/{session_id}/batch-analyze [post]
func (s *batchAnalyzeHandler) Handle(c *fiber.Ctx) error {
	sessionID := c.Params("session_id")

	var req request.BatchAnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		s.logger.WithError(err).Error("failed to bind request")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": ErrInvalidJsonPayload})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	results, summary, err := s.manager.BatchAnalyze(c.Context(), sessionID, req.ToItems())
	if err != nil {
		return errorResponse(c, err)
	}

	out := make([]response.BatchItemOutput, 0, len(results))
	for _, r := range results {
		item := response.BatchItemOutput{ContentID: r.ContentID}
		if r.Err != nil {
			item.Result = response.BatchItemResult{Success: false, Error: r.Err.Error()}
		} else {
			item.Result = response.BatchItemResult{Success: true, Analysis: r.Record}
		}
		out = append(out, item)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":         true,
		"total_processed": summary.Processed,
		"batch_results":   out,
		"summary":         summary,
	})
}
