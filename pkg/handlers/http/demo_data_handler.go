package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/modsentry/modsentry/pkg/classifier"
	"github.com/modsentry/modsentry/pkg/domain/session"
	"github.com/modsentry/modsentry/pkg/policy"
	"github.com/sirupsen/logrus"
)

type demoDataHandler struct {
	logger   *logrus.Logger
	registry *classifier.Registry
	policy   *policy.Engine
}

func NewDemoDataHandler(logger *logrus.Logger, registry *classifier.Registry, policyEngine *policy.Engine) Handler {
	return &demoDataHandler{
		logger:   logger,
		registry: registry,
		policy:   policyEngine,
	}
}

var demoContent = []fiber.Map{
	{"content": "Great point, thanks for sharing your perspective!", "type": "chat", "label": "benign"},
	{"content": "You are a complete idiot and everyone here hates you", "type": "chat", "label": "harassment"},
	{"content": "I will find you and hurt you, watch your back", "type": "chat", "label": "threat"},
	{"content": "CLICK HERE NOW!!! Free money at http://totally-legit.example.com $$$", "type": "comment", "label": "spam"},
	{"content": "People like you should not be allowed to exist", "type": "comment", "label": "hate_speech"},
}

// Handle @Summary Retrieve demo catalog data
// @Description Returns the available classifiers, sample content and active moderation rules
// @Tags Catalog
// @Produce json
// @Success 200 {object} map[string]interface{} "Demo catalog"
// @Router /demo-data [get]
func (s *demoDataHandler) Handle(c *fiber.Ctx) error {
	rules := make(fiber.Map, 3)
	for _, level := range []session.Sensitivity{session.SensitivityLow, session.SensitivityMedium, session.SensitivityHigh} {
		t := s.policy.Thresholds(level)
		rules[string(level)] = fiber.Map{
			"warn":        t.Warn,
			"block":       t.Block,
			"quarantine":  t.Quarantine,
			"escalate":    t.Escalate,
			"spam_filter": t.SpamFilter,
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":          true,
		"ai_models":        s.registry.Names(),
		"demo_content":     demoContent,
		"moderation_rules": rules,
	})
}
