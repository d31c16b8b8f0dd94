package classifier

import (
	"fmt"

	"github.com/modsentry/modsentry/pkg/classifier/azuresafety"
	"github.com/modsentry/modsentry/pkg/classifier/heuristic"
	"github.com/modsentry/modsentry/pkg/classifier/openaimod"
	"github.com/modsentry/modsentry/pkg/classifier/webhook"
	"github.com/modsentry/modsentry/pkg/config"
	"github.com/modsentry/modsentry/pkg/infra/httpx"
	"github.com/sirupsen/logrus"
)

// BuildRegistry registers every classifier enabled in configuration. The
// heuristic classifier is always registered; it needs no credentials and
// guarantees at least one usable backend.
func BuildRegistry(cfg *config.Config, logger *logrus.Logger, client httpx.Client) (*Registry, error) {
	registry := NewRegistry(logger)

	heuristicSettings := settingsFor(cfg, heuristic.ClassifierName)
	local, err := heuristic.NewClassifier(logger, heuristicSettings)
	if err != nil {
		return nil, fmt.Errorf("failed to build heuristic classifier: %w", err)
	}
	if err := registry.Register(local); err != nil {
		return nil, err
	}

	if enabled(cfg, openaimod.ClassifierName) {
		c, err := openaimod.NewClassifier(logger, client, settingsFor(cfg, openaimod.ClassifierName))
		if err != nil {
			return nil, fmt.Errorf("failed to build openai moderation classifier: %w", err)
		}
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}

	if enabled(cfg, azuresafety.ClassifierName) {
		c, err := azuresafety.NewClassifier(logger, client, settingsFor(cfg, azuresafety.ClassifierName))
		if err != nil {
			return nil, fmt.Errorf("failed to build azure content safety classifier: %w", err)
		}
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}

	if enabled(cfg, webhook.ClassifierName) {
		c, err := webhook.NewClassifier(logger, client, settingsFor(cfg, webhook.ClassifierName))
		if err != nil {
			return nil, fmt.Errorf("failed to build webhook classifier: %w", err)
		}
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}

	return registry, nil
}

func enabled(cfg *config.Config, name string) bool {
	entry, ok := cfg.Classifiers[name]
	return ok && entry.Enabled
}

func settingsFor(cfg *config.Config, name string) map[string]interface{} {
	if entry, ok := cfg.Classifiers[name]; ok {
		return entry.Settings
	}
	return nil
}
