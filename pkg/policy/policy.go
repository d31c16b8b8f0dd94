package policy

import (
	"fmt"

	"github.com/modsentry/modsentry/pkg/config"
	"github.com/modsentry/modsentry/pkg/domain/moderation"
	"github.com/modsentry/modsentry/pkg/domain/session"
	"github.com/sirupsen/logrus"
)

// criticalOverallRisk lifts a block from high to critical severity.
const criticalOverallRisk = 0.9

// Thresholds is one sensitivity level's trigger table. Category overrides
// take precedence over the level-wide warn/block values.
type Thresholds struct {
	Warn          float64
	Block         float64
	Quarantine    float64
	Escalate      float64
	SpamFilter    float64
	CategoryWarn  map[moderation.Category]float64
	CategoryBlock map[moderation.Category]float64
}

func (t Thresholds) warnFor(c moderation.Category) float64 {
	if v, ok := t.CategoryWarn[c]; ok {
		return v
	}
	return t.Warn
}

func (t Thresholds) blockFor(c moderation.Category) float64 {
	if v, ok := t.CategoryBlock[c]; ok {
		return v
	}
	return t.Block
}

// DefaultThresholds is the built-in table. Raising sensitivity only ever
// lowers trigger thresholds, so content flagged at low sensitivity is always
// flagged at high.
func DefaultThresholds(s session.Sensitivity) Thresholds {
	switch s {
	case session.SensitivityLow:
		return Thresholds{Warn: 0.80, Block: 0.95, Quarantine: 0.80, Escalate: 0.90, SpamFilter: 0.70}
	case session.SensitivityHigh:
		return Thresholds{Warn: 0.50, Block: 0.85, Quarantine: 0.60, Escalate: 0.75, SpamFilter: 0.40}
	default:
		return Thresholds{Warn: 0.65, Block: 0.90, Quarantine: 0.70, Escalate: 0.85, SpamFilter: 0.55}
	}
}

// Engine maps an aggregated score vector to a final action under a session's
// sensitivity configuration.
type Engine struct {
	tables map[session.Sensitivity]Thresholds
	logger *logrus.Logger
}

func NewEngine(logger *logrus.Logger, overrides config.PolicyConfig) *Engine {
	tables := map[session.Sensitivity]Thresholds{
		session.SensitivityLow:    DefaultThresholds(session.SensitivityLow),
		session.SensitivityMedium: DefaultThresholds(session.SensitivityMedium),
		session.SensitivityHigh:   DefaultThresholds(session.SensitivityHigh),
	}
	for name, cfg := range overrides.Sensitivities {
		sens := session.Sensitivity(name)
		base, ok := tables[sens]
		if !ok {
			logger.WithField("sensitivity", name).Warn("ignoring threshold overrides for unknown sensitivity level")
			continue
		}
		tables[sens] = applyOverrides(base, cfg)
	}
	return &Engine{tables: tables, logger: logger}
}

func applyOverrides(base Thresholds, cfg config.ThresholdsConfig) Thresholds {
	if cfg.Warn > 0 {
		base.Warn = cfg.Warn
	}
	if cfg.Block > 0 {
		base.Block = cfg.Block
	}
	if cfg.Quarantine > 0 {
		base.Quarantine = cfg.Quarantine
	}
	if cfg.Escalate > 0 {
		base.Escalate = cfg.Escalate
	}
	if cfg.SpamFilter > 0 {
		base.SpamFilter = cfg.SpamFilter
	}
	if len(cfg.CategoryWarn) > 0 {
		base.CategoryWarn = make(map[moderation.Category]float64, len(cfg.CategoryWarn))
		for name, v := range cfg.CategoryWarn {
			base.CategoryWarn[moderation.Category(name)] = v
		}
	}
	if len(cfg.CategoryBlock) > 0 {
		base.CategoryBlock = make(map[moderation.Category]float64, len(cfg.CategoryBlock))
		for name, v := range cfg.CategoryBlock {
			base.CategoryBlock[moderation.Category(name)] = v
		}
	}
	return base
}

// Thresholds returns the effective table for a sensitivity level.
func (e *Engine) Thresholds(s session.Sensitivity) Thresholds {
	if t, ok := e.tables[s]; ok {
		return t
	}
	return e.tables[session.SensitivityMedium]
}

// Evaluate walks the decision ladder in fixed priority order: block,
// escalate, quarantine, warn, filter, allow. Ties between categories go to
// the highest-scoring one, evaluated in canonical category order. The action
// is always computed; Enforced only reports whether the session is configured
// to act on it.
func (e *Engine) Evaluate(scores moderation.ScoreVector, sens session.Sensitivity, autoAction bool) moderation.Action {
	t := e.Thresholds(sens)

	action := moderation.Action{
		Action:     moderation.ActionAllow,
		Reason:     "no category threshold exceeded",
		Severity:   moderation.SeverityLow,
		Confidence: scores.Confidence,
	}

	if category, score, ok := worstExceeding(scores, t.blockFor); ok {
		action.Action = moderation.ActionBlock
		action.Reason = fmt.Sprintf("category %s scored %.2f, at or above block threshold %.2f", category, score, t.blockFor(category))
		action.Severity = moderation.SeverityHigh
		if scores.OverallRisk >= criticalOverallRisk {
			action.Severity = moderation.SeverityCritical
		}
	} else if scores.OverallRisk >= t.Escalate {
		action.Action = moderation.ActionEscalate
		action.Reason = fmt.Sprintf("overall risk %.2f at or above escalate threshold %.2f", scores.OverallRisk, t.Escalate)
		action.Severity = moderation.SeverityHigh
	} else if scores.OverallRisk >= t.Quarantine {
		action.Action = moderation.ActionQuarantine
		action.Reason = fmt.Sprintf("overall risk %.2f at or above quarantine threshold %.2f", scores.OverallRisk, t.Quarantine)
		action.Severity = moderation.SeverityMedium
	} else if category, score, ok := worstExceeding(scores, t.warnFor); ok {
		action.Action = moderation.ActionWarn
		action.Reason = fmt.Sprintf("category %s scored %.2f, at or above warn threshold %.2f", category, score, t.warnFor(category))
		action.Severity = moderation.SeverityLow
		if score >= (t.warnFor(category)+t.blockFor(category))/2 {
			action.Severity = moderation.SeverityMedium
		}
	} else if spam := scores.Get(moderation.CategorySpam); spam >= t.SpamFilter {
		action.Action = moderation.ActionFilter
		action.Reason = fmt.Sprintf("category spam scored %.2f, at or above filter threshold %.2f", spam, t.SpamFilter)
		action.Severity = moderation.SeverityLow
	}

	action.Enforced = autoAction && action.Action != moderation.ActionAllow
	return action
}

// worstExceeding returns the highest-scoring category at or above its
// threshold. Canonical order breaks exact ties deterministically.
func worstExceeding(scores moderation.ScoreVector, threshold func(moderation.Category) float64) (moderation.Category, float64, bool) {
	var (
		worst      moderation.Category
		worstScore float64
		found      bool
	)
	for _, category := range moderation.Categories() {
		score := scores.Get(category)
		if score >= threshold(category) && score > worstScore {
			worst, worstScore, found = category, score, true
		}
	}
	return worst, worstScore, found
}
