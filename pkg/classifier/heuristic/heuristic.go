package heuristic

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/modsentry/modsentry/pkg/domain"
	"github.com/modsentry/modsentry/pkg/domain/moderation"
	"github.com/sirupsen/logrus"
)

const (
	ClassifierName = "heuristic"

	// repeatBonus is added per extra match within a category, capped at 1.0.
	repeatBonus = 0.05

	baseConfidence   = 0.70
	confidencePerHit = 0.05
	maxConfidence    = 0.90
	derivedToxicity  = 0.80

	// A run of one repeated character this long reads as spam filler.
	// Checked in code because RE2 has no backreferences.
	spamRunLength = 6
	spamRunWeight = 0.35
)

// Config allows deployments to extend the built-in keyword table per category.
type Config struct {
	ExtraKeywords map[string][]string `mapstructure:"extra_keywords"`
}

type compiledPattern struct {
	re     *regexp.Regexp
	weight float64
}

// Classifier is the local keyword/regex backend. It needs no network access
// and serves as the always-available baseline model.
type Classifier struct {
	logger   *logrus.Logger
	keywords map[moderation.Category][]term
	patterns map[moderation.Category][]compiledPattern
}

func NewClassifier(logger *logrus.Logger, settings map[string]interface{}) (*Classifier, error) {
	var cfg Config
	if settings != nil {
		if err := mapstructure.Decode(settings, &cfg); err != nil {
			return nil, fmt.Errorf("failed to decode heuristic config: %w", err)
		}
	}

	keywords := make(map[moderation.Category][]term, len(keywordTable))
	for category, terms := range keywordTable {
		keywords[category] = append([]term(nil), terms...)
	}
	for categoryName, extras := range cfg.ExtraKeywords {
		category := moderation.Category(categoryName)
		for _, text := range extras {
			keywords[category] = append(keywords[category], term{text: strings.ToLower(text), weight: 0.6})
		}
	}

	patterns := make(map[moderation.Category][]compiledPattern, len(regexTable))
	for category, entries := range regexTable {
		for _, entry := range entries {
			re, err := regexp.Compile("(?i)" + entry.pattern)
			if err != nil {
				return nil, fmt.Errorf("failed to compile heuristic pattern %q: %w", entry.pattern, err)
			}
			patterns[category] = append(patterns[category], compiledPattern{re: re, weight: entry.weight})
		}
	}

	return &Classifier{logger: logger, keywords: keywords, patterns: patterns}, nil
}

func (c *Classifier) Name() string {
	return ClassifierName
}

func (c *Classifier) Classify(ctx context.Context, item *moderation.ContentItem) (*moderation.ScoreVector, error) {
	if strings.TrimSpace(item.Content) == "" {
		return nil, fmt.Errorf("%w: empty content", domain.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text := strings.ToLower(item.Content)
	scores := moderation.NewScoreVector()

	hitCategories := 0
	for _, category := range moderation.Categories() {
		score := c.scoreCategory(category, text)
		if score > 0 {
			hitCategories++
		}
		scores.Categories[category] = score
	}

	// A heuristic toxicity floor: strongly hateful, harassing or profane text
	// is toxic even without a direct toxicity keyword hit.
	derived := derivedToxicity * max3(
		scores.Get(moderation.CategoryHateSpeech),
		scores.Get(moderation.CategoryHarassment),
		scores.Get(moderation.CategoryProfanity),
	)
	if derived > scores.Categories[moderation.CategoryToxicity] {
		scores.Categories[moderation.CategoryToxicity] = derived
	}

	scores.Confidence = baseConfidence + confidencePerHit*float64(hitCategories)
	if scores.Confidence > maxConfidence {
		scores.Confidence = maxConfidence
	}

	return &scores, nil
}

func (c *Classifier) scoreCategory(category moderation.Category, text string) float64 {
	var score float64
	matches := 0

	for _, t := range c.keywords[category] {
		if strings.Contains(text, t.text) {
			matches++
			if t.weight > score {
				score = t.weight
			}
		}
	}
	for _, p := range c.patterns[category] {
		if p.re.MatchString(text) {
			matches++
			if p.weight > score {
				score = p.weight
			}
		}
	}
	if category == moderation.CategorySpam && hasCharRun(text, spamRunLength) {
		matches++
		if spamRunWeight > score {
			score = spamRunWeight
		}
	}

	if matches > 1 {
		score += repeatBonus * float64(matches-1)
	}
	if score > 1 {
		score = 1
	}
	return score
}

// hasCharRun reports whether text contains n or more consecutive copies of
// the same rune.
func hasCharRun(text string, n int) bool {
	var prev rune
	run := 0
	for _, r := range text {
		if r == prev {
			run++
		} else {
			prev = r
			run = 1
		}
		if run >= n {
			return true
		}
	}
	return false
}

func max3(a, b, c float64) float64 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}
