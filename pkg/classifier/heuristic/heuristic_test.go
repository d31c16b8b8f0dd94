package heuristic

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/modsentry/modsentry/pkg/domain"
	"github.com/modsentry/modsentry/pkg/domain/moderation"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClassifier(t *testing.T, settings map[string]interface{}) *Classifier {
	t.Helper()
	c, err := NewClassifier(logrus.New(), settings)
	require.NoError(t, err)
	return c
}

func classify(t *testing.T, c *Classifier, content string) *moderation.ScoreVector {
	t.Helper()
	scores, err := c.Classify(context.Background(), &moderation.ContentItem{
		ID:          "test",
		Content:     content,
		Type:        moderation.ContentTypeChat,
		SubmittedAt: time.Now(),
	})
	require.NoError(t, err)
	return scores
}

func TestClassify_BenignContent(t *testing.T) {
	c := newTestClassifier(t, nil)

	scores := classify(t, c, "thanks for the great discussion, see you tomorrow")

	for _, category := range moderation.Categories() {
		assert.Zero(t, scores.Categories[category], string(category))
	}
	assert.InDelta(t, 0.70, scores.Confidence, 1e-9)
}

func TestClassify_ThreatRegex(t *testing.T) {
	c := newTestClassifier(t, nil)

	scores := classify(t, c, "I will find you and make you pay")

	assert.GreaterOrEqual(t, scores.Categories[moderation.CategoryThreat], 0.92)
}

func TestClassify_ThreatKeywordAndRegexStack(t *testing.T) {
	c := newTestClassifier(t, nil)

	// Keyword "i will find you" and the threat regex both match.
	scores := classify(t, c, "i will find you tonight")

	assert.InDelta(t, 0.97, scores.Categories[moderation.CategoryThreat], 1e-9)
}

func TestClassify_SpamSignals(t *testing.T) {
	c := newTestClassifier(t, nil)

	scores := classify(t, c, "CLICK HERE for free money http://spam.example.com $$$")

	// Two keywords plus two regex hits: max weight 0.80 + 3 repeat bonuses.
	assert.InDelta(t, 0.95, scores.Categories[moderation.CategorySpam], 1e-9)
}

func TestClassify_SpamRepeatedCharacterRun(t *testing.T) {
	c := newTestClassifier(t, nil)

	scores := classify(t, c, "wooooooow what a deal")

	assert.InDelta(t, 0.35, scores.Categories[moderation.CategorySpam], 1e-9)
}

func TestClassify_ShortRunIsNotSpam(t *testing.T) {
	c := newTestClassifier(t, nil)

	scores := classify(t, c, "that was sooo good")

	assert.Zero(t, scores.Categories[moderation.CategorySpam])
}

func TestClassify_SpamRunStacksWithKeywords(t *testing.T) {
	c := newTestClassifier(t, nil)

	scores := classify(t, c, "buy now!!!!!!")

	// Keyword 0.65 plus one repeat bonus for the exclamation run.
	assert.InDelta(t, 0.70, scores.Categories[moderation.CategorySpam], 1e-9)
}

func TestClassify_DerivedToxicityFloor(t *testing.T) {
	c := newTestClassifier(t, nil)

	scores := classify(t, c, "you are subhuman")

	assert.Equal(t, 0.90, scores.Categories[moderation.CategoryHateSpeech])
	assert.InDelta(t, 0.72, scores.Categories[moderation.CategoryToxicity], 1e-9)
}

func TestClassify_CaseInsensitive(t *testing.T) {
	c := newTestClassifier(t, nil)

	lower := classify(t, c, "free money click here")
	upper := classify(t, c, "FREE MONEY CLICK HERE")

	assert.Equal(t, lower.Categories[moderation.CategorySpam], upper.Categories[moderation.CategorySpam])
}

func TestClassify_ConfidenceGrowsWithHits(t *testing.T) {
	c := newTestClassifier(t, nil)

	one := classify(t, c, "you are an idiot")
	many := classify(t, c, "you idiot, i will kill you, click here for porn")

	assert.Greater(t, many.Confidence, one.Confidence)
	assert.LessOrEqual(t, many.Confidence, 0.90)
}

func TestClassify_EmptyContent(t *testing.T) {
	c := newTestClassifier(t, nil)

	_, err := c.Classify(context.Background(), &moderation.ContentItem{ID: "x", Content: "   "})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestClassify_CancelledContext(t *testing.T) {
	c := newTestClassifier(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Classify(ctx, &moderation.ContentItem{ID: "x", Content: "hello"})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestNewClassifier_ExtraKeywords(t *testing.T) {
	c := newTestClassifier(t, map[string]interface{}{
		"extra_keywords": map[string]interface{}{
			"spam": []interface{}{"totally not a scam"},
		},
	})

	scores := classify(t, c, "this is totally not a scam")

	assert.InDelta(t, 0.6, scores.Categories[moderation.CategorySpam], 1e-9)
}
