package aggregator

import (
	"testing"

	"github.com/modsentry/modsentry/pkg/domain/moderation"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vectorWith(scores map[moderation.Category]float64, confidence float64) *moderation.ScoreVector {
	v := moderation.NewScoreVector()
	for category, score := range scores {
		v.Categories[category] = score
	}
	v.Confidence = confidence
	return &v
}

func TestMerge_WorstCaseWinsPerCategory(t *testing.T) {
	a := New(logrus.New())

	results := map[string]moderation.ModelResult{
		"lenient": {
			Classifier: "lenient",
			Success:    true,
			Scores: vectorWith(map[moderation.Category]float64{
				moderation.CategoryToxicity: 0.20,
				moderation.CategoryThreat:   0.10,
			}, 0.80),
		},
		"strict": {
			Classifier: "strict",
			Success:    true,
			Scores: vectorWith(map[moderation.Category]float64{
				moderation.CategoryToxicity: 0.90,
				moderation.CategorySpam:     0.40,
			}, 0.60),
		},
	}

	merged, degraded := a.Merge(results)

	require.False(t, degraded)
	assert.Equal(t, 0.90, merged.Categories[moderation.CategoryToxicity])
	assert.Equal(t, 0.10, merged.Categories[moderation.CategoryThreat])
	assert.Equal(t, 0.40, merged.Categories[moderation.CategorySpam])
	assert.InDelta(t, 0.70, merged.Confidence, 1e-9)
}

func TestMerge_OverallRiskWeighting(t *testing.T) {
	a := New(logrus.New())

	results := map[string]moderation.ModelResult{
		"m": {
			Classifier: "m",
			Success:    true,
			Scores: vectorWith(map[moderation.Category]float64{
				moderation.CategoryThreat:   1.0,
				moderation.CategoryViolence: 0.5,
				moderation.CategorySpam:     0.4,
			}, 0.9),
		},
	}

	merged, degraded := a.Merge(results)

	require.False(t, degraded)
	// 0.6*max(severe) + 0.4*mean(secondary) = 0.6*1.0 + 0.4*0.1
	assert.InDelta(t, 0.64, merged.OverallRisk, 1e-9)
}

func TestMerge_FailedResultsExcluded(t *testing.T) {
	a := New(logrus.New())

	results := map[string]moderation.ModelResult{
		"ok": {
			Classifier: "ok",
			Success:    true,
			Scores: vectorWith(map[moderation.Category]float64{
				moderation.CategoryProfanity: 0.75,
			}, 0.50),
		},
		"timed-out": {
			Classifier: "timed-out",
			Failure:    moderation.FailureTimeout,
			Error:      "context deadline exceeded",
		},
	}

	merged, degraded := a.Merge(results)

	require.False(t, degraded)
	assert.Equal(t, 0.75, merged.Categories[moderation.CategoryProfanity])
	// The timed-out classifier contributes zero confidence: 0.50 / 2.
	assert.InDelta(t, 0.25, merged.Confidence, 1e-9)
}

func TestMerge_PartialFailureLowersConfidence(t *testing.T) {
	a := New(logrus.New())

	results := map[string]moderation.ModelResult{
		"ok": {
			Classifier: "ok",
			Success:    true,
			Scores: vectorWith(map[moderation.Category]float64{
				moderation.CategoryToxicity: 0.30,
			}, 0.90),
		},
		"down": {Classifier: "down", Failure: moderation.FailureUnavailable, Error: "connection refused"},
	}

	merged, degraded := a.Merge(results)

	require.False(t, degraded)
	assert.Less(t, merged.Confidence, 0.90)
	assert.InDelta(t, 0.45, merged.Confidence, 1e-9)
}

func TestMerge_AllFailedIsDegraded(t *testing.T) {
	a := New(logrus.New())

	results := map[string]moderation.ModelResult{
		"down": {Classifier: "down", Failure: moderation.FailureUnavailable, Error: "connection refused"},
	}

	merged, degraded := a.Merge(results)

	assert.True(t, degraded)
	assert.Zero(t, merged.Confidence)
	assert.Zero(t, merged.OverallRisk)
	for _, category := range moderation.Categories() {
		assert.Zero(t, merged.Categories[category])
	}
}

func TestMerge_ScoresClampedToUnitInterval(t *testing.T) {
	a := New(logrus.New())

	results := map[string]moderation.ModelResult{
		"noisy": {
			Classifier: "noisy",
			Success:    true,
			Scores: vectorWith(map[moderation.Category]float64{
				moderation.CategoryHateSpeech: 1.7,
			}, 0.9),
		},
	}

	merged, degraded := a.Merge(results)

	require.False(t, degraded)
	assert.Equal(t, 1.0, merged.Categories[moderation.CategoryHateSpeech])
	assert.LessOrEqual(t, merged.OverallRisk, 1.0)
}

func TestMerge_UnknownCategoriesIgnored(t *testing.T) {
	a := New(logrus.New())

	v := moderation.NewScoreVector()
	v.Categories[moderation.Category("not_a_real_category")] = 0.99
	v.Confidence = 0.8

	merged, degraded := a.Merge(map[string]moderation.ModelResult{
		"m": {Classifier: "m", Success: true, Scores: &v},
	})

	require.False(t, degraded)
	_, ok := merged.Categories[moderation.Category("not_a_real_category")]
	assert.False(t, ok)
}
