package aggregator

import (
	"github.com/modsentry/modsentry/pkg/domain/moderation"
	"github.com/sirupsen/logrus"
)

const (
	severeWeight    = 0.6
	secondaryWeight = 0.4
)

// Aggregator merges per-classifier outputs into one score vector. The merge is
// worst-case-wins per category: any single model flagging content as severe
// must not be diluted by averaging with lenient models.
type Aggregator struct {
	logger *logrus.Logger
}

func New(logger *logrus.Logger) *Aggregator {
	return &Aggregator{logger: logger}
}

// Merge combines the successful results into one vector. Per-category scores
// take the maximum across classifiers, confidence is the mean over all
// enabled classifiers with failed ones contributing zero, and overall risk is
// derived from the merged categories. When no classifier succeeded it returns
// an all-zero vector with confidence 0 and degraded=true.
func (a *Aggregator) Merge(results map[string]moderation.ModelResult) (moderation.ScoreVector, bool) {
	merged := moderation.NewScoreVector()

	succeeded := 0
	var confidenceSum float64
	for _, result := range results {
		if !result.Success || result.Scores == nil {
			continue
		}
		succeeded++
		confidenceSum += result.Scores.Confidence
		for category, score := range result.Scores.Categories {
			if _, ok := merged.Categories[category]; !ok {
				continue
			}
			if score > merged.Categories[category] {
				merged.Categories[category] = clamp01(score)
			}
		}
	}

	if succeeded == 0 {
		a.logger.Warn("aggregation degraded: no classifier produced a result")
		return merged, true
	}

	// Every failed classifier drags confidence down: a vector built from half
	// the session's models is weaker evidence than one built from all of them.
	merged.Confidence = confidenceSum / float64(len(results))
	merged.OverallRisk = OverallRisk(merged.Categories)
	return merged, false
}

// OverallRisk is a deterministic function of the category scores: the worst
// severe category carries most of the weight, the secondary categories
// contribute their mean.
func OverallRisk(categories map[moderation.Category]float64) float64 {
	var severeMax float64
	for _, category := range moderation.SevereCategories() {
		if categories[category] > severeMax {
			severeMax = categories[category]
		}
	}

	var secondarySum float64
	secondary := moderation.SecondaryCategories()
	for _, category := range secondary {
		secondarySum += categories[category]
	}
	secondaryMean := secondarySum / float64(len(secondary))

	return clamp01(severeWeight*severeMax + secondaryWeight*secondaryMean)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
