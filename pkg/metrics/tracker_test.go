package metrics

import (
	"fmt"
	"testing"

	"github.com/modsentry/modsentry/pkg/domain/moderation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(action moderation.ActionType, latencyMs int64, confidence float64, enforced, cached bool) *moderation.AnalysisRecord {
	scores := moderation.NewScoreVector()
	scores.Confidence = confidence
	scores.Categories[moderation.CategoryToxicity] = 0.5
	return &moderation.AnalysisRecord{
		Scores: scores,
		Action: moderation.Action{
			Action:   action,
			Enforced: enforced,
		},
		ProcessingTimeMs: latencyMs,
		Cached:           cached,
	}
}

func TestTracker_RunningStatistics(t *testing.T) {
	tracker := NewTracker(10)

	tracker.Record(record(moderation.ActionAllow, 100, 0.80, false, false))
	tracker.Record(record(moderation.ActionBlock, 300, 0.60, true, false))

	stats := tracker.Snapshot()
	assert.Equal(t, int64(2), stats.TotalAnalyzed)
	assert.Equal(t, int64(1), stats.ViolationsDetected)
	assert.Equal(t, int64(1), stats.ActionsTaken)
	assert.InDelta(t, 200, stats.AvgLatencyMs, 1e-9)
	assert.InDelta(t, 0.70, stats.AvgConfidence, 1e-9)
	assert.InDelta(t, 0.5, stats.ViolationRate, 1e-9)
}

func TestTracker_CacheHitsCounted(t *testing.T) {
	tracker := NewTracker(10)

	tracker.Record(record(moderation.ActionAllow, 1, 0.9, false, true))
	tracker.Record(record(moderation.ActionAllow, 1, 0.9, false, false))

	stats := tracker.Snapshot()
	assert.Equal(t, int64(2), stats.TotalAnalyzed)
	assert.Equal(t, int64(1), stats.CacheHits)
}

func TestTracker_MetricsDetail(t *testing.T) {
	tracker := NewTracker(10)

	tracker.Record(record(moderation.ActionWarn, 50, 0.7, false, false))
	tracker.Record(record(moderation.ActionWarn, 50, 0.7, false, false))
	tracker.Record(record(moderation.ActionAllow, 50, 0.7, false, false))

	detail := tracker.Metrics()
	assert.Equal(t, int64(2), detail.ActionCounts["warn"])
	assert.Equal(t, int64(1), detail.ActionCounts["allow"])
	assert.InDelta(t, 0.5, detail.CategoryAverages["toxicity"], 1e-9)
	assert.Len(t, detail.Recent, 3)
}

func TestTracker_HistoryBounded(t *testing.T) {
	tracker := NewTracker(3)

	for i := 0; i < 5; i++ {
		rec := record(moderation.ActionAllow, 10, 0.9, false, false)
		rec.Item.ID = fmt.Sprintf("item-%d", i)
		tracker.Record(rec)
	}

	detail := tracker.Metrics()
	require.Len(t, detail.Recent, 3)
	assert.Equal(t, "item-2", detail.Recent[0].Item.ID)
	assert.Equal(t, "item-4", detail.Recent[2].Item.ID)

	stats := tracker.Snapshot()
	assert.Equal(t, int64(5), stats.TotalAnalyzed)
}

func TestTracker_CloseFreezesStatistics(t *testing.T) {
	tracker := NewTracker(10)

	tracker.Record(record(moderation.ActionBlock, 100, 0.8, true, false))
	final := tracker.Close()
	assert.Equal(t, int64(1), final.TotalAnalyzed)

	tracker.Record(record(moderation.ActionBlock, 100, 0.8, true, false))
	assert.Equal(t, final, tracker.Snapshot())
}
