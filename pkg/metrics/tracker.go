package metrics

import (
	"sync"

	"github.com/modsentry/modsentry/pkg/domain/moderation"
	"github.com/modsentry/modsentry/pkg/domain/session"
)

// Detail is the extended analytics view alongside the core statistics:
// per-action counts, per-category running averages and the bounded
// recent-record buffer.
type Detail struct {
	ActionCounts     map[string]int64             `json:"action_counts"`
	CategoryAverages map[string]float64           `json:"category_averages"`
	CacheHits        int64                        `json:"cache_hits"`
	Recent           []*moderation.AnalysisRecord `json:"recent"`
}

// Tracker maintains one session's statistics incrementally: O(1) running-sum
// updates per record, no recomputation over history. A bounded recent buffer
// is kept separately for display and evicts oldest-first.
type Tracker struct {
	mu     sync.RWMutex
	closed bool

	stats         session.Statistics
	latencySum    float64
	confidenceSum float64

	actionCounts map[moderation.ActionType]int64
	categorySums map[moderation.Category]float64

	history     []*moderation.AnalysisRecord
	historySize int
}

func NewTracker(historySize int) *Tracker {
	return &Tracker{
		actionCounts: make(map[moderation.ActionType]int64),
		categorySums: make(map[moderation.Category]float64),
		historySize:  historySize,
	}
}

// Record folds one analysis record into the running aggregates. Records
// arriving after Close are discarded; the final snapshot is immutable.
func (t *Tracker) Record(rec *moderation.AnalysisRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}

	t.stats.TotalAnalyzed++
	if rec.Action.Action.IsViolation() {
		t.stats.ViolationsDetected++
	}
	if rec.Action.Enforced {
		t.stats.ActionsTaken++
	}
	if rec.Cached {
		t.stats.CacheHits++
	}

	t.latencySum += float64(rec.ProcessingTimeMs)
	t.confidenceSum += rec.Scores.Confidence
	t.stats.AvgLatencyMs = t.latencySum / float64(t.stats.TotalAnalyzed)
	t.stats.AvgConfidence = t.confidenceSum / float64(t.stats.TotalAnalyzed)
	t.stats.ViolationRate = float64(t.stats.ViolationsDetected) / float64(t.stats.TotalAnalyzed)

	t.actionCounts[rec.Action.Action]++
	for category, score := range rec.Scores.Categories {
		t.categorySums[category] += score
	}

	t.history = append(t.history, rec)
	if len(t.history) > t.historySize {
		t.history = t.history[len(t.history)-t.historySize:]
	}
}

// Snapshot returns the current statistics. Safe to call concurrently with
// in-flight Record calls; the result is an eventually-consistent copy.
func (t *Tracker) Snapshot() session.Statistics {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.stats
}

// Metrics returns the extended analytics view.
func (t *Tracker) Metrics() Detail {
	t.mu.RLock()
	defer t.mu.RUnlock()

	detail := Detail{
		ActionCounts:     make(map[string]int64, len(t.actionCounts)),
		CategoryAverages: make(map[string]float64, len(t.categorySums)),
		CacheHits:        t.stats.CacheHits,
		Recent:           append([]*moderation.AnalysisRecord(nil), t.history...),
	}
	for action, count := range t.actionCounts {
		detail.ActionCounts[string(action)] = count
	}
	if t.stats.TotalAnalyzed > 0 {
		for category, sum := range t.categorySums {
			detail.CategoryAverages[string(category)] = sum / float64(t.stats.TotalAnalyzed)
		}
	}
	return detail
}

// Close freezes the tracker and returns the final statistics snapshot.
func (t *Tracker) Close() session.Statistics {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	return t.stats
}
