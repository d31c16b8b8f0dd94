package engine

import (
	"context"
	"errors"
	"time"

	"github.com/modsentry/modsentry/pkg/classifier"
	"github.com/modsentry/modsentry/pkg/domain"
	"github.com/modsentry/modsentry/pkg/domain/moderation"
	"github.com/modsentry/modsentry/pkg/domain/session"
	"github.com/modsentry/modsentry/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Analyze runs the full pipeline for one content item: cache probe, parallel
// fan-out to the session's classifiers, aggregation, policy evaluation and
// statistics update. Classifier failures are recovered locally; only a
// missing or stopped session fails the call.
func (m *Manager) Analyze(ctx context.Context, sessionID string, item *moderation.ContentItem) (*moderation.AnalysisRecord, error) {
	ms, err := m.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	if err := ms.beginAnalysis(); err != nil {
		return nil, err
	}
	defer ms.inflight.Done()

	opts := ms.session.Options
	cacheEnabled := opts.Settings.CacheResults

	var fp string
	if cacheEnabled {
		fp = ms.fingerprintFor(item)
		if cached, ok := m.store.Get(ctx, sessionID, fp); ok {
			hit := *cached
			hit.Item = *item
			hit.Cached = true
			ms.tracker.Record(&hit)
			prometheus.CacheHits.WithLabelValues("result").Inc()
			prometheus.AnalysisTotal.WithLabelValues(string(hit.Action.Action)).Inc()
			return &hit, nil
		}
	}

	start := time.Now()
	results := m.dispatch(ctx, ms.classifiers, item)

	merged, degraded := m.aggregator.Merge(results)
	action := m.policy.Evaluate(merged, opts.Sensitivity, opts.AutoAction)
	if degraded {
		// Conservative default: with no classifier evidence nothing can be
		// flagged, but the record is marked so callers can retry or route it
		// to manual review.
		action.Reason = "degraded: no classifier produced a result"
	}

	rec := &moderation.AnalysisRecord{
		Item:             *item,
		ModelResults:     results,
		Scores:           merged,
		Action:           action,
		ProcessingTimeMs: time.Since(start).Milliseconds(),
		Degraded:         degraded,
		CompletedAt:      time.Now(),
	}

	if cacheEnabled && !degraded {
		m.store.Set(ctx, sessionID, fp, rec)
	}

	ms.tracker.Record(rec)
	prometheus.AnalysisTotal.WithLabelValues(string(action.Action)).Inc()
	prometheus.AnalysisLatency.WithLabelValues("total").Observe(float64(rec.ProcessingTimeMs))

	if action.Action.IsViolation() {
		m.logger.WithFields(logrus.Fields{
			"session_id": sessionID,
			"content_id": item.ID,
			"action":     action.Action,
			"severity":   action.Severity,
			"reason":     action.Reason,
		}).Warn("content violation detected")
	}

	return rec, nil
}

// dispatch invokes every classifier concurrently, each bounded by the
// per-call timeout, and joins the results. One classifier's failure never
// aborts its siblings.
func (m *Manager) dispatch(ctx context.Context, classifiers []classifier.Classifier, item *moderation.ContentItem) map[string]moderation.ModelResult {
	resultCh := make(chan moderation.ModelResult, len(classifiers))

	for _, c := range classifiers {
		go func(c classifier.Classifier) {
			callStart := time.Now()
			callCtx, cancel := context.WithTimeout(ctx, m.classifierTimeout)
			defer cancel()

			scores, err := c.Classify(callCtx, item)
			latency := time.Since(callStart).Milliseconds()

			result := moderation.ModelResult{
				Classifier: c.Name(),
				LatencyMs:  latency,
			}
			if err != nil {
				result.Failure = failureKind(err)
				result.Error = err.Error()
				prometheus.ClassifierErrors.WithLabelValues(c.Name(), string(result.Failure)).Inc()
				m.logger.WithError(err).WithFields(logrus.Fields{
					"classifier": c.Name(),
					"content_id": item.ID,
				}).Warn("classifier call failed")
			} else {
				result.Success = true
				result.Scores = scores
				prometheus.AnalysisLatency.WithLabelValues(c.Name()).Observe(float64(latency))
			}
			resultCh <- result
		}(c)
	}

	results := make(map[string]moderation.ModelResult, len(classifiers))
	for range classifiers {
		result := <-resultCh
		results[result.Classifier] = result
	}
	return results
}

func failureKind(err error) moderation.FailureKind {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, domain.ErrClassifierTimeout):
		return moderation.FailureTimeout
	case errors.Is(err, domain.ErrInvalidInput):
		return moderation.FailureInvalidInput
	default:
		return moderation.FailureUnavailable
	}
}

// BatchItemResult is one item's outcome inside a batch. Err is set only for
// session-level failures; classifier failures surface inside the record.
type BatchItemResult struct {
	ContentID string
	Record    *moderation.AnalysisRecord
	Err       error
}

// BatchSummary aggregates a batch the way single analyses never are:
// category scores averaged across the processed items.
type BatchSummary struct {
	Processed        int                `json:"processed"`
	Violations       int                `json:"violations"`
	CategoryAverages map[string]float64 `json:"category_averages"`
}

// BatchAnalyze applies Analyze to each item, running at most
// batchConcurrency items in parallel. Exactly one result entry is produced
// per submitted item regardless of individual failures.
func (m *Manager) BatchAnalyze(ctx context.Context, sessionID string, items []*moderation.ContentItem) ([]BatchItemResult, BatchSummary, error) {
	ms, err := m.lookup(sessionID)
	if err != nil {
		return nil, BatchSummary{}, err
	}
	ms.mu.Lock()
	active := ms.session.Status == session.StatusActive
	ms.mu.Unlock()
	if !active {
		return nil, BatchSummary{}, domain.NewSessionInactiveError(sessionID)
	}

	results := make([]BatchItemResult, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.batchConcurrency)
	for i := range items {
		i := i
		g.Go(func() error {
			rec, err := m.Analyze(gctx, sessionID, items[i])
			results[i] = BatchItemResult{ContentID: items[i].ID, Record: rec, Err: err}
			// Per-item failures are captured in place; the batch never aborts.
			return nil
		})
	}
	_ = g.Wait()

	return results, summarize(results), nil
}

func summarize(results []BatchItemResult) BatchSummary {
	summary := BatchSummary{CategoryAverages: make(map[string]float64)}
	sums := make(map[moderation.Category]float64)

	for _, r := range results {
		if r.Err != nil || r.Record == nil {
			continue
		}
		summary.Processed++
		if r.Record.Action.Action.IsViolation() {
			summary.Violations++
		}
		for category, score := range r.Record.Scores.Categories {
			sums[category] += score
		}
	}
	if summary.Processed > 0 {
		for category, sum := range sums {
			summary.CategoryAverages[string(category)] = sum / float64(summary.Processed)
		}
	}
	return summary
}
