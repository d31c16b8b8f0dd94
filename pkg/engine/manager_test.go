package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/modsentry/modsentry/pkg/aggregator"
	"github.com/modsentry/modsentry/pkg/cache"
	"github.com/modsentry/modsentry/pkg/classifier"
	"github.com/modsentry/modsentry/pkg/config"
	"github.com/modsentry/modsentry/pkg/domain"
	"github.com/modsentry/modsentry/pkg/domain/moderation"
	"github.com/modsentry/modsentry/pkg/domain/session"
	"github.com/modsentry/modsentry/pkg/policy"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClassifier struct {
	name   string
	scores map[moderation.Category]float64
	conf   float64
	err    error
	calls  int
}

func (s *stubClassifier) Name() string { return s.name }

func (s *stubClassifier) Classify(ctx context.Context, item *moderation.ContentItem) (*moderation.ScoreVector, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	v := moderation.NewScoreVector()
	for category, score := range s.scores {
		v.Categories[category] = score
	}
	v.Confidence = s.conf
	return &v, nil
}

func newTestManager(t *testing.T, stubs ...*stubClassifier) *Manager {
	t.Helper()
	logger := logrus.New()
	registry := classifier.NewRegistry(logger)
	for _, s := range stubs {
		require.NoError(t, registry.Register(s))
	}
	return NewManager(ManagerDeps{
		Registry:   registry,
		Aggregator: aggregator.New(logger),
		Policy:     policy.NewEngine(logger, config.PolicyConfig{}),
		Store:      cache.NewMemoryStore(),
		Logger:     logger,
	})
}

func defaultOptions(models []string, cacheResults bool) session.Options {
	return session.Options{
		Sensitivity: session.SensitivityMedium,
		AutoAction:  true,
		AIModels:    models,
		Settings: session.Settings{
			MultiModelAnalysis: len(models) > 1,
			CacheResults:       cacheResults,
		},
	}
}

func item(id, content string) *moderation.ContentItem {
	return &moderation.ContentItem{
		ID:          id,
		Content:     content,
		Type:        moderation.ContentTypeChat,
		SubmittedAt: time.Now(),
	}
}

func TestManager_StartRejectsUnknownClassifier(t *testing.T) {
	m := newTestManager(t, &stubClassifier{name: "stub", conf: 0.9})

	_, err := m.Start("itv-1", "user-1", defaultOptions([]string{"missing"}, false))
	assert.True(t, domain.IsInvalidConfiguration(err))

	_, err = m.Start("itv-1", "user-1", defaultOptions(nil, false))
	assert.True(t, domain.IsInvalidConfiguration(err))
}

func TestManager_AnalyzeHappyPath(t *testing.T) {
	stub := &stubClassifier{
		name:   "stub",
		scores: map[moderation.Category]float64{moderation.CategoryThreat: 0.95},
		conf:   0.9,
	}
	m := newTestManager(t, stub)

	sess, err := m.Start("itv-1", "user-1", defaultOptions([]string{"stub"}, false))
	require.NoError(t, err)

	rec, err := m.Analyze(context.Background(), sess.ID, item("c1", "some text"))
	require.NoError(t, err)

	assert.Equal(t, moderation.ActionBlock, rec.Action.Action)
	assert.True(t, rec.Action.Enforced)
	assert.False(t, rec.Degraded)
	assert.False(t, rec.Cached)
	require.Contains(t, rec.ModelResults, "stub")
	assert.True(t, rec.ModelResults["stub"].Success)

	stats, _, err := m.Statistics(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalAnalyzed)
	assert.Equal(t, int64(1), stats.ViolationsDetected)
}

func TestManager_AnalyzeUnknownSession(t *testing.T) {
	m := newTestManager(t, &stubClassifier{name: "stub", conf: 0.9})

	_, err := m.Analyze(context.Background(), "nope", item("c1", "text"))
	assert.True(t, domain.IsSessionNotFound(err))
}

func TestManager_AllClassifiersFailingIsDegradedNotFatal(t *testing.T) {
	down := &stubClassifier{name: "down", err: domain.ErrClassifierUnavailable}
	m := newTestManager(t, down)

	sess, err := m.Start("itv-1", "user-1", defaultOptions([]string{"down"}, false))
	require.NoError(t, err)

	rec, err := m.Analyze(context.Background(), sess.ID, item("c1", "text"))
	require.NoError(t, err)

	assert.True(t, rec.Degraded)
	assert.Equal(t, moderation.ActionAllow, rec.Action.Action)
	assert.Zero(t, rec.Scores.OverallRisk)
	assert.Equal(t, moderation.FailureUnavailable, rec.ModelResults["down"].Failure)

	// Degraded analyses still count toward session statistics.
	stats, _, err := m.Statistics(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalAnalyzed)
}

func TestManager_PartialFailureUsesSurvivors(t *testing.T) {
	ok := &stubClassifier{
		name:   "ok",
		scores: map[moderation.Category]float64{moderation.CategoryProfanity: 0.70},
		conf:   0.8,
	}
	down := &stubClassifier{name: "down", err: domain.ErrClassifierTimeout}
	m := newTestManager(t, ok, down)

	sess, err := m.Start("itv-1", "user-1", defaultOptions([]string{"ok", "down"}, false))
	require.NoError(t, err)

	rec, err := m.Analyze(context.Background(), sess.ID, item("c1", "text"))
	require.NoError(t, err)

	assert.False(t, rec.Degraded)
	assert.Equal(t, moderation.ActionWarn, rec.Action.Action)
	assert.Equal(t, moderation.FailureTimeout, rec.ModelResults["down"].Failure)
	// Confidence halves because one of the two models failed.
	assert.InDelta(t, 0.4, rec.Scores.Confidence, 1e-9)
}

func TestManager_CachedResultIsIdempotent(t *testing.T) {
	stub := &stubClassifier{
		name:   "stub",
		scores: map[moderation.Category]float64{moderation.CategoryToxicity: 0.30},
		conf:   0.9,
	}
	m := newTestManager(t, stub)

	sess, err := m.Start("itv-1", "user-1", defaultOptions([]string{"stub"}, true))
	require.NoError(t, err)

	first, err := m.Analyze(context.Background(), sess.ID, item("c1", "same text"))
	require.NoError(t, err)
	require.False(t, first.Cached)

	second, err := m.Analyze(context.Background(), sess.ID, item("c2", "same text"))
	require.NoError(t, err)

	assert.True(t, second.Cached)
	assert.Equal(t, first.Action, second.Action)
	assert.Equal(t, first.Scores, second.Scores)
	assert.Equal(t, "c2", second.Item.ID)
	assert.Equal(t, 1, stub.calls)

	// Cache hits still increment the session totals.
	stats, _, err := m.Statistics(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalAnalyzed)
	assert.Equal(t, int64(1), stats.CacheHits)
}

func TestManager_DegradedResultsNotCached(t *testing.T) {
	down := &stubClassifier{name: "down", err: domain.ErrClassifierUnavailable}
	m := newTestManager(t, down)

	sess, err := m.Start("itv-1", "user-1", defaultOptions([]string{"down"}, true))
	require.NoError(t, err)

	_, err = m.Analyze(context.Background(), sess.ID, item("c1", "text"))
	require.NoError(t, err)

	rec, err := m.Analyze(context.Background(), sess.ID, item("c2", "text"))
	require.NoError(t, err)
	assert.False(t, rec.Cached)
	assert.Equal(t, 2, down.calls)
}

func TestManager_BatchAnalyzeReturnsOneResultPerItem(t *testing.T) {
	stub := &stubClassifier{
		name:   "stub",
		scores: map[moderation.Category]float64{moderation.CategorySpam: 0.60},
		conf:   0.8,
	}
	m := newTestManager(t, stub)

	sess, err := m.Start("itv-1", "user-1", defaultOptions([]string{"stub"}, false))
	require.NoError(t, err)

	items := make([]*moderation.ContentItem, 7)
	for i := range items {
		items[i] = item(fmt.Sprintf("c%d", i), fmt.Sprintf("text %d", i))
	}

	results, summary, err := m.BatchAnalyze(context.Background(), sess.ID, items)
	require.NoError(t, err)

	require.Len(t, results, len(items))
	for i, r := range results {
		assert.Equal(t, fmt.Sprintf("c%d", i), r.ContentID)
		require.NoError(t, r.Err)
		require.NotNil(t, r.Record)
		assert.Equal(t, moderation.ActionFilter, r.Record.Action.Action)
	}

	assert.Equal(t, len(items), summary.Processed)
	assert.Equal(t, len(items), summary.Violations)
	assert.InDelta(t, 0.60, summary.CategoryAverages["spam"], 1e-9)

	stats, _, err := m.Statistics(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(len(items)), stats.TotalAnalyzed)
}

func TestManager_StopReturnsFinalStatisticsAndRejectsFurtherWork(t *testing.T) {
	stub := &stubClassifier{
		name:   "stub",
		scores: map[moderation.Category]float64{moderation.CategoryToxicity: 0.10},
		conf:   0.9,
	}
	m := newTestManager(t, stub)

	sess, err := m.Start("itv-1", "user-1", defaultOptions([]string{"stub"}, false))
	require.NoError(t, err)

	_, err = m.Analyze(context.Background(), sess.ID, item("c1", "text"))
	require.NoError(t, err)

	final, err := m.Stop(context.Background(), sess.ID)
	require.NoError(t, err)
	require.NotNil(t, final)
	assert.Equal(t, int64(1), final.TotalAnalyzed)

	_, err = m.Analyze(context.Background(), sess.ID, item("c2", "text"))
	assert.True(t, domain.IsSessionInactive(err))

	got, err := m.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, session.StatusStopped, got.Status)
	require.NotNil(t, got.StoppedAt)

	// Analytics remain queryable after stop.
	stats, _, err := m.Statistics(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, *final, stats)
}

func TestManager_DoubleStop(t *testing.T) {
	stub := &stubClassifier{name: "stub", conf: 0.9}
	m := newTestManager(t, stub)

	sess, err := m.Start("itv-1", "user-1", defaultOptions([]string{"stub"}, false))
	require.NoError(t, err)

	first, err := m.Stop(context.Background(), sess.ID)
	require.NoError(t, err)

	second, err := m.Stop(context.Background(), sess.ID)
	assert.True(t, domain.IsSessionInactive(err))
	require.NotNil(t, second)
	assert.Equal(t, *first, *second)
}

func TestManager_StopUnknownSession(t *testing.T) {
	m := newTestManager(t, &stubClassifier{name: "stub", conf: 0.9})

	_, err := m.Stop(context.Background(), "nope")
	assert.True(t, domain.IsSessionNotFound(err))
}

func TestManager_SessionsAreIsolated(t *testing.T) {
	stub := &stubClassifier{
		name:   "stub",
		scores: map[moderation.Category]float64{moderation.CategoryToxicity: 0.10},
		conf:   0.9,
	}
	m := newTestManager(t, stub)

	a, err := m.Start("itv-1", "user-1", defaultOptions([]string{"stub"}, false))
	require.NoError(t, err)
	b, err := m.Start("itv-2", "user-2", defaultOptions([]string{"stub"}, false))
	require.NoError(t, err)

	_, err = m.Analyze(context.Background(), a.ID, item("c1", "text"))
	require.NoError(t, err)

	statsA, _, err := m.Statistics(a.ID)
	require.NoError(t, err)
	statsB, _, err := m.Statistics(b.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(1), statsA.TotalAnalyzed)
	assert.Zero(t, statsB.TotalAnalyzed)
}
