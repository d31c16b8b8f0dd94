package engine

import (
	"context"
	"sync"
	"time"

	"github.com/modsentry/modsentry/pkg/aggregator"
	"github.com/modsentry/modsentry/pkg/cache"
	"github.com/modsentry/modsentry/pkg/classifier"
	"github.com/modsentry/modsentry/pkg/domain"
	"github.com/modsentry/modsentry/pkg/domain/moderation"
	"github.com/modsentry/modsentry/pkg/domain/session"
	"github.com/modsentry/modsentry/pkg/infra/fingerprint"
	"github.com/modsentry/modsentry/pkg/infra/prometheus"
	"github.com/modsentry/modsentry/pkg/metrics"
	"github.com/sirupsen/logrus"
)

// ManagerDeps wires the manager's collaborators.
type ManagerDeps struct {
	Registry          *classifier.Registry
	Aggregator        *aggregator.Aggregator
	Policy            PolicyEvaluator
	Store             cache.Store
	Logger            *logrus.Logger
	ClassifierTimeout time.Duration
	BatchConcurrency  int
	HistorySize       int
}

// PolicyEvaluator is the slice of the policy engine the manager needs.
type PolicyEvaluator interface {
	Evaluate(scores moderation.ScoreVector, sens session.Sensitivity, autoAction bool) moderation.Action
}

// Manager owns every session's lifecycle and serializes mutating operations
// against shared session state. Cross-session operations share no locks.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*managedSession

	registry   *classifier.Registry
	aggregator *aggregator.Aggregator
	policy     PolicyEvaluator
	store      cache.Store
	logger     *logrus.Logger

	classifierTimeout time.Duration
	batchConcurrency  int
	historySize       int
}

// managedSession pairs the session entity with its runtime state. The mutex
// linearizes lifecycle transitions and in-flight registration; the tracker
// carries its own lock so statistics reads do not block analyses.
type managedSession struct {
	mu          sync.Mutex
	session     *session.Session
	classifiers []classifier.Classifier
	tracker     *metrics.Tracker
	inflight    sync.WaitGroup
	finalStats  *session.Statistics
}

func NewManager(deps ManagerDeps) *Manager {
	timeout := deps.ClassifierTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	batch := deps.BatchConcurrency
	if batch <= 0 {
		batch = 4
	}
	history := deps.HistorySize
	if history <= 0 {
		history = 50
	}
	return &Manager{
		sessions:          make(map[string]*managedSession),
		registry:          deps.Registry,
		aggregator:        deps.Aggregator,
		policy:            deps.Policy,
		store:             deps.Store,
		logger:            deps.Logger,
		classifierTimeout: timeout,
		batchConcurrency:  batch,
		historySize:       history,
	}
}

// Start validates the configuration, allocates a session and moves it to
// active. At least one known classifier must be enabled.
func (m *Manager) Start(interviewID, userID string, options session.Options) (*session.Session, error) {
	if len(options.AIModels) == 0 {
		return nil, domain.NewInvalidConfigurationError("at least one classifier must be enabled")
	}
	classifiers, err := m.registry.Resolve(options.AIModels)
	if err != nil {
		return nil, err
	}

	s := session.New(interviewID, userID, options)
	ms := &managedSession{
		session:     s,
		classifiers: classifiers,
		tracker:     metrics.NewTracker(m.historySize),
	}

	m.mu.Lock()
	m.sessions[s.ID] = ms
	m.mu.Unlock()

	prometheus.ActiveSessions.Inc()
	m.logger.WithFields(logrus.Fields{
		"session_id":  s.ID,
		"sensitivity": s.Options.Sensitivity,
		"classifiers": options.AIModels,
	}).Info("moderation session started")

	return s, nil
}

// Get returns the session entity for inspection.
func (m *Manager) Get(sessionID string) (*session.Session, error) {
	ms, err := m.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()
	copied := *ms.session
	return &copied, nil
}

// Stop marks the session inactive immediately, waits for in-flight analyses
// to complete, folds them into the final snapshot and discards the session's
// cache entries. Stopping an already-stopped session fails with
// SessionInactive but still reports the last valid snapshot.
func (m *Manager) Stop(ctx context.Context, sessionID string) (*session.Statistics, error) {
	ms, err := m.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	ms.mu.Lock()
	if ms.session.Status != session.StatusActive {
		final := ms.finalStats
		ms.mu.Unlock()
		return final, domain.NewSessionInactiveError(sessionID)
	}
	now := time.Now()
	ms.session.Status = session.StatusStopped
	ms.session.StoppedAt = &now
	ms.mu.Unlock()

	// New analyses are rejected from here on; let dispatched ones finish so
	// their records are attributed to the final snapshot.
	ms.inflight.Wait()

	final := ms.tracker.Close()
	ms.mu.Lock()
	ms.finalStats = &final
	ms.mu.Unlock()

	m.store.Purge(ctx, sessionID)
	prometheus.ActiveSessions.Dec()
	m.logger.WithFields(logrus.Fields{
		"session_id":     sessionID,
		"total_analyzed": final.TotalAnalyzed,
		"violations":     final.ViolationsDetected,
	}).Info("moderation session stopped")

	return &final, nil
}

// Statistics returns the running (or final) statistics and the extended
// analytics detail. Valid for stopped sessions as well.
func (m *Manager) Statistics(sessionID string) (session.Statistics, metrics.Detail, error) {
	ms, err := m.lookup(sessionID)
	if err != nil {
		return session.Statistics{}, metrics.Detail{}, err
	}
	return ms.tracker.Snapshot(), ms.tracker.Metrics(), nil
}

func (m *Manager) lookup(sessionID string) (*managedSession, error) {
	m.mu.RLock()
	ms, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if !ok {
		return nil, domain.NewSessionNotFoundError(sessionID)
	}
	return ms, nil
}

// beginAnalysis registers an in-flight analysis while the session is still
// active; registration and the status check are one atomic step so Stop can
// rely on the WaitGroup covering every admitted analysis.
func (ms *managedSession) beginAnalysis() error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.session.Status != session.StatusActive {
		return domain.NewSessionInactiveError(ms.session.ID)
	}
	ms.inflight.Add(1)
	return nil
}

func (ms *managedSession) fingerprintFor(item *moderation.ContentItem) string {
	names := make([]string, 0, len(ms.classifiers))
	for _, c := range ms.classifiers {
		names = append(names, c.Name())
	}
	return fingerprint.Fingerprint{
		Content:     item.Content,
		ContentType: item.Type,
		Classifiers: names,
	}.ID()
}
