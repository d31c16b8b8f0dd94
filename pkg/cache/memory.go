package cache

import (
	"context"
	"sync"

	"github.com/modsentry/modsentry/pkg/domain/moderation"
)

// MemoryStore is the default single-process result cache.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]map[string]*moderation.AnalysisRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]map[string]*moderation.AnalysisRecord),
	}
}

func (s *MemoryStore) Get(_ context.Context, sessionID, fingerprint string) (*moderation.AnalysisRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.entries[sessionID]
	if !ok {
		return nil, false
	}
	rec, ok := session[fingerprint]
	return rec, ok
}

func (s *MemoryStore) Set(_ context.Context, sessionID, fingerprint string, rec *moderation.AnalysisRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.entries[sessionID]
	if !ok {
		session = make(map[string]*moderation.AnalysisRecord)
		s.entries[sessionID] = session
	}
	session[fingerprint] = rec
}

func (s *MemoryStore) Purge(_ context.Context, sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
}
