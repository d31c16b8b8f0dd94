package cache

import (
	"context"
	"testing"

	"github.com/modsentry/modsentry/pkg/domain/moderation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_GetSet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, ok := s.Get(ctx, "sess-1", "fp-1")
	assert.False(t, ok)

	rec := &moderation.AnalysisRecord{Scores: moderation.NewScoreVector()}
	s.Set(ctx, "sess-1", "fp-1", rec)

	got, ok := s.Get(ctx, "sess-1", "fp-1")
	require.True(t, ok)
	assert.Same(t, rec, got)
}

func TestMemoryStore_SessionsAreIsolated(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.Set(ctx, "sess-1", "fp-1", &moderation.AnalysisRecord{})

	_, ok := s.Get(ctx, "sess-2", "fp-1")
	assert.False(t, ok)
}

func TestMemoryStore_PurgeDropsWholeSession(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.Set(ctx, "sess-1", "fp-1", &moderation.AnalysisRecord{})
	s.Set(ctx, "sess-1", "fp-2", &moderation.AnalysisRecord{})
	s.Set(ctx, "sess-2", "fp-1", &moderation.AnalysisRecord{})

	s.Purge(ctx, "sess-1")

	_, ok := s.Get(ctx, "sess-1", "fp-1")
	assert.False(t, ok)
	_, ok = s.Get(ctx, "sess-1", "fp-2")
	assert.False(t, ok)
	_, ok = s.Get(ctx, "sess-2", "fp-1")
	assert.True(t, ok)
}
