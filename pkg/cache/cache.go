package cache

import (
	"context"

	"github.com/modsentry/modsentry/pkg/domain/moderation"
)

// Store memoizes analysis records by content fingerprint within one session.
// Entries never expire while the session runs; Purge discards everything for
// a session when it stops.
type Store interface {
	Get(ctx context.Context, sessionID, fingerprint string) (*moderation.AnalysisRecord, bool)
	Set(ctx context.Context, sessionID, fingerprint string, rec *moderation.AnalysisRecord)
	Purge(ctx context.Context, sessionID string)
}
