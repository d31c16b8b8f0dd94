package common

import "time"

const (
	// DefaultClassifierTimeout bounds a single classifier call.
	DefaultClassifierTimeout = 5 * time.Second

	// DefaultBatchConcurrency caps how many items of a batch are analyzed in parallel.
	DefaultBatchConcurrency = 4

	// SessionHistorySize bounds the per-session recent-record buffer.
	SessionHistorySize = 50

	// ResultCacheTTL is a safety net for redis-backed result entries; entries are
	// purged explicitly when a session stops.
	ResultCacheTTL = 24 * time.Hour
)

type CacheConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	TLS      bool
}
