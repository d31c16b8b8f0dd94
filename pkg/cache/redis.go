package cache

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/modsentry/modsentry/pkg/common"
	"github.com/modsentry/modsentry/pkg/domain/moderation"
	"github.com/sirupsen/logrus"
)

const resultKeyPattern = "modsentry:result:%s:%s"

// RedisStore shares the result cache across replicas. Redis errors degrade to
// cache misses; the pipeline never fails because the cache is unreachable.
type RedisStore struct {
	client *redis.Client
	logger *logrus.Logger
	ttl    time.Duration
}

func NewRedisStore(cfg common.CacheConfig, logger *logrus.Logger) *RedisStore {
	options := &redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.TLS {
		options.TLSConfig = &tls.Config{
			InsecureSkipVerify: true, // #nosec G402
		}
	}
	return &RedisStore{
		client: redis.NewClient(options),
		logger: logger,
		ttl:    common.ResultCacheTTL,
	}
}

func (s *RedisStore) Get(ctx context.Context, sessionID, fingerprint string) (*moderation.AnalysisRecord, bool) {
	key := fmt.Sprintf(resultKeyPattern, sessionID, fingerprint)
	raw, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.WithError(err).Warn("result cache read failed")
		}
		return nil, false
	}
	var rec moderation.AnalysisRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		s.logger.WithError(err).Warn("result cache entry corrupt, treating as miss")
		return nil, false
	}
	return &rec, true
}

func (s *RedisStore) Set(ctx context.Context, sessionID, fingerprint string, rec *moderation.AnalysisRecord) {
	raw, err := json.Marshal(rec)
	if err != nil {
		s.logger.WithError(err).Warn("failed to marshal analysis record for cache")
		return
	}
	key := fmt.Sprintf(resultKeyPattern, sessionID, fingerprint)
	if err := s.client.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		s.logger.WithError(err).Warn("result cache write failed")
	}
}

// Purge scans and deletes every entry belonging to the session.
func (s *RedisStore) Purge(ctx context.Context, sessionID string) {
	pattern := fmt.Sprintf(resultKeyPattern, sessionID, "*")
	var cursor uint64
	for {
		keys, nextCursor, err := s.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			s.logger.WithError(err).Warn("result cache purge scan failed")
			return
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				s.logger.WithError(err).Warn("result cache purge delete failed")
			}
		}
		cursor = nextCursor
		if cursor == 0 {
			return
		}
	}
}
