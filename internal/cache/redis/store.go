package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/davidbz/plangate/internal/cache"
	"github.com/davidbz/plangate/internal/domain"
	"github.com/davidbz/plangate/internal/observability"
)

const (
	defaultKeyPrefix = "plangate:cache:"

	fieldData     = "data"
	fieldCachedAt = "cached_at"
)

// Store implements a response cache shared across processes using Redis.
//
// Entries expire through Redis key TTLs. Redis failures degrade to a miss
// so the cache never fails a provider call.
type Store struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

var _ cache.Store = (*Store)(nil)

// NewStore creates a new Redis response cache.
func NewStore(client *redis.Client, keyPrefix string, ttl time.Duration) *Store {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}

	return &Store{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

// Get returns the cached response for fingerprint.
func (s *Store) Get(ctx context.Context, fingerprint string) (*domain.Response, bool) {
	logger := observability.FromContext(ctx)

	data, err := s.client.HGet(ctx, s.key(fingerprint), fieldData).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn("redis cache lookup failed",
				observability.String("fingerprint", fingerprint),
				observability.Error(err))
		}
		s.misses.Add(1)
		return nil, false
	}

	var resp domain.Response
	if err := json.Unmarshal(data, &resp); err != nil {
		logger.Warn("discarding undecodable cache entry",
			observability.String("fingerprint", fingerprint),
			observability.Error(err))
		s.misses.Add(1)
		return nil, false
	}

	s.hits.Add(1)
	return &resp, true
}

// Put stores a successful response with the store's TTL.
func (s *Store) Put(ctx context.Context, fingerprint string, resp *domain.Response) {
	if resp == nil {
		return
	}

	if err := s.put(ctx, fingerprint, resp); err != nil {
		observability.FromContext(ctx).Warn("redis cache store failed",
			observability.String("fingerprint", fingerprint),
			observability.Error(err))
	}
}

func (s *Store) put(ctx context.Context, fingerprint string, resp *domain.Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}

	key := s.key(fingerprint)
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key,
		fieldData, string(data),
		fieldCachedAt, time.Now().Unix(),
	)
	pipe.Expire(ctx, key, s.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store: %w", err)
	}

	return nil
}

// Stats returns hit and miss counts seen by this process. Entries is not
// tracked for the shared backend.
func (s *Store) Stats() cache.Stats {
	return cache.Stats{
		Hits:   s.hits.Load(),
		Misses: s.misses.Load(),
	}
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) key(fingerprint string) string {
	return s.keyPrefix + fingerprint
}
