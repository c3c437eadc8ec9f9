// Package cache provides an optional Redis-backed cache for computed veteran
// scores. Scores are always recomputable from snapshots; the cache is a read
// accelerator, never the source of truth.
package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ubrstats/ubr/pkg/metrics"
)

const defaultTTL = 6 * time.Hour

// ScoreCache caches (season, batter) -> veteran score.
type ScoreCache struct {
	client *redis.Client
	ttl    time.Duration
}

// Option applies a configuration option to the ScoreCache.
type Option func(*ScoreCache)

// WithTTL sets the cache entry lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(c *ScoreCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// New creates a ScoreCache on an existing Redis client.
func New(client *redis.Client, opts ...Option) *ScoreCache {
	c := &ScoreCache{client: client, ttl: defaultTTL}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect dials Redis and verifies the connection.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func key(season int, batterID int64) string {
	return fmt.Sprintf("vp:%d:%d", season, batterID)
}

// Get returns the cached score and whether it was present. Redis errors are
// reported as misses so the caller falls through to recomputation.
func (c *ScoreCache) Get(ctx context.Context, season int, batterID int64) (float64, bool) {
	val, err := c.client.Get(ctx, key(season, batterID)).Result()
	if err != nil {
		metrics.RecordCacheMiss()
		return 0, false
	}
	score, err := strconv.ParseFloat(val, 64)
	if err != nil {
		metrics.RecordCacheMiss()
		return 0, false
	}
	metrics.RecordCacheHit()
	return score, true
}

// Put stores a score with the configured TTL. Errors are dropped; the cache
// is best effort.
func (c *ScoreCache) Put(ctx context.Context, season int, batterID int64, score float64) {
	_ = c.client.Set(ctx, key(season, batterID), strconv.FormatFloat(score, 'f', 1, 64), c.ttl).Err()
}

// InvalidateSeason removes all cached scores for a season, e.g. after a
// snapshot reload.
func (c *ScoreCache) InvalidateSeason(ctx context.Context, season int) error {
	iter := c.client.Scan(ctx, 0, fmt.Sprintf("vp:%d:*", season), 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("delete cache key %s: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan cache keys: %w", err)
	}
	return nil
}
