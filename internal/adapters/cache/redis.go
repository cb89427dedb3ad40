package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/okian/birdhunt/pkg/logger"
	"github.com/okian/birdhunt/pkg/metrics"
)

const (
	redisPrefix     = "birdhunt:views"
	defaultRedisTTL = 10 * time.Minute
)

// RedisOption configures a Redis cache.
type RedisOption func(*Redis)

// WithTTL bounds how long a view lives without an append.
func WithTTL(ttl time.Duration) RedisOption {
	return func(r *Redis) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// WithRedisLogger sets the logger for cache errors.
func WithRedisLogger(l logger.Logger) RedisOption {
	return func(r *Redis) {
		if l != nil {
			r.log = l
		}
	}
}

// Redis shares views between processes. Keys embed a generation number;
// invalidation bumps the generation so stale keys are never read again and
// simply expire. A failed bump leaves the cache bypassed until a later one
// succeeds.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	log    logger.Logger

	// stale is set while an invalidation is owed to the shared generation.
	stale atomic.Bool
}

// NewRedis connects to addr.
func NewRedis(ctx context.Context, addr string, opts ...RedisOption) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return NewRedisWithClient(client, opts...), nil
}

// NewRedisWithClient wraps an existing client.
func NewRedisWithClient(client *redis.Client, opts ...RedisOption) *Redis {
	r := &Redis{client: client, ttl: defaultRedisTTL, log: logger.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Redis) genKey() string { return redisPrefix + ":gen" }

// generation returns the current shared generation. While an invalidation
// is owed it retries the bump first and reports NoGen if that fails again.
func (r *Redis) generation(ctx context.Context) (Gen, error) {
	if r.stale.Load() {
		gen, err := r.client.Incr(ctx, r.genKey()).Result()
		if err != nil {
			return NoGen, fmt.Errorf("retrying invalidation: %w", err)
		}
		r.stale.Store(false)
		r.log.Info(ctx, "view cache invalidation recovered", logger.Int("generation", int(gen)))
		return Gen(gen), nil
	}
	gen, err := r.client.Get(ctx, r.genKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return NoGen, err
	}
	return Gen(gen), nil
}

func (r *Redis) viewKey(gen Gen, key Key) string {
	return fmt.Sprintf("%s:%d:%s", redisPrefix, gen, key)
}

// Get implements Views.
func (r *Redis) Get(ctx context.Context, key Key, dst any) (Gen, bool) {
	gen, err := r.generation(ctx)
	if err != nil {
		r.log.Warn(ctx, "view cache bypassed", logger.Error(err))
		metrics.RecordViewCache(false)
		return NoGen, false
	}
	data, err := r.client.Get(ctx, r.viewKey(gen, key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.Warn(ctx, "view cache read failed", logger.Error(err))
		}
		metrics.RecordViewCache(false)
		return gen, false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		metrics.RecordViewCache(false)
		return gen, false
	}
	metrics.RecordViewCache(true)
	return gen, true
}

// Put implements Views. The view is written under gen, so a value computed
// before another process's append lands in a generation nobody reads.
func (r *Redis) Put(ctx context.Context, gen Gen, key Key, v any) {
	if gen == NoGen || r.stale.Load() {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, r.viewKey(gen, key), data, r.ttl).Err(); err != nil {
		r.log.Warn(ctx, "view cache write failed", logger.Error(err))
	}
}

// Invalidate implements Views.
func (r *Redis) Invalidate(ctx context.Context) {
	if err := r.client.Incr(ctx, r.genKey()).Err(); err != nil {
		r.stale.Store(true)
		r.log.Error(ctx, "view cache invalidation failed; bypassing cache", logger.Error(err))
		return
	}
	r.stale.Store(false)
}

// Healthy reports whether the cache is serving views.
func (r *Redis) Healthy() bool { return !r.stale.Load() }

// Close implements Views.
func (r *Redis) Close() error { return r.client.Close() }
