// Package limiter throttles login attempts with a token bucket kept in Redis.
//
// Each key (the normalized email of the login attempt) owns a bucket of
// Capacity tokens that refills one token per RefillInterval. The bucket state
// is updated atomically by a Lua script, so several server replicas share
// the same budget.
package limiter

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MKhiriev/go-study-platform/internal/config"
	"github.com/MKhiriev/go-study-platform/internal/logger"
)

//go:generate mockgen -source=limiter.go -destination=../mock/limiter_mock.go -package=mock

// Limiter decides whether another attempt for key is allowed right now.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// Result is the outcome of a single [Limiter.Allow] call.
type Result struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

var ErrUnexpectedScriptResult = errors.New("unexpected rate limit script result")

const keyPrefix = "study-platform:login"

var tokenBucket = redis.NewScript(`
	local key = KEYS[1]
	local now_ms = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local interval_ms = tonumber(ARGV[3])
	local ttl_seconds = tonumber(ARGV[4])

	local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
	local tokens = tonumber(state[1])
	local last_refill = tonumber(state[2])

	if tokens == nil or last_refill == nil then
		tokens = capacity
		last_refill = now_ms
	end

	if interval_ms > 0 then
		local elapsed = math.max(0, now_ms - last_refill)
		local intervals = math.floor(elapsed / interval_ms)
		if intervals > 0 then
			tokens = math.min(capacity, tokens + intervals)
			last_refill = last_refill + (intervals * interval_ms)
		end
	end

	local allowed = 0
	local retry_after_ms = 0
	if tokens > 0 then
		allowed = 1
		tokens = tokens - 1
	else
		retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
	end

	redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
	redis.call('EXPIRE', key, ttl_seconds)

	return { allowed, tokens, retry_after_ms }
`)

type redisLimiter struct {
	rdb            redis.Scripter
	capacity       int
	refillInterval time.Duration
	now            func() time.Time
}

// NewRedisLimiter returns a [Limiter] that keeps its buckets in rdb.
func NewRedisLimiter(rdb redis.Scripter, cfg config.RateLimit) Limiter {
	return &redisLimiter{
		rdb:            rdb,
		capacity:       cfg.Capacity,
		refillInterval: cfg.RefillInterval,
		now:            time.Now,
	}
}

// Allow consumes one token from the bucket of key.
// On Redis failures it returns an allowed result together with the error so
// that callers can fail open.
func (l *redisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	ttl := time.Duration(l.capacity) * l.refillInterval
	if ttl < time.Second {
		ttl = time.Second
	}

	vals, err := tokenBucket.Run(ctx, l.rdb, []string{keyPrefix + ":" + key},
		l.now().UnixMilli(),
		l.capacity,
		l.refillInterval.Milliseconds(),
		int64(ttl/time.Second),
	).Result()
	if err != nil {
		return Result{Allowed: true}, fmt.Errorf("rate limit script failed: %w", err)
	}

	arr, ok := vals.([]any)
	if !ok || len(arr) != 3 {
		return Result{Allowed: true}, fmt.Errorf("%w: %#v", ErrUnexpectedScriptResult, vals)
	}

	return Result{
		Allowed:    asInt64(arr[0]) == 1,
		Remaining:  asInt64(arr[1]),
		RetryAfter: time.Duration(asInt64(arr[2])) * time.Millisecond,
	}, nil
}

func asInt64(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
	}
	return 0
}

type nopLimiter struct{}

// NewNopLimiter returns a [Limiter] that allows everything.
func NewNopLimiter() Limiter {
	return nopLimiter{}
}

func (nopLimiter) Allow(context.Context, string) (Result, error) {
	return Result{Allowed: true}, nil
}

// NewRedisClient connects to Redis and pings it.
func NewRedisClient(ctx context.Context, cfg config.Redis, log *logger.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Err(err).Str("func", "NewRedisClient").Msg("error connecting redis (ping)")
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	log.Info().Str("func", "NewRedisClient").Msg("connected to redis successfully")

	return client, nil
}

// New builds the login limiter described by cfg. Without a Redis address the
// limiter is disabled. The returned close function releases the Redis client.
func New(ctx context.Context, cfg config.StructuredConfig, log *logger.Logger) (Limiter, func() error, error) {
	if cfg.Storage.Redis.Address == "" || cfg.RateLimit.Capacity <= 0 {
		log.Info().Str("func", "limiter.New").Msg("login rate limiting is disabled")
		return NewNopLimiter(), func() error { return nil }, nil
	}

	client, err := NewRedisClient(ctx, cfg.Storage.Redis, log)
	if err != nil {
		return nil, nil, err
	}

	return NewRedisLimiter(client, cfg.RateLimit), client.Close, nil
}
