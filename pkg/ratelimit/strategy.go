package ratelimit

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"golang.org/x/time/rate"
)

const DefaultKeyPrefix = "tablebook:ratelimit:"

type Logger interface {
	Error(msg string, args ...interface{})
}

// RateLimiter decides whether the caller identified by key has used up its budget.
type RateLimiter interface {
	GetLimitDetails() (int, time.Duration)
	IsLimited(ctx context.Context, key string) (bool, error)
	Close() error
}

type Config struct {
	Requests int
	Window   time.Duration
	// Redis selects the sliding-window limiter shared across instances; nil keeps limits in process.
	Redis  *redis.Client
	Logger Logger
}

func NewRateLimiter(config *Config) RateLimiter {
	if config.Redis != nil {
		return NewRedisRateLimiter(config.Redis, config.Requests, config.Window, config.Logger)
	}
	return NewInMemoryRateLimiter(config.Requests, config.Window)
}

// InMemoryRateLimiter keeps one token bucket per key.
type InMemoryRateLimiter struct {
	requests int
	window   time.Duration

	mu       sync.Mutex
	buckets  map[string]*bucket
	calls    uint64
	now      func() time.Time
	sweepGap uint64
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewInMemoryRateLimiter(requests int, window time.Duration) *InMemoryRateLimiter {
	return &InMemoryRateLimiter{
		requests: requests,
		window:   window,
		buckets:  make(map[string]*bucket),
		now:      time.Now,
		sweepGap: 1024,
	}
}

func (r *InMemoryRateLimiter) GetLimitDetails() (int, time.Duration) {
	return r.requests, r.window
}

func (r *InMemoryRateLimiter) IsLimited(_ context.Context, key string) (bool, error) {
	if key == "" {
		key = "anonymous"
	}

	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.buckets[key]
	if !ok {
		perSecond := float64(r.requests) / r.window.Seconds()
		b = &bucket{limiter: rate.NewLimiter(rate.Limit(perSecond), r.requests)}
		r.buckets[key] = b
	}
	b.lastSeen = now

	r.calls++
	if r.calls%r.sweepGap == 0 {
		r.sweep(now.Add(-2 * r.window))
	}

	return !b.limiter.AllowN(now, 1), nil
}

func (r *InMemoryRateLimiter) sweep(cutoff time.Time) {
	for key, b := range r.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(r.buckets, key)
		}
	}
}

func (r *InMemoryRateLimiter) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.buckets)
}

func (r *InMemoryRateLimiter) Close() error {
	return nil
}

// Trims the sorted set to the window, then admits the request only below the limit.
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local ttl = tonumber(ARGV[4])

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)

if redis.call('ZCARD', key) >= limit then
	return 1
end

redis.call('ZADD', key, now, ARGV[5])
redis.call('EXPIRE', key, ttl)
return 0
`)

// RedisRateLimiter shares a sliding window between every instance pointed at the same Redis.
type RedisRateLimiter struct {
	client    *redis.Client
	requests  int
	window    time.Duration
	keyPrefix string
	logger    Logger
}

func NewRedisRateLimiter(client *redis.Client, requests int, window time.Duration, logger Logger) *RedisRateLimiter {
	return &RedisRateLimiter{
		client:    client,
		requests:  requests,
		window:    window,
		keyPrefix: DefaultKeyPrefix,
		logger:    logger,
	}
}

func (r *RedisRateLimiter) GetLimitDetails() (int, time.Duration) {
	return r.requests, r.window
}

func (r *RedisRateLimiter) IsLimited(ctx context.Context, key string) (bool, error) {
	fullKey := key
	if !strings.HasPrefix(key, r.keyPrefix) {
		fullKey = r.keyPrefix + key
	}

	result, err := slidingWindowScript.Run(ctx, r.client, []string{fullKey},
		time.Now().Unix(),
		int64(r.window.Seconds()),
		r.requests,
		int64((2 * r.window).Seconds()),
		memberID(),
	).Int64()
	if err != nil {
		if r.logger != nil {
			r.logger.Error("Rate limit script failed", "key", fullKey, "error", err)
		}
		return false, fmt.Errorf("rate limiter redis error: %w", err)
	}

	return result == 1, nil
}

// Close is a no-op; the Redis client belongs to the application cache.
func (r *RedisRateLimiter) Close() error {
	return nil
}

func memberID() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
