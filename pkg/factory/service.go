package factory

import (
	"context"
	"time"

	"github.com/akeren/tablebook/pkg/ratelimit"
	"github.com/go-redis/redis/v8"
)

type Cache interface {
	Ping(ctx context.Context) error
}

type RedisClientProvider interface {
	GetClient() *redis.Client
}

// RateLimiterFactory builds the per-route limiters that override the router default.
type RateLimiterFactory interface {
	CreateRateLimiter(requests int, window time.Duration) ratelimit.RateLimiter
}

type DefaultRateLimiterFactory struct {
	redis  *redis.Client
	logger ratelimit.Logger
}

// NewDefaultRateLimiterFactory shares the cache's Redis client when it exposes one; otherwise limiters stay in memory.
func NewDefaultRateLimiterFactory(cache Cache, logger ratelimit.Logger) *DefaultRateLimiterFactory {
	f := &DefaultRateLimiterFactory{logger: logger}

	if provider, ok := cache.(RedisClientProvider); ok {
		f.redis = provider.GetClient()
	}

	return f
}

func (f *DefaultRateLimiterFactory) CreateRateLimiter(requests int, window time.Duration) ratelimit.RateLimiter {
	return ratelimit.NewRateLimiter(&ratelimit.Config{
		Requests: requests,
		Window:   window,
		Redis:    f.redis,
		Logger:   f.logger,
	})
}

func (f *DefaultRateLimiterFactory) Distributed() bool {
	return f.redis != nil
}
