package factory

import (
	"context"
	"testing"
	"time"

	"github.com/akeren/tablebook/pkg/ratelimit"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
)

type pingOnlyCache struct{}

func (pingOnlyCache) Ping(context.Context) error { return nil }

type redisBackedCache struct {
	client *redis.Client
}

func (c redisBackedCache) Ping(context.Context) error { return nil }
func (c redisBackedCache) GetClient() *redis.Client   { return c.client }

func TestDefaultRateLimiterFactory_InMemoryWithoutRedis(t *testing.T) {
	for _, cache := range []Cache{nil, pingOnlyCache{}} {
		f := NewDefaultRateLimiterFactory(cache, nil)

		limiter := f.CreateRateLimiter(5, time.Minute)

		assert.False(t, f.Distributed())
		assert.IsType(t, &ratelimit.InMemoryRateLimiter{}, limiter)
	}
}

func TestDefaultRateLimiterFactory_UsesCacheClient(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer client.Close()

	f := NewDefaultRateLimiterFactory(redisBackedCache{client: client}, nil)
	limiter := f.CreateRateLimiter(30, time.Minute)

	assert.True(t, f.Distributed())
	assert.IsType(t, &ratelimit.RedisRateLimiter{}, limiter)

	requests, window := limiter.GetLimitDetails()
	assert.Equal(t, 30, requests)
	assert.Equal(t, time.Minute, window)
}
