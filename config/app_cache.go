package config

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/akeren/tablebook/internal/log"
	pkgredis "github.com/akeren/tablebook/pkg/redis"
	"github.com/akeren/tablebook/pkg/utils"
	"github.com/go-redis/redis/v8"
)

// Cache backs the occupancy report cache and, through its client, the Redis rate limiter.
type Cache interface {
	// Get returns ("", nil) when a key is not found.
	Get(ctx context.Context, key string) (string, error)
	// Set uses ttl=0 for no expiry.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// Incr atomically adds one to an integer key, creating it at 0 first.
	Incr(ctx context.Context, key string) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}

var ErrCacheNotConfigured = errors.New("cache host is not configured")

type CacheConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// NewCacheConfig reads REDIS_URL when set, otherwise REDIS_HOST, REDIS_PORT, REDIS_PASSWORD and REDIS_DB.
func NewCacheConfig() *CacheConfig {
	if raw := envValue("REDIS_URL"); raw != "" {
		if cc, err := cacheConfigFromURL(raw); err == nil {
			return cc
		}
	}

	return &CacheConfig{
		Host:     utils.GetEnvTrimmed("REDIS_HOST"),
		Port:     utils.GetEnvTrimmedOrDefault("REDIS_PORT", "6379"),
		Password: envValue("REDIS_PASSWORD"),
		DB:       utils.GetEnvPositiveInt("REDIS_DB", 0),
	}
}

func cacheConfigFromURL(raw string) (*CacheConfig, error) {
	opts, err := redis.ParseURL(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}

	host, port, err := net.SplitHostPort(opts.Addr)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL address %q: %w", opts.Addr, err)
	}

	return &CacheConfig{Host: host, Port: port, Password: opts.Password, DB: opts.DB}, nil
}

func (cc *CacheConfig) IsConfigured() bool {
	return cc.Host != ""
}

func (cc *CacheConfig) NewCache(logger *log.Logger) (Cache, error) {
	if !cc.IsConfigured() {
		return nil, ErrCacheNotConfigured
	}

	cache, err := pkgredis.NewRedisCache(&pkgredis.Config{
		Host:     cc.Host,
		Port:     cc.Port,
		Password: cc.Password,
		DB:       cc.DB,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Cache (Redis) connected", "host", cc.Host, "db", cc.DB)
	return cache, nil
}

// NewCacheOrNil degrades to no cache: the occupancy report is recomputed and rate limits stay in memory.
func (cc *CacheConfig) NewCacheOrNil(logger *log.Logger) Cache {
	cache, err := cc.NewCache(logger)
	switch {
	case errors.Is(err, ErrCacheNotConfigured):
		logger.Info("Cache (Redis) is not configured; proceeding without external cache")
		return nil
	case err != nil:
		logger.Error("Failed to create Cache (Redis); proceeding without external cache", "error", err)
		return nil
	}

	return cache
}

func CloseCache(cache Cache, logger *log.Logger) error {
	if cache == nil {
		return nil
	}

	if err := cache.Close(); err != nil {
		logger.Error("Failed to close cache", "error", err)
		return err
	}

	logger.Info("Cache connection closed")
	return nil
}
