package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCacheConfig_FromURL(t *testing.T) {
	t.Setenv("REDIS_URL", "redis://:s3cret@cache.internal:6380/2")
	t.Setenv("REDIS_HOST", "ignored")

	cc := NewCacheConfig()

	assert.Equal(t, &CacheConfig{Host: "cache.internal", Port: "6380", Password: "s3cret", DB: 2}, cc)
}

func TestNewCacheConfig_FromParts(t *testing.T) {
	t.Setenv("REDIS_URL", "")
	t.Setenv("REDIS_HOST", " redis ")
	t.Setenv("REDIS_PORT", "")
	t.Setenv("REDIS_PASSWORD", `"pw"`)
	t.Setenv("REDIS_DB", "1")

	cc := NewCacheConfig()

	assert.Equal(t, &CacheConfig{Host: "redis", Port: "6379", Password: "pw", DB: 1}, cc)
	assert.True(t, cc.IsConfigured())
}

func TestCacheConfigFromURL_Rejects(t *testing.T) {
	_, err := cacheConfigFromURL("http://cache.internal")
	require.Error(t, err)
}

func TestNewCacheOrNil_Unconfigured(t *testing.T) {
	cache, err := (&CacheConfig{}).NewCache(quietLogger())
	assert.ErrorIs(t, err, ErrCacheNotConfigured)
	assert.Nil(t, cache)

	assert.Nil(t, (&CacheConfig{}).NewCacheOrNil(quietLogger()))
	assert.NoError(t, CloseCache(nil, quietLogger()))
}
