package config

import (
	"testing"
	"time"

	"github.com/akeren/tablebook/pkg/constants"
	"github.com/stretchr/testify/assert"
)

func TestNewAppConfig_Defaults(t *testing.T) {
	for _, key := range []string{"RATE_LIMIT_REQUESTS", "RATE_LIMIT_WINDOW", "REQUEST_TIMEOUT", "SLOT_CAPACITY", "OCCUPANCY_AGGREGATION", "OCCUPANCY_CACHE_TTL"} {
		t.Setenv(key, "")
	}

	cfg := NewAppConfig()

	assert.Equal(t, constants.DefaultRateLimitRequests, cfg.RateLimitRequests)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 20, cfg.SlotCapacity)
	assert.Equal(t, AggregationOverwrite, cfg.OccupancyAggregation)
	assert.Equal(t, 5*time.Minute, cfg.OccupancyCacheTTL)
}

func TestNewAppConfig_Overrides(t *testing.T) {
	t.Setenv("SLOT_CAPACITY", "12")
	t.Setenv("OCCUPANCY_AGGREGATION", "Accumulate")
	t.Setenv("OCCUPANCY_CACHE_TTL", "30s")
	t.Setenv("RATE_LIMIT_REQUESTS", "0")

	cfg := NewAppConfig()

	assert.Equal(t, 12, cfg.SlotCapacity)
	assert.Equal(t, AggregationAccumulate, cfg.OccupancyAggregation)
	assert.Equal(t, 30*time.Second, cfg.OccupancyCacheTTL)
	assert.Equal(t, constants.DefaultRateLimitRequests, cfg.RateLimitRequests)
}

func TestParseAggregation_UnknownFallsBackToOverwrite(t *testing.T) {
	assert.Equal(t, AggregationOverwrite, parseAggregation("sum"))
}
