package config

import (
	"context"
	"strings"
	"time"

	"github.com/akeren/tablebook/config/router"
	"github.com/akeren/tablebook/internal/log"
	"github.com/akeren/tablebook/internal/models"
	"github.com/akeren/tablebook/pkg/constants"
	"github.com/akeren/tablebook/pkg/events"
	"github.com/akeren/tablebook/pkg/utils"
	"gorm.io/gorm"
)

const (
	AggregationOverwrite  = "overwrite"
	AggregationAccumulate = "accumulate"
)

type ApplicationConfig struct {
	DB              *gorm.DB
	RouterService   *router.RouterService
	Logger          *log.Logger
	Cache           Cache
	Events          events.Publisher
	Config          *AppConfig
	TracingShutdown func(context.Context) error
}

type AppConfig struct {
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RequestTimeout    time.Duration

	// SlotCapacity caps the guests booked in one slot on one date.
	SlotCapacity int
	// OccupancyAggregation is AggregationOverwrite or AggregationAccumulate.
	OccupancyAggregation string
	OccupancyCacheTTL    time.Duration
}

func NewAppConfig() *AppConfig {
	return &AppConfig{
		RateLimitRequests:    utils.GetEnvPositiveInt("RATE_LIMIT_REQUESTS", constants.DefaultRateLimitRequests),
		RateLimitWindow:      utils.GetEnvPositiveDuration("RATE_LIMIT_WINDOW", constants.DefaultRateLimitWindow()),
		RequestTimeout:       utils.GetEnvPositiveDuration("REQUEST_TIMEOUT", 30*time.Second),
		SlotCapacity:         utils.GetEnvPositiveInt("SLOT_CAPACITY", constants.DefaultSlotCapacity),
		OccupancyAggregation: parseAggregation(utils.GetEnvTrimmed("OCCUPANCY_AGGREGATION")),
		OccupancyCacheTTL:    utils.GetEnvPositiveDuration("OCCUPANCY_CACHE_TTL", 5*time.Minute),
	}
}

func parseAggregation(raw string) string {
	if strings.EqualFold(raw, AggregationAccumulate) {
		return AggregationAccumulate
	}

	return AggregationOverwrite
}

func (ac *ApplicationConfig) Cleanup() {
	if ac.TracingShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ac.TracingShutdown(ctx); err != nil {
			ac.Logger.Error("Failed to shutdown tracer provider", "error", err)
		}
	}

	if ac.RouterService != nil {
		ac.RouterService.Cleanup()
	}

	CloseEventPublisher(ac.Events, ac.Logger)

	if ac.DB != nil {
		CloseDatabase(ac.DB, ac.Logger)
	}

	if ac.Cache != nil {
		_ = CloseCache(ac.Cache, ac.Logger)
	}

	ac.Logger.Info("Application cleanup completed")
}

func LoadApplicationConfiguration(logger *log.Logger, autoMigrate bool) (*ApplicationConfig, error) {
	InitializeEnvFile(logger)

	if autoMigrate {
		appEnv := GetAppEnv()
		if err := ValidateAutoMigrateAllowed(appEnv); err != nil {
			return nil, err
		}
		if appEnv == "" {
			logger.Warn("APP_ENV not set; allowing --auto-migrate as development")
		}
	}

	tracingShutdown, err := SetupTracing(logger)
	if err != nil {
		return nil, err
	}

	db, err := NewDatabase(logger, NewDBConfigFromEnv())
	if err != nil {
		return nil, err
	}

	if autoMigrate {
		if err := AutoMigrate(logger, db, models.ModelRegistry...); err != nil {
			CloseDatabase(db, logger)
			return nil, err
		}
	}

	appConfig := NewAppConfig()
	cache := NewCacheConfig().NewCacheOrNil(logger)
	publisher := NewEventPublisher(logger, NewEventsConfig())

	routerService := router.CreateRouterService(logger, cache, &router.RouterConfig{
		RateLimitRequests: appConfig.RateLimitRequests,
		RateLimitWindow:   appConfig.RateLimitWindow,
		RequestTimeout:    appConfig.RequestTimeout,
	})

	logger.Info("Application configuration loaded successfully",
		"slot_capacity", appConfig.SlotCapacity,
		"occupancy_aggregation", appConfig.OccupancyAggregation,
	)

	return &ApplicationConfig{
		DB:              db,
		RouterService:   routerService,
		Logger:          logger,
		Cache:           cache,
		Events:          publisher,
		Config:          appConfig,
		TracingShutdown: tracingShutdown,
	}, nil
}
