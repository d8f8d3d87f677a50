package monitoring

import (
	"context"
	"errors"
	"time"

	"github.com/akeren/tablebook/config/router"
	"github.com/akeren/tablebook/internal/log"
	"github.com/akeren/tablebook/pkg/events"
	"github.com/akeren/tablebook/pkg/factory"
	"gorm.io/gorm"
)

const (
	healthRequestsPerMinute = 10
	healthCheckTimeout      = 2 * time.Second

	StatusOK       = "ok"
	StatusDegraded = "degraded"
)

// Pinger is satisfied by the cache and the event publisher.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthStatus struct {
	Status       string `json:"status"`
	Database     int    `json:"database"`      // 1 = healthy, 0 = unhealthy
	Cache        int    `json:"cache"`         // 1 = healthy, 0 = unhealthy/not configured
	MessageQueue int    `json:"message_queue"` // 1 = healthy, 0 = unhealthy/not configured
	Uptime       int    `json:"uptime"`        // seconds
}

type MonitoringController struct {
	db        *gorm.DB
	logger    *log.Logger
	cache     Pinger
	queue     Pinger
	startTime time.Time
}

func NewMonitoringController(db *gorm.DB, logger *log.Logger, cache, queue Pinger, limiters factory.RateLimiterFactory) *router.RESTController {
	ctrl := &MonitoringController{
		db:        db,
		logger:    logger,
		cache:     cache,
		queue:     queue,
		startTime: time.Now(),
	}

	return router.NewRESTController(
		"MonitoringController",
		"/",
		func(routerService *router.RouterService, controller *router.RESTController) {
			healthLimiter := limiters.CreateRateLimiter(healthRequestsPerMinute, time.Minute)

			routerService.AddGetHandler(controller, healthLimiter, "health", func(c *router.RequestContext) *router.ServiceResult {
				return ctrl.healthCheck(routerService, c)
			})
		},
	)
}

func (ctrl *MonitoringController) healthCheck(
	routerService *router.RouterService,
	c *router.RequestContext,
) *router.ServiceResult {
	logger := routerService.GetLogger(c)
	logger.Info("Health check endpoint called")

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	return router.OKResult(ctrl.performHealthChecks(ctx, logger), "tablebook health check completed")
}

func (ctrl *MonitoringController) performHealthChecks(ctx context.Context, logger *log.Logger) HealthStatus {
	status := HealthStatus{
		Status: StatusOK,
		Uptime: int(time.Since(ctrl.startTime).Seconds()),
	}

	if ctrl.checkDatabase(ctx) {
		status.Database = 1
	} else {
		status.Status = StatusDegraded
		logger.Error("Database health check failed")
	}

	status.Cache = checkDependency(ctx, "cache", ctrl.cache, logger)
	status.MessageQueue = checkDependency(ctx, "message_queue", ctrl.queue, logger)

	return status
}

// checkDependency treats an unconfigured dependency as down without degrading the service.
func checkDependency(ctx context.Context, name string, pinger Pinger, logger *log.Logger) int {
	if pinger == nil {
		logger.Debug("Dependency not configured, health check skipped", "dependency", name)
		return 0
	}

	err := pinger.Ping(ctx)
	switch {
	case err == nil:
		return 1
	case errors.Is(err, events.ErrNotConfigured):
		logger.Debug("Dependency not configured, health check skipped", "dependency", name)
	default:
		logger.Error("Dependency health check failed", "dependency", name, "error", err)
	}
	return 0
}

func (ctrl *MonitoringController) checkDatabase(ctx context.Context) bool {
	if ctrl.db == nil {
		return false
	}

	sqlDB, err := ctrl.db.DB()
	if err != nil {
		return false
	}

	return sqlDB.PingContext(ctx) == nil
}
