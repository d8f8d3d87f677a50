package monitoring

import (
	"github.com/akeren/tablebook/config/router"
	"github.com/akeren/tablebook/internal/log"
	"github.com/akeren/tablebook/pkg/factory"
	"gorm.io/gorm"
)

type MonitoringControllerFactory interface {
	CreateController() *router.RESTController
}

type DefaultMonitoringControllerFactory struct {
	db       *gorm.DB
	logger   *log.Logger
	cache    Pinger
	queue    Pinger
	limiters factory.RateLimiterFactory
}

func NewMonitoringControllerFactory(db *gorm.DB, logger *log.Logger, cache, queue Pinger, limiters factory.RateLimiterFactory) MonitoringControllerFactory {
	return &DefaultMonitoringControllerFactory{
		db:       db,
		logger:   logger,
		cache:    cache,
		queue:    queue,
		limiters: limiters,
	}
}

func (f *DefaultMonitoringControllerFactory) CreateController() *router.RESTController {
	return NewMonitoringController(f.db, f.logger, f.cache, f.queue, f.limiters)
}
