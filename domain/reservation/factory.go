package reservation

import (
	"github.com/akeren/tablebook/config/router"
	"github.com/akeren/tablebook/internal/log"
	"github.com/akeren/tablebook/pkg/factory"
	"gorm.io/gorm"
)

type ReservationServiceFactory interface {
	CreateService() ReservationService
	CreateController(service ReservationService) *router.RESTController
}

type DefaultReservationServiceFactory struct {
	db       *gorm.DB
	logger   *log.Logger
	config   ServiceConfig
	limiters factory.RateLimiterFactory
}

func NewReservationServiceFactory(db *gorm.DB, logger *log.Logger, config ServiceConfig, limiters factory.RateLimiterFactory) ReservationServiceFactory {
	return &DefaultReservationServiceFactory{
		db:       db,
		logger:   logger,
		config:   config,
		limiters: limiters,
	}
}

func (f *DefaultReservationServiceFactory) CreateService() ReservationService {
	return NewReservationService(f.logger, NewReservationRepository(f.db), f.config)
}

func (f *DefaultReservationServiceFactory) CreateController(service ReservationService) *router.RESTController {
	return NewReservationController(service, f.limiters)
}
