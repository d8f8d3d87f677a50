package occupancy

import (
	"github.com/akeren/tablebook/config/router"
	"github.com/akeren/tablebook/internal/log"
	"gorm.io/gorm"
)

type OccupancyServiceFactory interface {
	CreateService() OccupancyService
	CreateController(service OccupancyService) *router.RESTController
}

type DefaultOccupancyServiceFactory struct {
	db     *gorm.DB
	logger *log.Logger
	config ServiceConfig
}

func NewOccupancyServiceFactory(db *gorm.DB, logger *log.Logger, config ServiceConfig) OccupancyServiceFactory {
	return &DefaultOccupancyServiceFactory{
		db:     db,
		logger: logger,
		config: config,
	}
}

func (f *DefaultOccupancyServiceFactory) CreateService() OccupancyService {
	return NewOccupancyService(f.logger, NewOccupancyRepository(f.db), f.config)
}

func (f *DefaultOccupancyServiceFactory) CreateController(service OccupancyService) *router.RESTController {
	return NewOccupancyController(service)
}
