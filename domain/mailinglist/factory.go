package mailinglist

import (
	"github.com/akeren/tablebook/config/router"
	"github.com/akeren/tablebook/internal/log"
	"github.com/akeren/tablebook/pkg/factory"
	"gorm.io/gorm"
)

type MailingListServiceFactory interface {
	CreateService() MailingListService
	CreateController(service MailingListService) *router.RESTController
}

type DefaultMailingListServiceFactory struct {
	db       *gorm.DB
	logger   *log.Logger
	config   ServiceConfig
	limiters factory.RateLimiterFactory
}

func NewMailingListServiceFactory(db *gorm.DB, logger *log.Logger, config ServiceConfig, limiters factory.RateLimiterFactory) MailingListServiceFactory {
	return &DefaultMailingListServiceFactory{
		db:       db,
		logger:   logger,
		config:   config,
		limiters: limiters,
	}
}

func (f *DefaultMailingListServiceFactory) CreateService() MailingListService {
	return NewMailingListService(f.logger, NewMailingListRepository(f.db), f.config)
}

func (f *DefaultMailingListServiceFactory) CreateController(service MailingListService) *router.RESTController {
	return NewMailingListController(service, f.limiters)
}
