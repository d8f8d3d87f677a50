package pages

import (
	"github.com/akeren/tablebook/config/router"
	"github.com/akeren/tablebook/pkg/factory"
)

type PagesControllerFactory interface {
	CreateController() *router.RESTController
}

type DefaultPagesControllerFactory struct {
	services Services
	limiters factory.RateLimiterFactory
}

func NewPagesControllerFactory(services Services, limiters factory.RateLimiterFactory) PagesControllerFactory {
	return &DefaultPagesControllerFactory{services: services, limiters: limiters}
}

func (f *DefaultPagesControllerFactory) CreateController() *router.RESTController {
	return NewPagesController(f.services, f.limiters)
}
