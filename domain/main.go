package domain

import (
	"github.com/akeren/tablebook/config"
	"github.com/akeren/tablebook/domain/mailinglist"
	"github.com/akeren/tablebook/domain/monitoring"
	"github.com/akeren/tablebook/domain/occupancy"
	"github.com/akeren/tablebook/domain/pages"
	"github.com/akeren/tablebook/domain/reservation"
	"github.com/akeren/tablebook/pkg/events"
	"github.com/akeren/tablebook/pkg/factory"
)

// SetupCoreDomain builds every service and mounts its controllers on appConfig.RouterService.
func SetupCoreDomain(appConfig *config.ApplicationConfig) {
	settings := appConfig.Config
	if settings == nil {
		settings = config.NewAppConfig()
	}

	publisher := appConfig.Events
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}

	rs := appConfig.RouterService
	limiters := factory.NewDefaultRateLimiterFactory(appConfig.Cache, appConfig.Logger)

	occupancyService := occupancy.NewOccupancyServiceFactory(appConfig.DB, appConfig.Logger, occupancy.ServiceConfig{
		Mode:     occupancy.ParseMode(settings.OccupancyAggregation),
		Cache:    appConfig.Cache,
		CacheTTL: settings.OccupancyCacheTTL,
	}).CreateService()

	reservationFactory := reservation.NewReservationServiceFactory(appConfig.DB, appConfig.Logger, reservation.ServiceConfig{
		Capacity: settings.SlotCapacity,
		Metrics:  reservation.NewMetrics(rs.MetricsRegistry()),
		Listeners: []reservation.ChangeListener{
			occupancyService,
			reservation.NewEventNotifier(publisher, appConfig.Logger),
		},
	}, limiters)
	reservationService := reservationFactory.CreateService()

	mailingListFactory := mailinglist.NewMailingListServiceFactory(appConfig.DB, appConfig.Logger, mailinglist.ServiceConfig{
		Publisher: publisher,
		Signups:   mailinglist.NewSignupCounter(rs.MetricsRegistry()),
	}, limiters)
	mailingListService := mailingListFactory.CreateService()

	rs.MountController(monitoring.NewMonitoringControllerFactory(appConfig.DB, appConfig.Logger, appConfig.Cache, publisher, limiters).CreateController())
	rs.MountController(reservationFactory.CreateController(reservationService))
	rs.MountController(occupancy.NewOccupancyController(occupancyService))
	rs.MountController(mailingListFactory.CreateController(mailingListService))
	rs.MountController(pages.NewPagesControllerFactory(pages.Services{
		Reservations: reservationService,
		Occupancy:    occupancyService,
		MailingList:  mailingListService,
	}, limiters).CreateController())
}
