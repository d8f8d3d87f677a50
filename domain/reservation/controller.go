package reservation

import (
	"time"

	"github.com/akeren/tablebook/config/router"
	"github.com/akeren/tablebook/pkg/factory"
)

const reservationRequestsPerMinute = 30

func NewReservationController(service ReservationService, limiters factory.RateLimiterFactory) *router.RESTController {
	return router.NewVersionedRESTController(
		"ReservationController",
		"v1",
		"/reservations",
		func(rs *router.RouterService, c *router.RESTController) {
			creationLimiter := limiters.CreateRateLimiter(reservationRequestsPerMinute, time.Minute)

			rs.AddPostHandler(c, creationLimiter, "", createReservationHandler(service))
			rs.AddGetHandler(c, nil, "/availability", checkAvailabilityHandler(service))
		},
	)
}

func createReservationHandler(service ReservationService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		var req CreateReservationRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			router.GetLogger(ctx).Error("Failed to bind request", "error", err)
			return router.BindingErrorResult(err, &req)
		}

		response, err := service.Reserve(ctx.Request.Context(), &req)
		if err != nil {
			return router.AppErrorResult(err)
		}

		return router.CreatedResult(response, "Reservation")
	}
}

func checkAvailabilityHandler(service ReservationService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		var req AvailabilityRequest
		if err := ctx.ShouldBindQuery(&req); err != nil {
			router.GetLogger(ctx).Error("Failed to bind query", "error", err)
			return router.BindingErrorResult(err, &req)
		}

		response, err := service.CheckAvailability(ctx.Request.Context(), &req)
		if err != nil {
			return router.AppErrorResult(err)
		}

		return router.OKResult(response, "Availability retrieved successfully")
	}
}
