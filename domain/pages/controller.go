package pages

import (
	"net/http"
	"time"

	"github.com/akeren/tablebook/config/router"
	"github.com/akeren/tablebook/domain/mailinglist"
	"github.com/akeren/tablebook/domain/occupancy"
	"github.com/akeren/tablebook/domain/reservation"
	apperrors "github.com/akeren/tablebook/pkg/errors"
	"github.com/akeren/tablebook/pkg/factory"
)

const (
	reserveRequestsPerMinute = 30
	emailRequestsPerMinute   = 10
)

type Services struct {
	Reservations reservation.ReservationService
	Occupancy    occupancy.OccupancyService
	MailingList  mailinglist.MailingListService
}

// NewPagesController serves the HTML page at the site root.
func NewPagesController(services Services, limiters factory.RateLimiterFactory) *router.RESTController {
	return router.NewRESTController(
		"PagesController",
		"",
		func(rs *router.RouterService, c *router.RESTController) {
			rs.SetHTMLTemplate(Templates)

			reserveLimiter := limiters.CreateRateLimiter(reserveRequestsPerMinute, time.Minute)
			emailLimiter := limiters.CreateRateLimiter(emailRequestsPerMinute, time.Minute)

			rs.AddGetHandler(c, nil, "", indexHandler(services))
			rs.AddPostHandler(c, reserveLimiter, "/reserve", reserveHandler(services))
			rs.AddPostHandler(c, emailLimiter, "/submit-email", submitEmailHandler(services))
		},
	)
}

func indexHandler(services Services) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		data := &PageData{}
		status := http.StatusOK

		if !loadChart(ctx, services, data) {
			status = http.StatusInternalServerError
		}

		return router.PageResult(status, IndexTemplate, data)
	}
}

func reserveHandler(services Services) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)
		data := &PageData{}

		var req reservation.CreateReservationRequest
		if err := ctx.ShouldBind(&req); err != nil {
			logger.Info("Rejected reservation form", "error", err)
			data.ReservationStatus = ReservationInvalidMessage
			data.Errors = apperrors.FormatValidationErrors(err, &req)
			loadChart(ctx, services, data)
			return router.PageResult(http.StatusBadRequest, IndexTemplate, data)
		}

		resp, err := services.Reservations.Reserve(ctx.Request.Context(), &req)
		status := http.StatusOK

		switch {
		case err == nil:
			data.ReservationStatus = ReservationSuccessMessage
			data.Name = resp.Name
		case reservation.IsCapacityExceeded(err):
			status = http.StatusConflict
			data.ReservationStatus = reservation.CapacityExceededMessage
		case apperrors.IsType(err, apperrors.ErrorTypeInvalidRequest):
			status = http.StatusBadRequest
			data.ReservationStatus = ReservationInvalidMessage
			data.Errors = []apperrors.ValidationErrorResponse{{Message: apperrors.GetHumanReadableMessage(err)}}
		default:
			status = apperrors.HTTPStatusCode(err)
			data.ReservationStatus = ReservationFailedMessage
		}

		loadChart(ctx, services, data)
		return router.PageResult(status, IndexTemplate, data)
	}
}

func submitEmailHandler(services Services) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		data := &PageData{EmailStatus: EmailSuccessMessage}
		status := http.StatusOK

		var req mailinglist.SubscribeRequest
		if err := ctx.ShouldBind(&req); err != nil {
			router.GetLogger(ctx).Info("Rejected email form", "error", err)
			status = http.StatusBadRequest
			data.EmailErrors = apperrors.FormatValidationErrors(err, &req)
		} else if _, err := services.MailingList.Subscribe(ctx.Request.Context(), &req); err != nil {
			status = apperrors.HTTPStatusCode(err)
			if apperrors.IsType(err, apperrors.ErrorTypeInvalidRequest) {
				data.EmailErrors = []apperrors.ValidationErrorResponse{{Field: "email", Message: apperrors.GetHumanReadableMessage(err)}}
			}
		}

		if status != http.StatusOK {
			data.EmailStatus = EmailFailedMessage
		}

		loadChart(ctx, services, data)
		return router.PageResult(status, IndexTemplate, data)
	}
}

// loadChart reports false when the chart could not be built.
func loadChart(ctx *router.RequestContext, services Services, data *PageData) bool {
	chart, err := services.Occupancy.Chart(ctx.Request.Context())
	if err != nil {
		router.GetLogger(ctx).Error("Failed to build occupancy chart", "error", err)
		data.setChart(nil)
		return false
	}

	data.setChart(chart)
	return true
}
