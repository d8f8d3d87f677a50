package mailinglist

import (
	"time"

	"github.com/akeren/tablebook/config/router"
	"github.com/akeren/tablebook/pkg/factory"
)

const signupRequestsPerMinute = 10

func NewMailingListController(service MailingListService, limiters factory.RateLimiterFactory) *router.RESTController {
	return router.NewVersionedRESTController(
		"MailingListController",
		"v1",
		"/mailing-list",
		func(rs *router.RouterService, c *router.RESTController) {
			signupLimiter := limiters.CreateRateLimiter(signupRequestsPerMinute, time.Minute)

			rs.AddPostHandler(c, signupLimiter, "", subscribeHandler(service))
		},
	)
}

func subscribeHandler(service MailingListService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		var req SubscribeRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			router.GetLogger(ctx).Error("Failed to bind request", "error", err)
			return router.BindingErrorResult(err, &req)
		}

		response, err := service.Subscribe(ctx.Request.Context(), &req)
		if err != nil {
			return router.AppErrorResult(err)
		}

		return router.CreatedResult(response, "Mailing list signup")
	}
}
