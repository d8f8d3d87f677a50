package occupancy

import (
	"github.com/akeren/tablebook/config/router"
)

func NewOccupancyController(service OccupancyService) *router.RESTController {
	return router.NewVersionedRESTController(
		"OccupancyController",
		"v1",
		"/occupancy",
		func(rs *router.RouterService, c *router.RESTController) {
			rs.AddGetHandler(c, nil, "", getReportHandler(service))
			rs.AddGetHandler(c, nil, "/chart.png", getChartHandler(service))
		},
	)
}

func getReportHandler(service OccupancyService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		report, err := service.Report(ctx.Request.Context())
		if err != nil {
			return router.AppErrorResult(err)
		}

		return router.OKResult(report, "Occupancy report retrieved successfully")
	}
}

func getChartHandler(service OccupancyService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		chart, err := service.Chart(ctx.Request.Context())
		if err != nil {
			return router.AppErrorResult(err)
		}
		if chart.Empty {
			return router.NotFoundResult("No reservations yet")
		}

		return router.BinaryResult("image/png", chart.PNG)
	}
}
