package router

import (
	"fmt"
	"net/http"
	"path"

	"github.com/akeren/tablebook/pkg/ratelimit"
)

// normalizePath joins the mount point and handler path into one clean absolute path, so "/" + "/reserve" is "/reserve".
func normalizePath(controller *RESTController, relativePath string) string {
	return path.Join("/", controller.mountPoint, relativePath)
}

func (rs *RouterService) keyForPathAndMethod(path, method string) string {
	return fmt.Sprintf("%s-%s", method, path)
}

func (controller *RESTController) bindHandlerToController(rs *RouterService, path, method string) {
	key := rs.keyForPathAndMethod(path, method)

	if other, found := rs.handlerToControllerMap[key]; found {
		panic(fmt.Sprintf("A handler is already registered for %s '%s' by controller '%s'", method, path, other.name))
	}

	rs.handlerToControllerMap[key] = controller
}

func (rs *RouterService) bindOverrideRateLimiter(key string, limiter ratelimit.RateLimiter) {
	if limiter == nil {
		return
	}

	if _, found := rs.rateLimitOverrides[key]; found {
		panic(fmt.Sprintf("A rate limiter is already registered for '%s'", key))
	}

	rs.rateLimitOverrides[key] = limiter
}

func createHandler(handler HandlerFunction) MiddlewareFunc {
	return func(c *RequestContext) {
		result := handler(c)

		if result == nil {
			c.JSON(http.StatusInternalServerError, InternalServerErrorResult("A handler returned an undefined result. This typically indicates a bug in a handler's implementation.").ToJSON())
			return
		}

		result.write(c)
	}
}

func NewRESTController(name, mountPoint string, prepare func(*RouterService, *RESTController)) *RESTController {
	return &RESTController{
		name:       name,
		mountPoint: path.Join("/", mountPoint),
		prepare:    prepare,
	}
}

// NewVersionedRESTController prefixes the mount point with the version, e.g. /v1/reservations.
func NewVersionedRESTController(name, version, mountPoint string, prepare func(*RouterService, *RESTController)) *RESTController {
	return &RESTController{
		name:       name,
		mountPoint: path.Join("/", version, mountPoint),
		version:    version,
		prepare:    prepare,
	}
}

// RateLimitWith applies limiter to every handler of the controller that has no handler-level override.
func (controller *RESTController) RateLimitWith(rs *RouterService, limiter ratelimit.RateLimiter) *RESTController {
	rs.bindOverrideRateLimiter(controller.mountPoint, limiter)
	return controller
}

func (controller *RESTController) MountPoint() string {
	return controller.mountPoint
}

func (rs *RouterService) addHandler(
	method string,
	controller *RESTController,
	limiter ratelimit.RateLimiter,
	path string,
	handler HandlerFunction,
	middlewares []MiddlewareFunc,
) {
	controller.handlerCount++
	fullPath := normalizePath(controller, path)

	controller.bindHandlerToController(rs, fullPath, method)
	rs.bindOverrideRateLimiter(rs.keyForPathAndMethod(fullPath, method), limiter)
	rs.engine.Handle(method, fullPath, append(middlewares, createHandler(handler))...)

	rs.logger.Debug("Handler registered", "method", method, "path", fullPath)
}

func (rs *RouterService) AddGetHandler(controller *RESTController, limiter ratelimit.RateLimiter, path string, handler HandlerFunction, middlewares ...MiddlewareFunc) {
	rs.addHandler(http.MethodGet, controller, limiter, path, handler, middlewares)
}

func (rs *RouterService) AddPostHandler(controller *RESTController, limiter ratelimit.RateLimiter, path string, handler HandlerFunction, middlewares ...MiddlewareFunc) {
	rs.addHandler(http.MethodPost, controller, limiter, path, handler, middlewares)
}

func (rs *RouterService) AddPutHandler(controller *RESTController, limiter ratelimit.RateLimiter, path string, handler HandlerFunction, middlewares ...MiddlewareFunc) {
	rs.addHandler(http.MethodPut, controller, limiter, path, handler, middlewares)
}

func (rs *RouterService) AddDeleteHandler(controller *RESTController, limiter ratelimit.RateLimiter, path string, handler HandlerFunction, middlewares ...MiddlewareFunc) {
	rs.addHandler(http.MethodDelete, controller, limiter, path, handler, middlewares)
}
