package router

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/akeren/tablebook/internal/log"
	apperrors "github.com/akeren/tablebook/pkg/errors"
	"github.com/akeren/tablebook/pkg/ratelimit"
	"github.com/akeren/tablebook/pkg/utils"
	"github.com/gin-gonic/gin"
)

const correlationIDHeader = "X-Correlation-ID"

func (rs *RouterService) correlationIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(correlationIDHeader)
		if id == "" {
			id = log.GenerateCorrelationID()
		}
		ctx := context.WithValue(c.Request.Context(), log.CorrelatedIDKey, id)
		c.Request = c.Request.WithContext(ctx)
		c.Header(correlationIDHeader, id)
		c.Next()
	}
}

func (rs *RouterService) loggerInjectionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlatedLogger := rs.logger.WithCorrelationID(c.Request.Context())
		ctx := context.WithValue(c.Request.Context(), log.LoggerKeyForContext, correlatedLogger)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func (rs *RouterService) requestLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		GetLogger(c).Info("HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"remote_addr", c.ClientIP(),
		)
	}
}

func (rs *RouterService) securityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")

		if shouldSetHSTS(c) {
			h.Set("Strict-Transport-Security", buildHSTSValue())
		}
		c.Next()
	}
}

// shouldSetHSTS defaults to on in production and only for requests that arrived over HTTPS.
func shouldSetHSTS(c *gin.Context) bool {
	appEnv := strings.ToLower(strings.TrimSpace(os.Getenv("APP_ENV")))

	enabled := appEnv == "production" || appEnv == "prod"
	if raw := utils.GetEnvTrimmed("HSTS_ENABLED"); raw != "" {
		if b, err := strconv.ParseBool(raw); err == nil {
			enabled = b
		}
	}

	if !enabled {
		return false
	}

	if c.Request.TLS != nil {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(c.GetHeader("X-Forwarded-Proto")), "https")
}

func buildHSTSValue() string {
	maxAge := int64(31536000)
	if parsed, err := strconv.ParseInt(utils.GetEnvTrimmed("HSTS_MAX_AGE"), 10, 64); err == nil && parsed > 0 {
		maxAge = parsed
	}

	includeSubdomains := true
	if parsed, err := strconv.ParseBool(utils.GetEnvTrimmed("HSTS_INCLUDE_SUBDOMAINS")); err == nil {
		includeSubdomains = parsed
	}

	value := fmt.Sprintf("max-age=%d", maxAge)
	if includeSubdomains {
		value += "; includeSubDomains"
	}
	return value
}

func (rs *RouterService) maxBodySizeMiddleware() gin.HandlerFunc {
	maxBytes := int64(1 << 20)
	if parsed, err := strconv.ParseInt(utils.GetEnvTrimmed("MAX_REQUEST_BODY_BYTES"), 10, 64); err == nil && parsed > 0 {
		maxBytes = parsed
	}

	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, ErrorResult(
				http.StatusRequestEntityTooLarge,
				"Request payload too large",
				nil,
			).ToJSON())
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

func (rs *RouterService) corsMiddleware() gin.HandlerFunc {
	var allowedOrigins []string
	for _, o := range strings.Split(os.Getenv("CORS_ALLOWED_ORIGIN"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			allowedOrigins = append(allowedOrigins, o)
		}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" || !originAllowed(allowedOrigins, origin) {
			c.Next()
			return
		}

		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Credentials", "true")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Correlation-ID")
		h.Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(apperrors.StatusNoContent)
			return
		}

		c.Next()
	}
}

func originAllowed(allowed []string, origin string) bool {
	for _, o := range allowed {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}

func (rs *RouterService) timeoutMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), rs.requestTimeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		// Mid-flight enforcement is the http.Server's job; here we only answer if nothing was written.
		if ctx.Err() == context.DeadlineExceeded && !c.Writer.Written() {
			rs.logger.WithCorrelationID(c.Request.Context()).Warn("Request timeout detected")
			c.AbortWithStatusJSON(http.StatusRequestTimeout, ErrorResult(
				apperrors.StatusRequestTimeout,
				"Request timeout",
				nil,
			).ToJSON())
		}
	}
}

// limiterFor resolves handler override, then controller override, then the router default.
func (rs *RouterService) limiterFor(controller *RESTController, handlerKey string) ratelimit.RateLimiter {
	if limiter, ok := rs.rateLimitOverrides[handlerKey]; ok {
		return limiter
	}
	if limiter, ok := rs.rateLimitOverrides[controller.mountPoint]; ok {
		return limiter
	}
	return rs.rateLimiter
}

func (rs *RouterService) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		handlerKey := rs.keyForPathAndMethod(c.FullPath(), c.Request.Method)

		controller, found := rs.handlerToControllerMap[handlerKey]
		if !found {
			rs.logger.Warn("Request for a path without a registered handler",
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"client_ip", clientIP,
			)
			c.AbortWithStatusJSON(http.StatusNotFound, NotFoundResult(fmt.Sprintf("There is no handler configured to handle any resource at the path %s", c.Request.URL.Path)).ToJSON())
			return
		}

		limiter := rs.limiterFor(controller, handlerKey)
		limit, window := limiter.GetLimitDetails()
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Window", window.String())

		limited, err := limiter.IsLimited(c.Request.Context(), handlerKey+"|"+clientIP)
		if err != nil {
			// Infrastructure trouble should not lock everyone out.
			rs.logger.Error("Rate limiter error", "error", err, "client_ip", clientIP)
			c.Next()
			return
		}

		if limited {
			rs.logger.Warn("Rate limit exceeded", "client_ip", clientIP, "route", handlerKey)

			retryAfter := int(math.Ceil(window.Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, TooManyRequestsResult(RateLimitResponse{
				Limit:      limit,
				Window:     window.String(),
				RetryAfter: strconv.Itoa(retryAfter),
			}).ToJSON())
			return
		}

		c.Next()
	}
}
