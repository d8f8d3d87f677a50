package router

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/akeren/tablebook/internal/log"
	apperrors "github.com/akeren/tablebook/pkg/errors"
	"github.com/akeren/tablebook/pkg/ratelimit"
	"github.com/akeren/tablebook/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const DefaultTimeoutDuration = 30 * time.Second

type Cache interface {
	Ping(ctx context.Context) error
}

type RedisClientProvider interface {
	GetClient() *redis.Client
}

type RouterService struct {
	engine            *gin.Engine
	server            *http.Server
	logger            *log.Logger
	registry          *prometheus.Registry
	rateLimiter       ratelimit.RateLimiter
	rateLimitRequests int
	rateLimitWindow   time.Duration
	redisClient       *redis.Client
	requestTimeout    time.Duration

	handlerToControllerMap map[string]*RESTController
	rateLimitOverrides     map[string]ratelimit.RateLimiter
}

type RouterConfig struct {
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RequestTimeout    time.Duration
	// Addr defaults to ":" + APP_PORT, or ":8080".
	Addr string
	// TrustedProxies defaults to the TRUSTED_PROXIES list.
	TrustedProxies []string
}

func (cfg *RouterConfig) withDefaults() RouterConfig {
	out := *cfg
	if out.RequestTimeout <= 0 {
		out.RequestTimeout = DefaultTimeoutDuration
	}
	if out.Addr == "" {
		out.Addr = ":" + utils.GetEnvTrimmedOrDefault("APP_PORT", "8080")
	}
	if out.TrustedProxies == nil {
		out.TrustedProxies = parseTrustedProxiesEnv(os.Getenv("TRUSTED_PROXIES"))
	}
	return out
}

func CreateRouterService(logger *log.Logger, cache Cache, routerConfig *RouterConfig) *RouterService {
	cfg := routerConfig.withDefaults()

	if mode := utils.GetEnvTrimmed("GIN_MODE"); mode != "" {
		logger.Info("Setting Gin mode", "mode", mode)
		gin.SetMode(mode)
	}

	rs := &RouterService{
		engine:            newEngine(logger, cfg.TrustedProxies),
		logger:            logger,
		registry:          prometheus.NewRegistry(),
		rateLimitRequests: cfg.RateLimitRequests,
		rateLimitWindow:   cfg.RateLimitWindow,
		redisClient:       redisClientOf(cache),
		requestTimeout:    cfg.RequestTimeout,

		rateLimitOverrides:     make(map[string]ratelimit.RateLimiter),
		handlerToControllerMap: make(map[string]*RESTController),
	}

	rs.initRateLimiting()

	// /metrics sits ahead of the rate limiter so scrapes are never throttled.
	rs.mountMetrics()
	rs.installMiddleware()
	rs.installFallbackHandlers()

	// Timeouts live on the server: gin.Context must not be handed to another goroutine.
	rs.server = &http.Server{
		Addr:              cfg.Addr,
		Handler:           rs.engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.RequestTimeout,
		WriteTimeout:      cfg.RequestTimeout,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("Router service initialized", "addr", cfg.Addr)
	return rs
}

func newEngine(logger *log.Logger, trustedProxies []string) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.HandleMethodNotAllowed = true
	engine.RedirectTrailingSlash = true

	if utils.IsTracingEnabled() {
		engine.Use(otelgin.Middleware(utils.OTelServiceName()))
		logger.Info("Tracing middleware enabled")
	}

	// ClientIP() only honours X-Forwarded-For from these proxies.
	if err := engine.SetTrustedProxies(trustedProxies); err != nil {
		logger.Error("Invalid TRUSTED_PROXIES; disabling trusted proxies", "error", err)
		_ = engine.SetTrustedProxies(nil)
	} else if len(trustedProxies) == 0 {
		logger.Info("Trusted proxies disabled (TRUSTED_PROXIES not set)")
	}

	return engine
}

func redisClientOf(cache Cache) *redis.Client {
	if provider, ok := cache.(RedisClientProvider); ok {
		return provider.GetClient()
	}
	return nil
}

// installMiddleware registers the chain in order: guards first, then request context.
func (rs *RouterService) installMiddleware() {
	rs.engine.Use(
		rs.securityHeadersMiddleware(),
		rs.maxBodySizeMiddleware(),
		rs.corsMiddleware(),
		rs.rateLimitMiddleware(),
		rs.timeoutMiddleware(),
		rs.correlationIDMiddleware(),
		rs.loggerInjectionMiddleware(),
		rs.requestLoggingMiddleware(),
	)
}

func (rs *RouterService) installFallbackHandlers() {
	rs.engine.NoRoute(func(c *gin.Context) {
		rs.logger.WithCorrelationID(c.Request.Context()).Warn("Route not found", "path", c.Request.URL.Path)
		c.JSON(http.StatusNotFound, ErrorResult(apperrors.StatusNotFound, "Route not found", nil).ToJSON())
	})

	rs.engine.NoMethod(func(c *gin.Context) {
		rs.logger.WithCorrelationID(c.Request.Context()).Warn("Method not allowed", "method", c.Request.Method, "path", c.Request.URL.Path)
		c.JSON(http.StatusMethodNotAllowed, ErrorResult(apperrors.StatusMethodNotAllowed, "Method not allowed", nil).ToJSON())
	})
}

func parseTrustedProxiesEnv(v string) []string {
	s := strings.TrimSpace(v)
	switch s {
	case "":
		return []string{}
	case "*":
		return []string{"0.0.0.0/0", "::/0"}
	}

	proxies := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			proxies = append(proxies, p)
		}
	}
	return proxies
}

func (rs *RouterService) initRateLimiting() {
	redisClient := rs.redisClient
	backend := "in-memory"

	if redisClient != nil {
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			rs.logger.Warn("Redis unreachable for rate limiting, falling back to in-memory", "error", err)
			redisClient = nil
		} else {
			backend = "redis"
		}
	}

	rs.rateLimiter = ratelimit.NewRateLimiter(&ratelimit.Config{
		Requests: rs.rateLimitRequests,
		Window:   rs.rateLimitWindow,
		Redis:    redisClient,
		Logger:   rs.logger,
	})

	rs.logger.Info("Rate limiting initialized",
		"backend", backend,
		"requests", rs.rateLimitRequests,
		"window", rs.rateLimitWindow)
}

func (rs *RouterService) GetDefaultRateLimitConfig() (int, time.Duration) {
	return rs.rateLimitRequests, rs.rateLimitWindow
}

func (rs *RouterService) GetEngine() *gin.Engine {
	return rs.engine
}

// MetricsRegistry is the registry served on /metrics. It exists even when the endpoint is disabled.
func (rs *RouterService) MetricsRegistry() prometheus.Registerer {
	return rs.registry
}

// SetHTMLTemplate installs the templates rendered by PageResult.
func (rs *RouterService) SetHTMLTemplate(tmpl *template.Template) {
	rs.engine.SetHTMLTemplate(tmpl)
}

func (rs *RouterService) GetLogger(c *RequestContext) *log.Logger {
	return rs.logger.WithCorrelationID(c.Request.Context())
}

func (rs *RouterService) Cleanup() {
	if rs.rateLimiter != nil {
		if err := rs.rateLimiter.Close(); err != nil {
			rs.logger.Error("Failed to close rate limiter", "error", err)
		}
	}
	for key, limiter := range rs.rateLimitOverrides {
		if err := limiter.Close(); err != nil {
			rs.logger.Error("Failed to close rate limiter", "key", key, "error", err)
		}
	}
	rs.logger.Info("Router service cleanup completed")
}

func (rs *RouterService) MountController(controller *RESTController) {
	rs.logger.Info("Mounting controller",
		"name", controller.name,
		"path", controller.mountPoint,
		"version", controller.version,
	)

	controller.prepare(rs, controller)

	rs.logger.Info("Controller mounted",
		"name", controller.name,
		"handlers", controller.handlerCount,
	)
}

func (rs *RouterService) RunHTTPServer() error {
	rs.logger.Info("Starting HTTP server", "addr", rs.server.Addr)

	if err := rs.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		rs.logger.Error("Failed to start HTTP server", "error", err)
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

func (rs *RouterService) Shutdown(ctx context.Context) error {
	rs.logger.Info("Shutting down HTTP server gracefully...")
	return rs.server.Shutdown(ctx)
}
