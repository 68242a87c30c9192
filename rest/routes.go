package rest

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"imgcache/config"
	"imgcache/di"
	middleware_custom "imgcache/middleware"
)

const (
	healthPath  = "/health"
	metricsPath = "/metrics"
)

func RegisterRoutes(e *echo.Echo, container *di.ApplicationComponents, cfg *config.Config, log *slog.Logger) {
	// 1. Request ID first so every later log line carries it
	e.Use(middleware_custom.RequestIDMiddleware())

	// 2. Recovery
	e.Use(middleware.Recover())

	// 3. Tracing
	e.Use(otelecho.Middleware(cfg.OTel.ServiceName, otelecho.WithSkipper(func(c echo.Context) bool {
		p := c.Request().URL.Path
		return p == healthPath || p == metricsPath
	})))

	// 4. Security headers
	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ContentSecurityPolicy: "default-src 'none'",
	}))

	// 5. Per-client rate limit
	if cfg.RateLimit.Enabled {
		e.Use(middleware_custom.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst, healthPath, metricsPath))
	}

	// 6. Access log
	e.Use(middleware_custom.LoggingMiddleware(log, healthPath, metricsPath))

	registerHealthRoutes(e)
	registerImageVariantRoutes(e, container)
}
