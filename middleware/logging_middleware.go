package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"imgcache/utils/logger"
)

// LoggingMiddleware logs one line per completed request. Not-found answers
// are expected traffic and stay at debug level.
func LoggingMiddleware(baseLogger *slog.Logger, skipPaths ...string) echo.MiddlewareFunc {
	contextLogger := logger.NewContextLogger(baseLogger)
	skip := make(map[string]bool, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = true
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if skip[req.URL.Path] {
				return next(c)
			}

			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			// The request context may have gained values downstream.
			ctx := c.Request().Context()
			res := c.Response()
			status := res.Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}

			logAttrs := []any{
				"method", req.Method,
				"path", req.URL.Path,
				"status", status,
				"duration_ms", duration.Milliseconds(),
				"response_size", res.Size,
				"remote_addr", c.RealIP(),
			}
			if err != nil {
				logAttrs = append(logAttrs, "error", err)
			}

			log := contextLogger.WithContext(ctx)
			switch {
			case status >= http.StatusInternalServerError:
				log.ErrorContext(ctx, "request completed", logAttrs...)
			case status == http.StatusNotFound:
				log.DebugContext(ctx, "request completed", logAttrs...)
			case status >= http.StatusBadRequest:
				log.WarnContext(ctx, "request completed", logAttrs...)
			default:
				log.InfoContext(ctx, "request completed", logAttrs...)
			}

			return err
		}
	}
}
