package rest

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func registerHealthRoutes(e *echo.Echo) {
	e.GET(healthPath, func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET(metricsPath, echo.WrapHandler(promhttp.Handler()))
}
