package http

import (
	"log/slog"
	"net/http"

	"orderflow/internal/api"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

const openAPIPath = "/api/openapi.json"

// NewRouter mounts the API, its OpenAPI document, the swagger UI and, when
// metrics is not nil, the Prometheus endpoint.
func NewRouter(server *Server, doc *openapi3.T, metrics http.Handler, logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(requestLogger(logger))

	api.RegisterHandlers(e, server)

	e.GET(openAPIPath, func(c echo.Context) error {
		return c.JSON(http.StatusOK, doc)
	})
	e.GET("/swagger/*", echoSwagger.EchoWrapHandler(echoSwagger.URL(openAPIPath)))
	if metrics != nil {
		e.GET("/metrics", echo.WrapHandler(metrics))
	}
	return e
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	logger = logger.With("component", "http")
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency}
			if v.Error != nil {
				logger.ErrorContext(c.Request().Context(), "request failed", append(attrs, "error", v.Error)...)
				return nil
			}
			logger.DebugContext(c.Request().Context(), "request served", attrs...)
			return nil
		},
	})
}
