// Package api exposes the detection pipeline and its stores over a local
// HTTP API.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Ojas-Arora/SoundAware/internal/assistant"
	"github.com/Ojas-Arora/SoundAware/internal/conf"
	"github.com/Ojas-Arora/SoundAware/internal/detection"
	"github.com/Ojas-Arora/SoundAware/internal/logging"
	"github.com/Ojas-Arora/SoundAware/internal/notification"
	"github.com/Ojas-Arora/SoundAware/internal/pipeline"
)

// Controller manages the API routes and handlers.
type Controller struct {
	Echo      *echo.Echo
	Settings  *conf.Settings
	Pipeline  *pipeline.Pipeline
	Sink      *detection.Sink
	Notifier  *notification.Store
	Assistant *assistant.Assistant
	Registry  *prometheus.Registry
	logger    *slog.Logger
	startTime time.Time
}

// New creates a controller and registers all routes. Registry may be nil to
// disable the metrics endpoint.
func New(settings *conf.Settings, p *pipeline.Pipeline, sink *detection.Sink, notifier *notification.Store, asst *assistant.Assistant, registry *prometheus.Registry) *Controller {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	c := &Controller{
		Echo:      e,
		Settings:  settings,
		Pipeline:  p,
		Sink:      sink,
		Notifier:  notifier,
		Assistant: asst,
		Registry:  registry,
		logger:    logging.ForService("api"),
		startTime: time.Now(),
	}
	c.registerRoutes()
	return c
}

func (c *Controller) registerRoutes() {
	v1 := c.Echo.Group("/api/v1")

	v1.GET("/health", c.Health)
	v1.GET("/settings", c.GetSettings)

	v1.GET("/detections", c.ListDetections)
	v1.DELETE("/detections", c.ClearDetections)
	v1.GET("/detections/export", c.ExportDetections)

	v1.GET("/notifications", c.ListNotifications)
	v1.PATCH("/notifications", c.MarkAllNotificationsRead)
	v1.PATCH("/notifications/:id", c.MarkNotificationRead)
	v1.DELETE("/notifications", c.ClearNotifications)

	v1.POST("/analyze", c.Analyze)
	v1.POST("/assistant", c.AskAssistant)

	if c.Registry != nil {
		c.Echo.GET("/metrics", echo.WrapHandler(
			promhttp.HandlerFor(c.Registry, promhttp.HandlerOpts{})))
	}
}

// Start begins serving on the configured port. Blocks until the server
// stops.
func (c *Controller) Start() error {
	addr := ":" + c.Settings.Webserver.Port
	c.logger.Info("starting HTTP server", "addr", addr)
	return c.Echo.Start(addr)
}

// Shutdown stops the server gracefully.
func (c *Controller) Shutdown(ctx context.Context) error {
	return c.Echo.Shutdown(ctx)
}

// Health reports liveness and basic runtime information.
func (c *Controller) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]any{
		"status":         "healthy",
		"uptime_seconds": int(time.Since(c.startTime).Seconds()),
		"detections":     len(c.Sink.History()),
	})
}

// GetSettings returns the current configuration.
func (c *Controller) GetSettings(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, c.Settings)
}
