// Package app assembles the application's stores, pipeline and integrations
// from the loaded settings. Commands build an App at startup and tear it
// down on exit.
package app

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Ojas-Arora/SoundAware/internal/assistant"
	"github.com/Ojas-Arora/SoundAware/internal/conf"
	"github.com/Ojas-Arora/SoundAware/internal/datastore"
	"github.com/Ojas-Arora/SoundAware/internal/detection"
	"github.com/Ojas-Arora/SoundAware/internal/inference"
	"github.com/Ojas-Arora/SoundAware/internal/logging"
	"github.com/Ojas-Arora/SoundAware/internal/mqtt"
	"github.com/Ojas-Arora/SoundAware/internal/notification"
	"github.com/Ojas-Arora/SoundAware/internal/observability/metrics"
	"github.com/Ojas-Arora/SoundAware/internal/pipeline"
)

// App holds the wired application components.
type App struct {
	Settings  *conf.Settings
	Store     *datastore.Store
	Notifier  *notification.Store
	Sink      *detection.Sink
	Client    *inference.Client
	Pipeline  *pipeline.Pipeline
	Assistant *assistant.Assistant
	Registry  *prometheus.Registry
	MQTT      *mqtt.Client
	logger    *slog.Logger
	logClose  func() error
}

// New builds the application from settings. A failing SQLite store is
// downgraded to in-memory history with a warning; a failing MQTT connection
// disables publishing. Neither stops startup.
func New(ctx context.Context, settings *conf.Settings) *App {
	logger := logging.ForService("app")

	a := &App{
		Settings: settings,
		Registry: prometheus.NewRegistry(),
		logger:   logger,
	}

	if settings.Main.Log.Enabled && settings.Main.Log.Path != "" {
		fileLogger, closeFn, err := logging.NewFileLogger(settings.Main.Log.Path, "app", slog.LevelInfo)
		if err != nil {
			logger.Warn("failed to open log file", "path", settings.Main.Log.Path, "error", err)
		} else {
			a.logger = fileLogger
			a.logClose = closeFn
		}
	}

	if settings.Output.SQLite.Enabled {
		store, err := datastore.Open(settings.Output.SQLite.Path)
		if err != nil {
			logger.Warn("failed to open detection database, history will not persist",
				"path", settings.Output.SQLite.Path, "error", err)
		} else {
			a.Store = store
		}
	}

	notificationPath := ""
	if settings.Output.StatePath != "" {
		notificationPath = filepath.Join(settings.Output.StatePath, "notifications.json")
	}
	a.Notifier = notification.NewStore(notificationPath)

	a.Sink = detection.NewSink(a.Store, a.Notifier)
	a.Client = inference.NewClient(settings)
	a.Pipeline = pipeline.New(settings, a.Client, a.Sink)

	if m, err := metrics.NewInferenceMetrics(a.Registry); err != nil {
		logger.Warn("failed to register inference metrics", "error", err)
	} else {
		a.Pipeline.SetMetrics(m)
	}

	a.Assistant = assistant.New(settings, func() assistant.Stats {
		return assistant.Stats{
			TotalDetections: len(a.Sink.History()),
			UnreadCount:     a.Notifier.UnreadCount(),
		}
	})

	if settings.Realtime.MQTT.Enabled {
		client := mqtt.NewClient(settings)
		if m, err := metrics.NewMQTTMetrics(a.Registry); err != nil {
			logger.Warn("failed to register MQTT metrics", "error", err)
		} else {
			client.SetMetrics(m)
		}
		if err := client.Connect(ctx); err != nil {
			logger.Warn("MQTT broker unreachable, detection publishing disabled",
				"broker", settings.Realtime.MQTT.Broker, "error", err)
		} else {
			a.MQTT = client
			a.Sink.SetPublisher(client)
		}
	}

	return a
}

// Close releases the application's resources.
func (a *App) Close() {
	if a.MQTT != nil {
		a.MQTT.Disconnect()
	}
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			a.logger.Warn("failed to close detection database", "error", err)
		}
	}
	if a.logClose != nil {
		if err := a.logClose(); err != nil {
			logging.Warn("failed to close log file", "error", err)
		}
	}
}
