// Package serve implements the subcommand that runs the local HTTP API.
package serve

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Ojas-Arora/SoundAware/internal/api"
	"github.com/Ojas-Arora/SoundAware/internal/app"
	"github.com/Ojas-Arora/SoundAware/internal/conf"
	"github.com/Ojas-Arora/SoundAware/internal/logging"
)

const shutdownTimeout = 10 * time.Second

// Command creates the serve command.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local HTTP API",
		Long:  "Serve detection history, notifications, settings, the assistant and file analysis over HTTP.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runServer(ctx, settings)
		},
	}

	cmd.Flags().StringVar(&settings.Webserver.Port, "port", settings.Webserver.Port, "Port to listen on")
	return cmd
}

func runServer(ctx context.Context, settings *conf.Settings) error {
	a := app.New(ctx, settings)
	defer a.Close()

	controller := api.New(settings, a.Pipeline, a.Sink, a.Notifier, a.Assistant, a.Registry)

	errCh := make(chan error, 1)
	go func() {
		if err := controller.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logging.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return controller.Shutdown(shutdownCtx)
}
