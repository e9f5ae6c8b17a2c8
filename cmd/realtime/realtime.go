// Package realtime implements the subcommand that runs continuous microphone
// capture and classification.
package realtime

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Ojas-Arora/SoundAware/internal/app"
	"github.com/Ojas-Arora/SoundAware/internal/capture"
	"github.com/Ojas-Arora/SoundAware/internal/conf"
	"github.com/Ojas-Arora/SoundAware/internal/logging"
)

// Command creates the realtime capture command.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "realtime",
		Short: "Continuously capture and classify audio",
		Long:  "Record from the microphone in fixed-length chunks and classify each chunk as it completes. Stops on interrupt.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runRealtime(ctx, settings)
		},
	}
}

func runRealtime(ctx context.Context, settings *conf.Settings) error {
	a := app.New(ctx, settings)
	defer a.Close()

	recorder := capture.NewRecorder(settings)
	if err := recorder.Start(ctx); err != nil {
		return err
	}
	defer recorder.Stop()

	logging.Info("realtime capture started",
		"chunk_seconds", settings.Realtime.ChunkSeconds,
		"sample_rate", settings.Model.SampleRate)

	a.Pipeline.RunRealtime(ctx, recorder.Chunks())
	logging.Info("realtime capture stopped")
	return nil
}
