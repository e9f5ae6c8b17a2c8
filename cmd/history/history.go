// Package history implements the subcommands for browsing, exporting and
// clearing the detection history.
package history

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Ojas-Arora/SoundAware/internal/app"
	"github.com/Ojas-Arora/SoundAware/internal/conf"
)

// Command creates the history command with its subcommands.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show stored detections",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app.New(cmd.Context(), settings)
			defer a.Close()

			history := a.Sink.History()
			if len(history) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no detections recorded")
				return nil
			}
			for _, det := range history {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-24s %3.0f%%  %s\n",
					det.Timestamp.Format("2006-01-02 15:04:05"),
					det.SoundType, det.Confidence*100, det.Source)
			}
			return nil
		},
	}

	cmd.AddCommand(exportCommand(settings), clearCommand(settings))
	return cmd
}

func exportCommand(settings *conf.Settings) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export detections as CSV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app.New(cmd.Context(), settings)
			defer a.Close()

			if output == "" {
				return a.Sink.ExportCSV(cmd.OutOrStdout())
			}

			f, err := os.Create(output)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := a.Sink.ExportCSV(f); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d detections to %s\n", len(a.Sink.History()), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file, defaults to stdout")
	return cmd
}

func clearCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all stored detections",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app.New(cmd.Context(), settings)
			defer a.Close()

			a.Sink.ClearHistory()
			fmt.Fprintln(cmd.OutOrStdout(), "history cleared")
			return nil
		},
	}
}
