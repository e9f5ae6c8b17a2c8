// Package file implements the subcommand that classifies a single audio
// file.
package file

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Ojas-Arora/SoundAware/internal/app"
	"github.com/Ojas-Arora/SoundAware/internal/conf"
)

// Command creates the file command for analyzing a single audio file.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "file [input audio]",
		Short: "Classify a single audio file",
		Long:  "Classify one recorded audio file and store the resulting detection.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app.New(cmd.Context(), settings)
			defer a.Close()

			det, err := a.Pipeline.ProcessFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s (%.0f%% confidence, %s)\n",
				det.SoundType, det.Confidence*100, det.Source)
			return nil
		},
	}
}
