// Package assistant implements the subcommand that answers questions about
// the application.
package assistant

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Ojas-Arora/SoundAware/internal/app"
	"github.com/Ojas-Arora/SoundAware/internal/conf"
)

// Command creates the assistant command.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "assistant [question]",
		Short: "Ask the built-in FAQ assistant",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app.New(cmd.Context(), settings)
			defer a.Close()

			reply := a.Assistant.Ask(strings.Join(args, " "))
			fmt.Fprintln(cmd.OutOrStdout(), reply.Text)
			if len(reply.Suggestions) > 0 {
				fmt.Fprintln(cmd.OutOrStdout())
				fmt.Fprintln(cmd.OutOrStdout(), "You could also ask:")
				for _, s := range reply.Suggestions {
					fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", s)
				}
			}
			return nil
		},
	}
}
