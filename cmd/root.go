// Package cmd assembles the SoundAware command tree.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Ojas-Arora/SoundAware/cmd/assistant"
	"github.com/Ojas-Arora/SoundAware/cmd/file"
	"github.com/Ojas-Arora/SoundAware/cmd/history"
	"github.com/Ojas-Arora/SoundAware/cmd/realtime"
	"github.com/Ojas-Arora/SoundAware/cmd/serve"
	"github.com/Ojas-Arora/SoundAware/internal/conf"
)

// RootCommand creates and returns the root command.
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "soundaware",
		Short: "SoundAware CLI",
		Long:  "SoundAware recognizes household sounds from recorded or uploaded audio.",
	}

	setupFlags(rootCmd, settings)

	rootCmd.AddCommand(
		file.Command(settings),
		realtime.Command(settings),
		serve.Command(settings),
		history.Command(settings),
		assistant.Command(settings),
	)

	return rootCmd
}

// setupFlags defines global flags for the root command.
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")
	rootCmd.PersistentFlags().StringVar(&settings.Backend.URL, "backend", viper.GetString("backend.url"), "Backend base URL override")
	rootCmd.PersistentFlags().Float64Var(&settings.Model.Sensitivity, "sensitivity", viper.GetFloat64("model.sensitivity"), "Detection sensitivity between 0.0 and 1.0")

	cobra.CheckErr(viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug")))
	cobra.CheckErr(viper.BindPFlag("backend.url", rootCmd.PersistentFlags().Lookup("backend")))
	cobra.CheckErr(viper.BindPFlag("model.sensitivity", rootCmd.PersistentFlags().Lookup("sensitivity")))
}
