package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Ojas-Arora/SoundAware/cmd"
	"github.com/Ojas-Arora/SoundAware/internal/conf"
	"github.com/Ojas-Arora/SoundAware/internal/logging"
)

func main() {
	logging.Init()

	settings := conf.Setting()
	if settings == nil {
		fmt.Fprintln(os.Stderr, "error: failed to load configuration")
		os.Exit(1)
	}
	if settings.Debug {
		logging.SetLevel(slog.LevelDebug)
	}

	rootCmd := cmd.RootCommand(settings)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
