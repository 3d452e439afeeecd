package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/TomasB/rirroutes/internal/config"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "rirroutes",
		Short:         "Build per-country CIDR route tables from RIR delegation stats",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "file with environment defaults")

	loadConfig := func() (config.Config, error) {
		return config.Load(envFile)
	}

	serveCmd := newServeCommand(loadConfig)
	root.AddCommand(serveCmd, newGenerateCommand(loadConfig))
	root.RunE = serveCmd.RunE

	return root
}

// setupLogging installs a JSON slog logger writing to w as the default.
func setupLogging(w io.Writer, level slog.Level) {
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
