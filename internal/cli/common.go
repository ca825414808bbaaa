package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/SmitUplenchwar2687/Trailmark/internal/config"
	"github.com/SmitUplenchwar2687/Trailmark/internal/logging"
)

// loadConfig returns the defaults, or the file at path merged over them.
func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

type logOptions struct {
	level  string
	format string
}

func (o *logOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.level, "log-level", "info", "log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&o.format, "log-format", "text", "log format (text, json)")
}

func (o *logOptions) applyConfigIfUnset(cmd *cobra.Command, cfg *config.LoggingConfig) {
	if !cmd.Flags().Changed("log-level") {
		o.level = cfg.Level
	}
	if !cmd.Flags().Changed("log-format") {
		o.format = cfg.Format
	}
}

func (o *logOptions) logger(w io.Writer) (*slog.Logger, error) {
	return logging.New(logging.Options{Level: o.level, Format: o.format, Output: w})
}
