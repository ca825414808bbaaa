package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/SmitUplenchwar2687/Trailmark/internal/clock"
	"github.com/SmitUplenchwar2687/Trailmark/internal/config"
	"github.com/SmitUplenchwar2687/Trailmark/internal/eventlog"
	"github.com/SmitUplenchwar2687/Trailmark/internal/server"
	"github.com/SmitUplenchwar2687/Trailmark/internal/sink"
)

func newServeCmd() *cobra.Command {
	var (
		configPath        string
		addr              string
		flushInterval     int
		maxMouseMovements int
		recordFile        string
		triggerSelector   string
		triggerEvent      string
		sinks             = defaultSinkOptions()
		logs              logOptions
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tracked page and record visitor behavior",
		Long: `Starts an HTTP server hosting the Apple Products Sales page. Each visitor
gets a websocket session whose interactions are aggregated by a recorder
and flushed every --flush-interval seconds, on "Show Results", or when the
configured action trigger fires.

Endpoints:
  GET /                   Tracked page
  GET /health             Health check
  WS  /ws/behavior        Page event stream (one session per connection)
  GET /api/sessions       Latest stored snapshot per session
  GET /api/sessions/{id}  Latest stored snapshot for one session
  GET /dashboard/         Live flush viewer
  WS  /ws                 WebSocket for flush events`,
		Example: `  trailmark serve
  trailmark serve --addr :9090 --flush-interval 30
  trailmark serve --sink sqlite --sqlite-path sessions.db
  trailmark serve --sink redis --redis-host localhost:6379 --redis-ttl 1h
  trailmark serve --trigger-selector "#contact-form" --trigger-event submit
  trailmark serve --config trailmark.yaml --record events.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("addr") {
				cfg.Server.Addr = addr
			}
			if flags.Changed("record") {
				cfg.Server.RecordFile = recordFile
			}
			if flags.Changed("flush-interval") {
				cfg.Recorder.FlushInterval = flushInterval
			}
			if flags.Changed("max-mouse-movements") {
				cfg.Recorder.MaxMouseMovements = maxMouseMovements
			}
			if flags.Changed("trigger-selector") || flags.Changed("trigger-event") {
				cfg.Recorder.ActionTrigger = config.ActionTriggerConfig{
					Enabled:  true,
					Selector: triggerSelector,
					Event:    triggerEvent,
				}
			}

			sinks.applyConfigIfUnset(cmd, &cfg.Sink)
			if err := sinks.normalize(); err != nil {
				return err
			}
			cfg.Sink = sinks.toConfig()

			logs.applyConfigIfUnset(cmd, &cfg.Logging)
			cfg.Logging.Level = logs.level
			cfg.Logging.Format = logs.format

			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := logs.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			svc, err := buildService(cfg, clock.NewRealClock(), logger)
			if err != nil {
				return err
			}
			defer svc.close()

			printBanner(cmd.OutOrStdout(), cfg)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- svc.server.Start()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				logger.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return svc.shutdown(shutdownCtx)
			}
		},
	}

	def := config.Default()
	cmd.Flags().StringVar(&configPath, "config", "", "path to YAML config file")
	cmd.Flags().StringVar(&addr, "addr", def.Server.Addr, "address to listen on")
	cmd.Flags().IntVar(&flushInterval, "flush-interval", def.Recorder.FlushInterval, "timer flush cadence in seconds (0 disables)")
	cmd.Flags().IntVar(&maxMouseMovements, "max-mouse-movements", 0, "cap on kept mouse movements per session (0 = unbounded)")
	cmd.Flags().StringVar(&recordFile, "record", "", "record page events to a JSON file (exported on shutdown)")
	cmd.Flags().StringVar(&triggerSelector, "trigger-selector", "", "CSS selector of the element whose event flushes results")
	cmd.Flags().StringVar(&triggerEvent, "trigger-event", "", "event name on --trigger-selector that flushes results")
	sinks.addFlags(cmd)
	logs.addFlags(cmd)

	return cmd
}

// service bundles a configured server with the resources it owns.
type service struct {
	server     *server.Server
	sink       sink.Sink
	events     *eventlog.Log
	recordFile string
	logger     *slog.Logger
}

func buildService(cfg config.Config, clk clock.Clock, logger *slog.Logger) (*service, error) {
	snk, err := sink.New(cfg.Sink, clk)
	if err != nil {
		return nil, fmt.Errorf("creating %s sink: %w", cfg.Sink.Backend, err)
	}

	opts := server.Options{
		Hub:      server.NewHub(logger),
		Sink:     snk,
		Recorder: cfg.Recorder.Options(),
		Logger:   logger,
	}
	if cfg.Server.RecordFile != "" {
		opts.EventLog = eventlog.New(nil)
	}

	return &service{
		server:     server.New(cfg.Server.Addr, clk, opts),
		sink:       snk,
		events:     opts.EventLog,
		recordFile: cfg.Server.RecordFile,
		logger:     logger,
	}, nil
}

// shutdown stops the server and exports the event log even when the
// server did not stop cleanly.
func (s *service) shutdown(ctx context.Context) error {
	return s.afterShutdown(s.server.Shutdown(ctx))
}

func (s *service) afterShutdown(shutdownErr error) error {
	if shutdownErr != nil {
		shutdownErr = fmt.Errorf("shutting down server: %w", shutdownErr)
	}
	return errors.Join(shutdownErr, s.exportRecord())
}

func (s *service) exportRecord() error {
	if s.events == nil {
		return nil
	}
	s.logger.Info("exporting event log", "entries", s.events.Len(), "file", s.recordFile)
	if err := s.events.ExportFile(s.recordFile); err != nil {
		return fmt.Errorf("exporting event log: %w", err)
	}
	return nil
}

func (s *service) close() {
	if err := s.sink.Close(); err != nil {
		s.logger.Warn("closing sink", "error", err)
	}
}

func printBanner(w io.Writer, cfg config.Config) {
	addr := cfg.Server.Addr
	fmt.Fprintf(w, "\n  Trailmark\n")
	fmt.Fprintf(w, "  ────────────────────────────────────\n")
	fmt.Fprintf(w, "  Page:       http://localhost%s/\n", addr)
	fmt.Fprintf(w, "  Dashboard:  http://localhost%s/dashboard/\n", addr)
	fmt.Fprintf(w, "  Sessions:   http://localhost%s/api/sessions\n", addr)
	fmt.Fprintf(w, "  Flush:      every %ds\n", cfg.Recorder.FlushInterval)
	fmt.Fprintf(w, "  Sink:       %s\n", cfg.Sink.Backend)
	if t := cfg.Recorder.ActionTrigger; t.Enabled {
		fmt.Fprintf(w, "  Trigger:    %s on %s\n", t.Event, t.Selector)
	}
	if cfg.Server.RecordFile != "" {
		fmt.Fprintf(w, "  Recording:  %s\n", cfg.Server.RecordFile)
	}
	fmt.Fprintf(w, "  ────────────────────────────────────\n\n")
}
