package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/SmitUplenchwar2687/Trailmark/internal/clock"
	"github.com/SmitUplenchwar2687/Trailmark/internal/eventlog"
	"github.com/SmitUplenchwar2687/Trailmark/internal/replay"
	"github.com/SmitUplenchwar2687/Trailmark/internal/server"
)

func newReplayCmd() *cobra.Command {
	var (
		file          string
		configPath    string
		flushInterval int
		speed         float64
		sessions      []string
		types         []string
		outputJSON    bool
		logs          logOptions
	)

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay a recorded event log through fresh recorders",
		Long: `Replays a recorded event log with speed control.

Entries are replayed in timestamp order, one recorder per session. The
virtual clock advances to match the gaps between entries, so timer flushes
and visibility accounting come out exactly as they did live, at any speed
you choose.

The file may be a JSON array or newline-delimited JSON.

Speed: 0 = instant, 1 = real-time, 10 = 10x, 100 = 100x`,
		Example: `  trailmark replay --file events.ndjson
  trailmark replay --file events.json --speed 100 --flush-interval 30
  trailmark replay --file events.json --sessions 3f1c,9ab2 --types mouseup,keyup
  trailmark replay --file events.json --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("--file is required")
			}

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("flush-interval") {
				cfg.Recorder.FlushInterval = flushInterval
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logs.applyConfigIfUnset(cmd, &cfg.Logging)
			logger, err := logs.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			entries, err := eventlog.LoadFile(file)
			if err != nil {
				return err
			}

			opts := cfg.Recorder.Options()
			opts.Logger = logger

			vc := clock.NewVirtualClock(replayStart(entries))
			filter := &replay.Filter{Sessions: sessions, Types: types}
			r := replay.New(vc, speed, filter, opts)
			r.RegisterSelectors(server.PageSelectors...)
			r.LoadEntries(entries)

			out := cmd.OutOrStdout()
			if !outputJSON {
				fmt.Fprintf(out, "Replaying %s (%s entries) at %.0fx speed...\n\n",
					file, humanize.Comma(int64(len(entries))), speed)
			}

			var flushes []replay.FlushResult
			summary, err := r.Run(cmd.Context(), func(res replay.FlushResult) {
				if outputJSON {
					flushes = append(flushes, res)
					return
				}
				printFlush(out, res)
			})
			if err != nil {
				return err
			}

			if outputJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{
					"flushes": flushes,
					"summary": summary,
				})
			}

			printReplaySummary(out, summary)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "path to recorded event log (required)")
	cmd.Flags().StringVar(&configPath, "config", "", "path to YAML config file")
	cmd.Flags().IntVar(&flushInterval, "flush-interval", 15, "timer flush cadence in seconds (0 disables)")
	cmd.Flags().Float64Var(&speed, "speed", 0, "replay speed (0=instant, 1=real-time, 10=10x)")
	cmd.Flags().StringSliceVar(&sessions, "sessions", nil, "filter by session ids (comma-separated)")
	cmd.Flags().StringSliceVar(&types, "types", nil, "filter by message types (comma-separated)")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "output flushes and summary as JSON")
	logs.addFlags(cmd)

	return cmd
}

func printFlush(w io.Writer, res replay.FlushResult) {
	r := res.Results
	fmt.Fprintf(w, "  [FLUSH] %s session=%s clicks=%d moves=%d keys=%d time=%d/%ds\n",
		res.Time.Format("15:04:05"),
		shortID(res.SessionID),
		r.Clicks.ClickCount,
		len(r.MouseMovements),
		len(r.KeyLogger),
		r.Time.TimeOnPage,
		r.Time.TotalTime)
}

func printReplaySummary(w io.Writer, s *replay.Summary) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "--- Replay Summary ---")
	fmt.Fprintf(w, "  Total entries:  %s\n", humanize.Comma(int64(s.TotalEntries)))
	fmt.Fprintf(w, "  Filtered:       %s\n", humanize.Comma(int64(s.Filtered)))
	fmt.Fprintf(w, "  Replayed:       %s\n", humanize.Comma(int64(s.Replayed)))
	fmt.Fprintf(w, "  Skipped:        %s\n", humanize.Comma(int64(s.Skipped)))
	fmt.Fprintf(w, "  Sessions:       %d\n", s.Sessions)
	fmt.Fprintf(w, "  Flushes:        %d\n", s.Flushes)
	fmt.Fprintf(w, "  Virtual time:   %s\n", s.Duration)
	fmt.Fprintf(w, "  Wall time:      %s\n", s.WallDuration.Round(time.Millisecond))

	if len(s.PerSession) == 0 {
		return
	}

	ids := make([]string, 0, len(s.PerSession))
	for id := range s.PerSession {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Per session:")
	for _, id := range ids {
		ss := s.PerSession[id]
		fmt.Fprintf(w, "    %s: %d events, %d flushes, %d clicks, %d moves, %d keys, on page %ds of %ds\n",
			shortID(id), ss.Events, ss.Flushes, ss.Clicks, ss.Movements, ss.KeyLog, ss.TimeOnPage, ss.TotalTime)
	}

	if s.Skipped > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, strings.Repeat("=", 50))
		fmt.Fprintf(w, "%d of %d entries were skipped as invalid\n", s.Skipped, s.Filtered)
		fmt.Fprintln(w, strings.Repeat("=", 50))
	}
}

// replayStart returns the earliest entry timestamp, so recorders start
// at the moment the first session opened.
func replayStart(entries []eventlog.Entry) time.Time {
	var start time.Time
	for _, e := range entries {
		if ts := e.Time(); !ts.IsZero() && (start.IsZero() || ts.Before(start)) {
			start = ts
		}
	}
	if start.IsZero() {
		return time.Now().Truncate(time.Second)
	}
	return start
}

// shortID trims uuid-style session ids for terminal output.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

