package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/SmitUplenchwar2687/Trailmark/internal/clock"
	"github.com/SmitUplenchwar2687/Trailmark/internal/sink"
)

func newInspectCmd() *cobra.Command {
	var (
		configPath string
		sessionID  string
		outputJSON bool
		sinks      = defaultSinkOptions()
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Inspect snapshots stored in a sink",
		Long: `Lists the latest stored snapshot of every session, or prints the full
snapshot of one session with --session.

The memory sink lives only inside a running server, so inspect is useful
with the sqlite and redis sinks.`,
		Example: `  trailmark inspect --sink sqlite --sqlite-path trailmark.db
  trailmark inspect --sink redis --redis-host localhost:6379 --session 3f1c2d4e-...
  trailmark inspect --config trailmark.yaml --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			sinks.applyConfigIfUnset(cmd, &cfg.Sink)
			if err := sinks.normalize(); err != nil {
				return err
			}
			sinkCfg := sinks.toConfig()
			if err := sinkCfg.Validate(); err != nil {
				return err
			}

			snk, err := sink.New(sinkCfg, clock.NewRealClock())
			if err != nil {
				return fmt.Errorf("opening %s sink: %w", sinkCfg.Backend, err)
			}
			defer snk.Close()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if sessionID != "" {
				snap, err := snk.Latest(ctx, sessionID)
				if err != nil {
					return err
				}
				if snap == nil {
					return fmt.Errorf("no snapshot stored for session %q", sessionID)
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(snap)
			}

			snaps, err := snk.List(ctx)
			if err != nil {
				return err
			}

			if outputJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if snaps == nil {
					snaps = []sink.Snapshot{}
				}
				return enc.Encode(snaps)
			}

			return printSnapshots(out, snaps)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to YAML config file")
	cmd.Flags().StringVar(&sessionID, "session", "", "print the full latest snapshot of this session")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "output the snapshot list as JSON")
	sinks.addFlags(cmd)

	return cmd
}

func printSnapshots(w io.Writer, snaps []sink.Snapshot) error {
	if len(snaps) == 0 {
		fmt.Fprintln(w, "No snapshots stored.")
		return nil
	}

	fmt.Fprintf(w, "%-36s  %-16s  %6s  %6s  %5s  %9s  %8s\n",
		"SESSION", "SAVED", "CLICKS", "MOVES", "KEYS", "ON PAGE", "SIZE")
	for _, s := range snaps {
		raw, err := json.Marshal(s.Results)
		if err != nil {
			return fmt.Errorf("encoding snapshot %s: %w", s.SessionID, err)
		}
		r := s.Results
		fmt.Fprintf(w, "%-36s  %-16s  %6d  %6d  %5d  %4d/%-4d  %8s\n",
			s.SessionID,
			humanize.Time(time.UnixMilli(s.SavedAt)),
			r.Clicks.ClickCount,
			len(r.MouseMovements),
			len(r.KeyLogger),
			r.Time.TimeOnPage,
			r.Time.TotalTime,
			humanize.Bytes(uint64(len(raw))))
	}
	fmt.Fprintf(w, "\n%s sessions\n", humanize.Comma(int64(len(snaps))))
	return nil
}
