package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/SmitUplenchwar2687/Trailmark/internal/config"
	"github.com/SmitUplenchwar2687/Trailmark/pkg/generate"
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate sample event logs and config",
		Long: `Generates sample data for testing and experimentation.

Use "generate events" to create a synthetic event log for replay.
Use "generate config" to create an example YAML config file.`,
	}

	cmd.AddCommand(newGenerateEventsCmd(), newGenerateConfigCmd())
	return cmd
}

func newGenerateEventsCmd() *cobra.Command {
	def := generate.DefaultOptions()
	var (
		output string
		opts   = def
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Generate a synthetic event log",
		Long: `Creates an event log of page sessions. Each session opens with a hello
carrying a browser identity, followed by pointer, key and paste events.

Patterns:
  steady    Evenly distributed interactions
  burst     Concentrated bursts with quiet periods
  idle      Bursts with the page hidden in between`,
		Example: `  trailmark generate events --output events.json --count 500 --sessions 5
  trailmark generate events --output idle.json --pattern idle --duration 10m --seed 42`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = "events.json"
			}
			if opts.Seed == 0 {
				opts.Seed = time.Now().UnixNano()
			}

			entries, err := generate.GenerateEvents(opts)
			if err != nil {
				return err
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating file: %w", err)
			}
			defer f.Close()

			enc := json.NewEncoder(f)
			enc.SetIndent("", "  ")
			if err := enc.Encode(entries); err != nil {
				return fmt.Errorf("writing entries: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Generated %s entries to %s\n", humanize.Comma(int64(len(entries))), output)
			fmt.Fprintf(out, "  Sessions: %d\n", opts.Sessions)
			fmt.Fprintf(out, "  Duration: %s\n", opts.Duration)
			fmt.Fprintf(out, "  Pattern:  %s\n", opts.Pattern)
			fmt.Fprintf(out, "  Seed:     %d\n", opts.Seed)
			return nil
		},
	}

	cmd.Flags().StringVar(&output, "output", "events.json", "output file path")
	cmd.Flags().IntVar(&opts.Count, "count", def.Count, "number of interaction events to generate")
	cmd.Flags().IntVar(&opts.Sessions, "sessions", def.Sessions, "number of distinct sessions")
	cmd.Flags().DurationVar(&opts.Duration, "duration", def.Duration, "time span for generated events")
	cmd.Flags().StringVar(&opts.Pattern, "pattern", def.Pattern, "interaction pattern (steady, burst, idle)")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "random seed (0 = time based)")

	return cmd
}

func newGenerateConfigCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Generate an example YAML config file",
		Example: `  trailmark generate config --output trailmark.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = "trailmark.yaml"
			}
			if err := config.WriteExample(output); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Generated example config at %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVar(&output, "output", "trailmark.yaml", "output file path")
	return cmd
}
