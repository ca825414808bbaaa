package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root trailmark command.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "trailmark",
		Short: "Record how visitors interact with a page",
		Long: `Trailmark serves a page whose visitors' clicks, pointer movement,
visibility changes, pastes and keystrokes are aggregated per session and
flushed on a timer or on demand. Recorded sessions can be replayed on a
virtual clock and stored snapshots inspected.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newServeCmd(),
		newReplayCmd(),
		newGenerateCmd(),
		newInspectCmd(),
	)

	return root
}
