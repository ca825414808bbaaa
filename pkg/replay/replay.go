package replay

import (
	"github.com/SmitUplenchwar2687/Trailmark/internal/behavior"
	internalreplay "github.com/SmitUplenchwar2687/Trailmark/internal/replay"
	"github.com/SmitUplenchwar2687/Trailmark/pkg/clock"
)

// Filter defines criteria for selecting event-log entries during replay.
type Filter = internalreplay.Filter

// Replayer replays recorded page sessions through fresh recorders.
type Replayer = internalreplay.Replayer

// FlushResult is one snapshot produced during replay.
type FlushResult = internalreplay.FlushResult

// Summary aggregates replay statistics.
type Summary = internalreplay.Summary

// SessionSummary holds per-session replay stats.
type SessionSummary = internalreplay.SessionSummary

// New creates a new replayer. opts is the recorder template for every
// replayed session.
func New(vc *clock.VirtualClock, speed float64, filter *Filter, opts behavior.Options) *Replayer {
	return internalreplay.New(vc, speed, filter, opts)
}
