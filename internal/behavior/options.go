package behavior

import (
	"log/slog"

	"github.com/SmitUplenchwar2687/Trailmark/internal/clock"
)

// DefaultFlushInterval is the timer flush cadence in seconds.
const DefaultFlushInterval = 15

// FlushFunc consumes a snapshot of the aggregate.
type FlushFunc func(Results) error

// ActionTrigger flushes when Event fires on the element matching Selector.
type ActionTrigger struct {
	Enabled  bool
	Selector string
	Event    string
}

func (a *ActionTrigger) active() bool {
	return a != nil && a.Enabled && a.Selector != "" && a.Event != ""
}

// Options configures a Recorder. Start from DefaultOptions; the zero value
// tracks nothing and never flushes on the timer.
type Options struct {
	TrackClickCount    bool
	TrackClickDetails  bool
	TrackMouseMovement bool
	TrackVisibility    bool
	TrackKeyLog        bool

	// FlushInterval is the timer flush cadence in seconds. 0 disables it.
	FlushInterval int

	// MaxMouseMovements caps the movement trace, keeping the newest samples.
	// 0 leaves it unbounded.
	MaxMouseMovements int

	// OnFlush receives snapshots. Nil logs the snapshot at info level.
	// It must not call Stop on the recorder that invoked it.
	OnFlush FlushFunc

	ActionTrigger *ActionTrigger

	Clock  clock.Clock
	Logger *slog.Logger
}

// DefaultOptions tracks everything and flushes every 15 seconds.
func DefaultOptions() Options {
	return Options{
		TrackClickCount:    true,
		TrackClickDetails:  true,
		TrackMouseMovement: true,
		TrackVisibility:    true,
		TrackKeyLog:        true,
		FlushInterval:      DefaultFlushInterval,
	}
}

func (o Options) withDefaults() Options {
	if o.Clock == nil {
		o.Clock = clock.NewRealClock()
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.FlushInterval < 0 {
		o.FlushInterval = 0
	}
	if o.MaxMouseMovements < 0 {
		o.MaxMouseMovements = 0
	}
	if o.OnFlush == nil {
		logger := o.Logger
		o.OnFlush = func(res Results) error {
			logger.Info("user behavior",
				"total_time", res.Time.TotalTime,
				"time_on_page", res.Time.TimeOnPage,
				"clicks", res.Clicks.ClickCount,
				"mouse_movements", len(res.MouseMovements),
				"context_changes", len(res.ContextChange),
				"key_log", len(res.KeyLogger),
			)
			return nil
		}
	}
	return o
}
