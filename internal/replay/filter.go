package replay

import (
	"slices"
	"time"

	"github.com/SmitUplenchwar2687/Trailmark/internal/eventlog"
)

// Filter defines criteria for selecting event-log entries during replay.
type Filter struct {
	Sessions []string  // Only include these sessions (empty = all)
	Types    []string  // Only include these message types (empty = all)
	After    time.Time // Only include entries after this time (zero = no limit)
	Before   time.Time // Only include entries before this time (zero = no limit)
}

// Match returns true if the entry passes the filter.
func (f *Filter) Match(e eventlog.Entry) bool {
	if f == nil {
		return true
	}
	if len(f.Sessions) > 0 && !slices.Contains(f.Sessions, e.SessionID) {
		return false
	}
	if len(f.Types) > 0 && !slices.Contains(f.Types, e.Message.Type) {
		return false
	}
	ts := e.Time()
	if !f.After.IsZero() && !ts.After(f.After) {
		return false
	}
	if !f.Before.IsZero() && !ts.Before(f.Before) {
		return false
	}
	return true
}
