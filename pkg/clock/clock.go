package clock

import (
	"time"

	internalclock "github.com/SmitUplenchwar2687/Trailmark/internal/clock"
)

// Clock abstracts time so recorders run on both real and virtual time.
type Clock = internalclock.Clock

// Timer is a one-shot timer that can be cancelled.
type Timer = internalclock.Timer

// RealClock delegates to the standard time package.
type RealClock = internalclock.RealClock

// VirtualClock is a controllable clock for driving recorder ticks by hand.
type VirtualClock = internalclock.VirtualClock

// NewRealClock creates a real wall-clock implementation.
func NewRealClock() *RealClock {
	return internalclock.NewRealClock()
}

// NewVirtualClock creates a virtual clock starting at the given time.
func NewVirtualClock(start time.Time) *VirtualClock {
	return internalclock.NewVirtualClock(start)
}
