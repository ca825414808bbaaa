package clock

import (
	"sync"
	"time"
)

// VirtualClock is a controllable clock for deterministic tick testing and
// replay. Time only moves when Advance or Set is called, so a recorder's
// one-second tick fires exactly when the caller says it should.
//
// Thread-safe for concurrent use.
type VirtualClock struct {
	mu      sync.RWMutex
	cond    *sync.Cond
	current time.Time
	waiters []waiter
}

type waiter struct {
	deadline time.Time
	ch       chan time.Time
}

// NewVirtualClock creates a VirtualClock starting at the given time.
func NewVirtualClock(start time.Time) *VirtualClock {
	c := &VirtualClock{
		current: start,
	}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// Now returns the current virtual time.
func (c *VirtualClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Since returns the virtual duration elapsed since t.
func (c *VirtualClock) Since(t time.Time) time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current.Sub(t)
}

// After returns a channel that receives the virtual time once the clock
// has advanced past the current time plus d. The channel fires during
// Advance() or Set() calls when the deadline is reached.
func (c *VirtualClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan time.Time, 1)
	deadline := c.current.Add(d)

	// If duration is zero or negative, fire immediately.
	if d <= 0 {
		ch <- c.current
		return ch
	}

	c.waiters = append(c.waiters, waiter{
		deadline: deadline,
		ch:       ch,
	})
	c.cond.Broadcast()
	return ch
}

// NewTimer returns a timer that fires like After. Stopping it removes the
// pending waiter, so it no longer counts toward Waiters, NextDeadline or
// BlockUntil.
func (c *VirtualClock) NewTimer(d time.Duration) Timer {
	return &virtualTimer{clock: c, ch: c.After(d)}
}

type virtualTimer struct {
	clock *VirtualClock
	ch    <-chan time.Time
}

func (t *virtualTimer) C() <-chan time.Time { return t.ch }

func (t *virtualTimer) Stop() bool {
	return t.clock.cancel(t.ch)
}

// cancel drops the waiter owning ch and reports whether it was pending.
func (c *VirtualClock) cancel(ch <-chan time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, w := range c.waiters {
		if w.ch == ch {
			c.waiters = append(c.waiters[:i], c.waiters[i+1:]...)
			return true
		}
	}
	return false
}

// Waiters returns the number of pending After channels.
func (c *VirtualClock) Waiters() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.waiters)
}

// NextDeadline returns the earliest pending After deadline.
func (c *VirtualClock) NextDeadline() (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var next time.Time
	for i, w := range c.waiters {
		if i == 0 || w.deadline.Before(next) {
			next = w.deadline
		}
	}
	return next, len(c.waiters) > 0
}

// BlockUntil blocks until at least n After channels are pending.
// A goroutine that re-arms its timer after handling a tick shows up here
// only once the previous tick has been fully processed. Channels from a
// plain After that nobody reads still count until their deadline passes;
// use NewTimer and Stop it to withdraw one.
func (c *VirtualClock) BlockUntil(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for len(c.waiters) < n {
		c.cond.Wait()
	}
}

// Advance moves the virtual clock forward by the given duration.
// It fires any waiters whose deadlines have been reached.
// Panics if d is negative.
func (c *VirtualClock) Advance(d time.Duration) {
	if d < 0 {
		panic("clock: cannot advance by negative duration")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.current = c.current.Add(d)
	c.drainWaiters()
}

// Set sets the virtual clock to an exact time.
// It fires any waiters whose deadline has been reached.
// Panics if t is before the current time.
func (c *VirtualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t.Before(c.current) {
		panic("clock: cannot set time to the past")
	}

	c.current = t
	c.drainWaiters()
}

// drainWaiters fires all waiters whose deadline is at or before the current time.
// Must be called with c.mu held.
func (c *VirtualClock) drainWaiters() {
	remaining := c.waiters[:0]
	for _, w := range c.waiters {
		if !w.deadline.After(c.current) {
			w.ch <- c.current
		} else {
			remaining = append(remaining, w)
		}
	}
	c.waiters = remaining
}
