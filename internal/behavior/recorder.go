// Package behavior aggregates browser user-behaviour events (clicks, pointer
// movement, visibility changes, paste and key input) into a single results
// aggregate and hands snapshots of it to a consumer on a fixed cadence or on
// demand.
package behavior

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/SmitUplenchwar2687/Trailmark/internal/clock"
	"github.com/SmitUplenchwar2687/Trailmark/internal/dom"
)

// State is the lifecycle state of a Recorder.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// ErrStopped is returned by Start on a recorder that has been stopped.
// A stopped recorder cannot run again.
var ErrStopped = errors.New("behavior: recorder is stopped")

// Recorder owns one results aggregate and the listeners feeding it.
//
// All aggregate mutations and snapshot copies are serialised by one mutex, so
// event handlers may run on any goroutine concurrently with the tick loop and
// with Flush.
type Recorder struct {
	doc      dom.Document
	opts     Options
	clock    clock.Clock
	logger   *slog.Logger
	handlers map[dom.EventType]dom.Listener

	mu      sync.Mutex
	state   State
	results Results
	subs    []dom.Subscription
	done    chan struct{}
	exited  chan struct{}
}

// New creates an idle recorder observing doc. A nil doc yields a recorder
// whose Start is a no-op.
func New(doc dom.Document, opts Options) *Recorder {
	opts = opts.withDefaults()
	r := &Recorder{
		doc:     doc,
		opts:    opts,
		clock:   opts.Clock,
		logger:  opts.Logger,
		results: NewResults(),
	}
	r.handlers = map[dom.EventType]dom.Listener{
		dom.EventMouseUp:          r.handleMouseUp,
		dom.EventMouseMove:        r.handleMouseMove,
		dom.EventVisibilityChange: r.handleVisibilityChange,
		dom.EventPaste:            r.handlePaste,
		dom.EventKeyUp:            r.handleKeyUp,
	}
	return r
}

// Start captures the environment, registers the document listeners (and the
// action-trigger listener when configured) and starts the one-second tick.
// Calling Start on a running recorder does nothing.
func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.state {
	case StateRunning:
		return nil
	case StateStopped:
		return ErrStopped
	}

	if r.doc == nil {
		r.logger.Debug("no document to observe, recorder not started")
		return nil
	}

	r.results.UserInfo = r.doc.Navigator()

	for _, et := range dom.StandardEvents {
		r.subs = append(r.subs, r.doc.AddEventListener(et, r.handlers[et]))
	}

	if trig := r.opts.ActionTrigger; trig.active() {
		if el := r.doc.QuerySelector(trig.Selector); el != nil {
			r.subs = append(r.subs, el.AddEventListener(dom.EventType(trig.Event), r.handleAction))
		} else {
			r.logger.Debug("action trigger element not found", "selector", trig.Selector)
		}
	}

	r.done = make(chan struct{})
	r.exited = make(chan struct{})
	r.state = StateRunning
	go r.run(r.done, r.exited)
	return nil
}

// Stop halts the tick loop and removes every listener registered by Start.
// It is idempotent, and once it returns no event or tick mutates the
// aggregate. Stop must not be called from inside OnFlush.
func (r *Recorder) Stop() {
	r.mu.Lock()
	if r.state == StateStopped {
		r.mu.Unlock()
		return
	}
	wasRunning := r.state == StateRunning
	r.state = StateStopped
	subs := r.subs
	r.subs = nil
	done, exited := r.done, r.exited
	r.mu.Unlock()

	if wasRunning {
		close(done)
		<-exited
	}
	for _, s := range subs {
		s.Remove()
	}
}

// State returns the lifecycle state.
func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Snapshot returns a deep copy of the current aggregate.
func (r *Recorder) Snapshot() Results {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.results.Clone()
}

// Flush hands a snapshot to OnFlush and returns its error. It never mutates
// the aggregate.
func (r *Recorder) Flush() error {
	return r.opts.OnFlush(r.Snapshot())
}

func (r *Recorder) run(done <-chan struct{}, exited chan<- struct{}) {
	defer close(exited)
	for {
		t := r.clock.NewTimer(time.Second)
		select {
		case <-done:
			t.Stop()
			return
		case <-t.C():
			r.tick()
		}
	}
}

// tick advances the elapsed counters and flushes when totalTime reaches a
// multiple of FlushInterval. The flush sees the post-advance counters.
func (r *Recorder) tick() {
	r.mu.Lock()
	if r.state != StateRunning {
		r.mu.Unlock()
		return
	}
	r.results.Time.TotalTime++
	if r.doc.VisibilityState() == dom.Visible {
		r.results.Time.TimeOnPage++
	}
	total := r.results.Time.TotalTime
	due := r.opts.FlushInterval > 0 && total%r.opts.FlushInterval == 0
	var snap Results
	if due {
		snap = r.results.Clone()
	}
	r.mu.Unlock()

	if !due {
		return
	}
	if err := r.opts.OnFlush(snap); err != nil {
		r.logger.Warn("timer flush failed", "total_time", total, "error", err)
	}
}
