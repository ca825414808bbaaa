// Package replay drives recorded page sessions through fresh recorders on
// a virtual clock, reproducing the flushes they would have produced live.
package replay

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/SmitUplenchwar2687/Trailmark/internal/behavior"
	"github.com/SmitUplenchwar2687/Trailmark/internal/clock"
	"github.com/SmitUplenchwar2687/Trailmark/internal/dom"
	"github.com/SmitUplenchwar2687/Trailmark/internal/eventlog"
)

// Replayer replays an event log at a configurable speed.
type Replayer struct {
	entries   []eventlog.Entry
	clock     *clock.VirtualClock
	filter    *Filter
	speed     float64 // 1.0 = real-time, 10.0 = 10x, 0 = instant
	opts      behavior.Options
	selectors []string
	logger    *slog.Logger
}

// FlushResult is one snapshot handed out by a replayed recorder.
type FlushResult struct {
	SessionID string           `json:"session"`
	Time      time.Time        `json:"time"` // virtual time of the flush
	Results   behavior.Results `json:"results"`
}

// Summary aggregates replay statistics.
type Summary struct {
	TotalEntries int                       `json:"total_entries"`
	Filtered     int                       `json:"filtered"`
	Replayed     int                       `json:"replayed"`
	Skipped      int                       `json:"skipped"`
	Sessions     int                       `json:"sessions"`
	Flushes      int                       `json:"flushes"`
	Duration     time.Duration             `json:"duration"`      // virtual time span
	WallDuration time.Duration             `json:"wall_duration"` // actual wall clock time
	PerSession   map[string]SessionSummary `json:"per_session"`
}

// SessionSummary holds the final counters of one replayed session.
type SessionSummary struct {
	Events     int `json:"events"`
	Flushes    int `json:"flushes"`
	Clicks     int `json:"clicks"`
	Movements  int `json:"movements"`
	KeyLog     int `json:"key_log"`
	TotalTime  int `json:"total_time"`
	TimeOnPage int `json:"time_on_page"`
}

// New creates a new replayer. opts is the template for every session's
// recorder; its Clock and OnFlush are replaced.
func New(vc *clock.VirtualClock, speed float64, filter *Filter, opts behavior.Options) *Replayer {
	if speed < 0 {
		speed = 0
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Replayer{
		clock:  vc,
		speed:  speed,
		filter: filter,
		opts:   opts,
		logger: logger,
	}
}

// RegisterSelectors adds elements to every replayed page so custom
// events addressed to them are delivered.
func (r *Replayer) RegisterSelectors(selectors ...string) {
	r.selectors = append(r.selectors, selectors...)
}

// Load reads entries from a JSON array.
func (r *Replayer) Load(reader io.Reader) error {
	entries, err := eventlog.LoadJSON(reader)
	if err != nil {
		return fmt.Errorf("loading entries: %w", err)
	}
	r.entries = entries
	return nil
}

// LoadEntries sets the entries directly.
func (r *Replayer) LoadEntries(entries []eventlog.Entry) {
	r.entries = slices.Clone(entries)
}

type replaySession struct {
	page     *dom.Page
	recorder *behavior.Recorder
	events   int
}

// Run replays all loaded entries. Each session gets its own page and
// recorder, started at the session's first entry and stopped when the
// replay ends. cb receives every flush, serialized.
func (r *Replayer) Run(ctx context.Context, cb func(FlushResult)) (*Summary, error) {
	if len(r.entries) == 0 {
		return nil, fmt.Errorf("no entries loaded")
	}

	sorted := slices.Clone(r.entries)
	slices.SortStableFunc(sorted, func(a, b eventlog.Entry) int {
		return cmp.Compare(a.Message.TS, b.Message.TS)
	})

	var filtered []eventlog.Entry
	for _, e := range sorted {
		if r.filter.Match(e) {
			filtered = append(filtered, e)
		}
	}

	summary := &Summary{
		TotalEntries: len(sorted),
		Filtered:     len(filtered),
		PerSession:   make(map[string]SessionSummary),
	}
	if len(filtered) == 0 {
		return summary, nil
	}

	var (
		flushMu   sync.Mutex
		perFlush  = make(map[string]int)
		sessions  = make(map[string]*replaySession)
		order     []string
		wallStart = time.Now()
	)

	onFlush := func(id string) behavior.FlushFunc {
		return func(res behavior.Results) error {
			flushMu.Lock()
			defer flushMu.Unlock()
			summary.Flushes++
			perFlush[id]++
			if cb != nil {
				cb(FlushResult{SessionID: id, Time: r.clock.Now(), Results: res})
			}
			return nil
		}
	}

	defer func() {
		for _, id := range order {
			sessions[id].recorder.Stop()
		}
	}()

	if base := filtered[0].Time(); !base.IsZero() && base.After(r.clock.Now()) {
		r.clock.Set(base)
	}
	startTime := r.clock.Now()

	var prev time.Time
	for i, e := range filtered {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		if ts := e.Time(); !ts.IsZero() {
			if i > 0 && r.speed > 0 && !prev.IsZero() {
				// Sleep for scaled wall-clock time for visual effect.
				if scaled := time.Duration(float64(ts.Sub(prev)) / r.speed); scaled > time.Millisecond {
					select {
					case <-ctx.Done():
						return summary, ctx.Err()
					case <-time.After(scaled):
					}
				}
			}
			r.advanceTo(ts, len(sessions))
			prev = ts
		}

		if err := e.Message.Validate(); err != nil {
			r.logger.Debug("skipping invalid entry", "session", e.SessionID, "error", err)
			summary.Skipped++
			continue
		}

		s, ok := sessions[e.SessionID]
		if !ok {
			s = r.openSession(e, onFlush(e.SessionID))
			sessions[e.SessionID] = s
			order = append(order, e.SessionID)
			r.clock.BlockUntil(len(sessions))
		}

		switch e.Message.Type {
		case dom.MessageHello:
		case dom.MessageFlush:
			if err := s.recorder.Flush(); err != nil {
				return summary, fmt.Errorf("flushing session %s: %w", e.SessionID, err)
			}
		default:
			if !s.page.Apply(e.Message) {
				summary.Skipped++
				continue
			}
		}
		s.events++
		summary.Replayed++
	}

	summary.Duration = r.clock.Now().Sub(startTime)
	summary.WallDuration = time.Since(wallStart)
	summary.Sessions = len(sessions)

	for _, id := range order {
		s := sessions[id]
		s.recorder.Stop()
		res := s.recorder.Snapshot()
		flushMu.Lock()
		flushes := perFlush[id]
		flushMu.Unlock()
		summary.PerSession[id] = SessionSummary{
			Events:     s.events,
			Flushes:    flushes,
			Clicks:     res.Clicks.ClickCount,
			Movements:  len(res.MouseMovements),
			KeyLog:     len(res.KeyLogger),
			TotalTime:  res.Time.TotalTime,
			TimeOnPage: res.Time.TimeOnPage,
		}
	}
	return summary, nil
}

func (r *Replayer) openSession(first eventlog.Entry, onFlush behavior.FlushFunc) *replaySession {
	var nav dom.Navigator
	if first.Message.Type == dom.MessageHello && first.Message.Navigator != nil {
		nav = *first.Message.Navigator
	}
	page := dom.NewPage(nav)
	for _, sel := range r.selectors {
		page.Register(sel)
	}
	if trig := r.opts.ActionTrigger; trig != nil && trig.Enabled && trig.Selector != "" {
		page.Register(trig.Selector)
	}

	opts := r.opts
	opts.Clock = r.clock
	opts.Logger = r.logger.With("session", first.SessionID)
	opts.OnFlush = onFlush

	rec := behavior.New(page, opts)
	// A fresh recorder with a document always starts.
	_ = rec.Start()
	return &replaySession{page: page, recorder: rec}
}

// advanceTo moves the shared clock to t one pending deadline at a time.
// After each step it waits until all running recorders have re-armed,
// so every tick up to t is processed in order.
func (r *Replayer) advanceTo(t time.Time, running int) {
	for {
		next, ok := r.clock.NextDeadline()
		if !ok || next.After(t) {
			break
		}
		r.clock.Set(next)
		r.clock.BlockUntil(running)
	}
	if t.After(r.clock.Now()) {
		r.clock.Set(t)
	}
}
