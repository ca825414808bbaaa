// Package generate produces synthetic page-session event logs for replay
// and load testing.
package generate

import (
	"cmp"
	"fmt"
	"math/rand"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/SmitUplenchwar2687/Trailmark/internal/dom"
	"github.com/SmitUplenchwar2687/Trailmark/internal/eventlog"
)

const (
	// PatternSteady spreads interactions evenly over the duration.
	PatternSteady = "steady"
	// PatternBurst clusters interactions into short bursts.
	PatternBurst = "burst"
	// PatternIdle clusters interactions into bursts and hides the page
	// between them.
	PatternIdle = "idle"
)

const numBursts = 4

// Navigators is the pool of browser identities sessions are drawn from.
var Navigators = []dom.Navigator{
	{AppCodeName: "Mozilla", AppName: "Netscape", Vendor: "Google Inc.", Platform: "MacIntel",
		UserAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36"},
	{AppCodeName: "Mozilla", AppName: "Netscape", Vendor: "", Platform: "Win32",
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:127.0) Gecko/20100101 Firefox/127.0"},
	{AppCodeName: "Mozilla", AppName: "Netscape", Vendor: "Apple Computer, Inc.", Platform: "iPhone",
		UserAgent: "Mozilla/5.0 (iPhone; CPU iPhone OS 17_5 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.5 Mobile/15E148 Safari/604.1"},
}

var (
	targets    = []string{"BUTTON", "DIV", "INPUT", "A", "TEXTAREA", "H2"}
	pasteTexts = []string{"hello", "jane@example.com", "iPhone 15 Pro", "+1 555 0100"}
)

// Options controls how synthetic sessions are generated.
type Options struct {
	Count    int // interaction events across all sessions
	Sessions int
	Duration time.Duration
	Pattern  string
	Start    time.Time
	Seed     int64
}

// DefaultOptions returns defaults aligned with the CLI.
func DefaultOptions() Options {
	return Options{
		Count:    200,
		Sessions: 3,
		Duration: 2 * time.Minute,
		Pattern:  PatternSteady,
	}
}

// GenerateEvents creates a synthetic event log. Every session opens with a
// hello message; Count interaction events (mouse, key and paste) follow,
// plus visibility transitions for the idle pattern. Entries are ordered by
// timestamp.
func GenerateEvents(opts Options) ([]eventlog.Entry, error) {
	if opts.Count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", opts.Count)
	}
	if opts.Sessions <= 0 {
		return nil, fmt.Errorf("sessions must be positive, got %d", opts.Sessions)
	}
	if opts.Duration <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %s", opts.Duration)
	}

	if opts.Pattern == "" {
		opts.Pattern = PatternSteady
	}
	if opts.Start.IsZero() {
		opts.Start = time.Now().Truncate(time.Second)
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	g := &generator{rng: rng, start: opts.Start, dur: opts.Duration}
	ids := g.sessionIDs(opts.Sessions)

	entries := make([]eventlog.Entry, 0, opts.Count+opts.Sessions)
	for i, id := range ids {
		nav := Navigators[i%len(Navigators)]
		entries = append(entries, eventlog.Entry{
			SessionID: id,
			Message:   dom.Message{Type: dom.MessageHello, TS: opts.Start.UnixMilli(), Navigator: &nav},
		})
	}

	var offsets []time.Duration
	switch opts.Pattern {
	case PatternBurst, PatternIdle:
		offsets = g.burstOffsets(opts.Count)
	default: // steady and unknown patterns default to steady behavior.
		offsets = g.steadyOffsets(opts.Count)
	}
	for _, off := range offsets {
		id := ids[rng.Intn(len(ids))]
		entries = append(entries, eventlog.Entry{SessionID: id, Message: g.interaction(opts.Start.Add(off))})
	}

	if opts.Pattern == PatternIdle {
		entries = append(entries, g.idleTransitions(ids)...)
	}

	slices.SortStableFunc(entries, func(a, b eventlog.Entry) int {
		return cmp.Compare(a.Message.TS, b.Message.TS)
	})
	return entries, nil
}

type generator struct {
	rng   *rand.Rand
	start time.Time
	dur   time.Duration
}

// sessionIDs derives UUIDs from the seeded source so output is reproducible.
func (g *generator) sessionIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		id, err := uuid.NewRandomFromReader(g.rng)
		if err != nil {
			id = uuid.New()
		}
		ids[i] = id.String()
	}
	return ids
}

// Offsets start 1ms after Start so hellos always come first.
func (g *generator) steadyOffsets(count int) []time.Duration {
	interval := g.dur / time.Duration(count)
	out := make([]time.Duration, count)
	for i := range out {
		out[i] = time.Millisecond + time.Duration(i)*interval
	}
	return out
}

func (g *generator) burstOffsets(count int) []time.Duration {
	gap := g.dur / numBursts
	out := make([]time.Duration, 0, count)
	for i := 0; i < count; i++ {
		b := i % numBursts
		within := time.Duration(1+g.rng.Intn(999)) * time.Millisecond
		out = append(out, time.Duration(b)*gap+within)
	}
	return out
}

// idleTransitions hides every session two seconds after each burst and
// shows it again just before the next one.
func (g *generator) idleTransitions(ids []string) []eventlog.Entry {
	gap := g.dur / numBursts
	var out []eventlog.Entry
	for b := 0; b < numBursts-1; b++ {
		hideAt := g.start.Add(time.Duration(b)*gap + 2*time.Second)
		showAt := g.start.Add(time.Duration(b+1)*gap - time.Millisecond)
		if !showAt.After(hideAt) {
			continue
		}
		for _, id := range ids {
			out = append(out,
				eventlog.Entry{SessionID: id, Message: dom.Message{
					Type: string(dom.EventVisibilityChange), TS: hideAt.UnixMilli(), State: string(dom.Hidden),
				}},
				eventlog.Entry{SessionID: id, Message: dom.Message{
					Type: string(dom.EventVisibilityChange), TS: showAt.UnixMilli(), State: string(dom.Visible),
				}},
			)
		}
	}
	return out
}

func (g *generator) interaction(at time.Time) dom.Message {
	m := dom.Message{TS: at.UnixMilli()}
	switch roll := g.rng.Intn(100); {
	case roll < 60:
		m.Type = string(dom.EventMouseMove)
		m.X, m.Y = g.point()
	case roll < 80:
		m.Type = string(dom.EventMouseUp)
		m.X, m.Y = g.point()
		m.Target = targets[g.rng.Intn(len(targets))]
	case roll < 96:
		m.Type = string(dom.EventKeyUp)
		m.KeyCode = 'A' + g.rng.Intn(26)
		m.Key = string(rune(m.KeyCode))
	default:
		m.Type = string(dom.EventPaste)
		m.Text = pasteTexts[g.rng.Intn(len(pasteTexts))]
	}
	return m
}

func (g *generator) point() (float64, float64) {
	return float64(g.rng.Intn(1280)), float64(g.rng.Intn(800))
}
