package behavior

import (
	"github.com/SmitUplenchwar2687/Trailmark/internal/dom"
)

// mutate applies fn to the aggregate while the recorder is running.
func (r *Recorder) mutate(fn func(res *Results)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateRunning {
		return
	}
	fn(&r.results)
}

func (r *Recorder) stamp(ev dom.Event) int64 {
	if ev.Timestamp.IsZero() {
		return r.clock.Now().UnixMilli()
	}
	return ev.Timestamp.UnixMilli()
}

func (r *Recorder) handleMouseUp(ev dom.Event) {
	if !r.opts.TrackClickCount && !r.opts.TrackClickDetails {
		return
	}
	ts := r.stamp(ev)
	r.mutate(func(res *Results) {
		if r.opts.TrackClickCount {
			res.Clicks.ClickCount++
		}
		if r.opts.TrackClickDetails {
			res.Clicks.ClickDetails = append(res.Clicks.ClickDetails, ClickDetail{
				Timestamp: ts,
				Node:      ev.Target,
				X:         ev.X,
				Y:         ev.Y,
			})
		}
	})
}

func (r *Recorder) handleMouseMove(ev dom.Event) {
	if !r.opts.TrackMouseMovement {
		return
	}
	ts := r.stamp(ev)
	r.mutate(func(res *Results) {
		res.MouseMovements = append(res.MouseMovements, MouseMovement{Timestamp: ts, X: ev.X, Y: ev.Y})
		if limit := r.opts.MaxMouseMovements; limit > 0 && len(res.MouseMovements) > limit {
			drop := len(res.MouseMovements) - limit
			res.MouseMovements = append(res.MouseMovements[:0], res.MouseMovements[drop:]...)
		}
	})
}

func (r *Recorder) handleVisibilityChange(ev dom.Event) {
	if !r.opts.TrackVisibility {
		return
	}
	state := ev.Visibility
	if state == "" {
		state = r.doc.VisibilityState()
	}
	ts := r.stamp(ev)
	r.mutate(func(res *Results) {
		res.ContextChange = append(res.ContextChange, ContextChange{Timestamp: ts, Type: string(state)})
	})
}

// handlePaste ignores pastes without text/plain content.
func (r *Recorder) handlePaste(ev dom.Event) {
	if !r.opts.TrackKeyLog || ev.ClipboardText == "" {
		return
	}
	ts := r.stamp(ev)
	r.mutate(func(res *Results) {
		res.KeyLogger = append(res.KeyLogger, KeyLogEntry{Timestamp: ts, Data: ev.ClipboardText, Type: KindPaste})
	})
}

func (r *Recorder) handleKeyUp(ev dom.Event) {
	if !r.opts.TrackKeyLog {
		return
	}
	ts := r.stamp(ev)
	data := decodeKey(ev)
	r.mutate(func(res *Results) {
		res.KeyLogger = append(res.KeyLogger, KeyLogEntry{Timestamp: ts, Data: data, Type: KindKeypress})
	})
}

func (r *Recorder) handleAction(dom.Event) {
	if err := r.Flush(); err != nil {
		r.logger.Warn("action flush failed", "selector", r.opts.ActionTrigger.Selector, "error", err)
	}
}

// decodeKey turns a key code into its character the way
// String.fromCharCode does; events without a code fall back to Key.
func decodeKey(ev dom.Event) string {
	if ev.KeyCode > 0 {
		return string(rune(ev.KeyCode))
	}
	return ev.Key
}
