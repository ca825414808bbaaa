package dom

import (
	"errors"
	"fmt"
	"time"
)

// Control message types sent by the page bridge alongside DOM events.
const (
	MessageHello = "hello"
	MessageFlush = "flush"
)

// Message is the JSON form of a DOM event as sent by the page bridge and
// stored in event logs. TS is Unix milliseconds.
type Message struct {
	Type      string     `json:"type"`
	TS        int64      `json:"ts,omitempty"`
	X         float64    `json:"x,omitempty"`
	Y         float64    `json:"y,omitempty"`
	Target    string     `json:"target,omitempty"`
	KeyCode   int        `json:"keyCode,omitempty"`
	Key       string     `json:"key,omitempty"`
	Text      string     `json:"text,omitempty"`
	State     string     `json:"state,omitempty"`
	Selector  string     `json:"selector,omitempty"`
	Navigator *Navigator `json:"navigator,omitempty"`
}

var errEmptyType = errors.New("message type cannot be empty")

// Validate checks the fields the server relies on.
func (m Message) Validate() error {
	if m.Type == "" {
		return errEmptyType
	}
	if m.TS < 0 {
		return fmt.Errorf("timestamp must not be negative, got %d", m.TS)
	}
	if m.Type == string(EventVisibilityChange) && m.State != "" {
		switch Visibility(m.State) {
		case Visible, Hidden:
		default:
			return fmt.Errorf("invalid visibility state %q", m.State)
		}
	}
	return nil
}

// Time returns the message timestamp, or the zero time when unset.
func (m Message) Time() time.Time {
	if m.TS <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(m.TS)
}

// IsControl reports whether the message steers the session rather than
// carrying a DOM event.
func (m Message) IsControl() bool {
	return m.Type == MessageHello || m.Type == MessageFlush
}

// Event converts the message into a DOM event.
func (m Message) Event() Event {
	return Event{
		Type:          EventType(m.Type),
		Timestamp:     m.Time(),
		X:             m.X,
		Y:             m.Y,
		Target:        m.Target,
		KeyCode:       m.KeyCode,
		Key:           m.Key,
		ClipboardText: m.Text,
		Visibility:    Visibility(m.State),
	}
}

// MessageFromEvent is the inverse of Message.Event.
func MessageFromEvent(ev Event) Message {
	m := Message{
		Type:    string(ev.Type),
		X:       ev.X,
		Y:       ev.Y,
		Target:  ev.Target,
		KeyCode: ev.KeyCode,
		Key:     ev.Key,
		Text:    ev.ClipboardText,
		State:   string(ev.Visibility),
	}
	if !ev.Timestamp.IsZero() {
		m.TS = ev.Timestamp.UnixMilli()
	}
	return m
}

// Apply routes a DOM-event message into the page: custom events addressed
// with a selector go to that element, everything else to the document.
// Control messages are ignored. It reports whether the message was delivered.
func (p *Page) Apply(m Message) bool {
	if m.IsControl() {
		return false
	}
	ev := m.Event()
	if m.Selector != "" {
		return p.DispatchTo(m.Selector, ev)
	}
	p.Dispatch(ev)
	return true
}
