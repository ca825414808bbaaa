package behavior

import "github.com/SmitUplenchwar2687/Trailmark/internal/dom"

// Key log entry kinds.
const (
	KindPaste    = "paste"
	KindKeypress = "keypress"
)

// Results is the aggregate of everything a recorder has collected.
// Values handed out by a Recorder are deep copies.
type Results struct {
	UserInfo       Environment     `json:"userInfo"`
	Time           TimeTracking    `json:"time"`
	Clicks         Clicks          `json:"clicks"`
	MouseMovements []MouseMovement `json:"mouseMovements"`
	ContextChange  []ContextChange `json:"contextChange"`
	KeyLogger      []KeyLogEntry   `json:"keyLogger"`
}

// Environment is the browser identity captured once when recording starts.
type Environment = dom.Navigator

// TimeTracking holds elapsed seconds. TimeOnPage only advances while the
// page is visible, so TimeOnPage <= TotalTime.
type TimeTracking struct {
	TotalTime  int `json:"totalTime"`
	TimeOnPage int `json:"timeOnPage"`
}

// Clicks counts pointer releases and keeps their details.
type Clicks struct {
	ClickCount   int           `json:"clickCount"`
	ClickDetails []ClickDetail `json:"clickDetails"`
}

// ClickDetail is one pointer release. Timestamps are Unix milliseconds.
type ClickDetail struct {
	Timestamp int64   `json:"timestamp"`
	Node      string  `json:"node"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}

// MouseMovement is one pointer-move sample.
type MouseMovement struct {
	Timestamp int64   `json:"timestamp"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}

// ContextChange is one visibility transition; Type is "visible" or "hidden".
type ContextChange struct {
	Timestamp int64  `json:"timestamp"`
	Type      string `json:"type"`
}

// KeyLogEntry is a keypress (single decoded character) or a paste (full
// clipboard text).
type KeyLogEntry struct {
	Timestamp int64  `json:"timestamp"`
	Data      string `json:"data"`
	Type      string `json:"type"`
}

// NewResults returns an empty aggregate with non-nil sequences, so it
// serialises as [] rather than null.
func NewResults() Results {
	return Results{
		Clicks:         Clicks{ClickDetails: []ClickDetail{}},
		MouseMovements: []MouseMovement{},
		ContextChange:  []ContextChange{},
		KeyLogger:      []KeyLogEntry{},
	}
}

// Clone returns a deep copy of r.
func (r Results) Clone() Results {
	out := r
	out.Clicks.ClickDetails = cloneSlice(r.Clicks.ClickDetails)
	out.MouseMovements = cloneSlice(r.MouseMovements)
	out.ContextChange = cloneSlice(r.ContextChange)
	out.KeyLogger = cloneSlice(r.KeyLogger)
	return out
}

func cloneSlice[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}
