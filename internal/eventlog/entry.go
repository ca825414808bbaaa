package eventlog

import (
	"time"

	"github.com/SmitUplenchwar2687/Trailmark/internal/dom"
)

// Entry is one message received from a page session.
type Entry struct {
	SessionID string      `json:"session"`
	Message   dom.Message `json:"message"`
}

// Time returns the message timestamp.
func (e Entry) Time() time.Time {
	return e.Message.Time()
}
