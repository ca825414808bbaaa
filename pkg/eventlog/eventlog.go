package eventlog

import (
	"io"

	internaleventlog "github.com/SmitUplenchwar2687/Trailmark/internal/eventlog"
)

// Entry is one message received from a page session.
type Entry = internaleventlog.Entry

// Log captures page messages for later replay.
type Log = internaleventlog.Log

// New creates a new Log. When w is non-nil every entry is also streamed to
// it as newline-delimited JSON.
func New(w io.Writer) *Log {
	return internaleventlog.New(w)
}

// LoadJSON reads entries from a JSON array.
func LoadJSON(r io.Reader) ([]Entry, error) {
	return internaleventlog.LoadJSON(r)
}

// LoadNDJSON reads newline-delimited entries.
func LoadNDJSON(r io.Reader) ([]Entry, error) {
	return internaleventlog.LoadNDJSON(r)
}

// LoadFile reads a JSON array or NDJSON file.
func LoadFile(path string) ([]Entry, error) {
	return internaleventlog.LoadFile(path)
}
