// Package eventlog captures raw page messages for export and later replay.
package eventlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
)

// Log captures session messages in arrival order.
// Thread-safe for concurrent use.
type Log struct {
	mu      sync.Mutex
	entries []Entry
	writer  io.Writer // optional: stream entries as they arrive
}

// New creates a new Log. If w is non-nil, entries are also written to w
// as newline-delimited JSON as they arrive.
func New(w io.Writer) *Log {
	return &Log{writer: w}
}

// Record captures a single entry.
func (l *Log) Record(e Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, e)

	if l.writer != nil {
		if err := json.NewEncoder(l.writer).Encode(e); err != nil {
			return fmt.Errorf("streaming entry: %w", err)
		}
	}
	return nil
}

// Entries returns a copy of all recorded entries.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of recorded entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// ExportJSON writes all entries to w as a JSON array.
func (l *Log) ExportJSON(w io.Writer) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := l.entries
	if entries == nil {
		entries = []Entry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

// ExportFile writes all entries to a file as a JSON array.
func (l *Log) ExportFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := l.ExportJSON(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadJSON reads entries from a JSON array.
func LoadJSON(r io.Reader) ([]Entry, error) {
	var entries []Entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// LoadNDJSON reads newline-delimited entries, as streamed by Record.
// Blank lines are skipped.
func LoadNDJSON(r io.Reader) ([]Entry, error) {
	var entries []Entry
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		b := sc.Bytes()
		if len(b) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(b, &e); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// LoadFile reads entries from path, accepting either a JSON array or
// newline-delimited JSON.
func LoadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	br := bufio.NewReader(f)
	first, err := firstNonSpace(br)
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if first == '[' {
		return LoadJSON(br)
	}
	return LoadNDJSON(br)
}

func firstNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b, br.UnreadByte()
	}
}
