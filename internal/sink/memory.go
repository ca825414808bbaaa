package sink

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/SmitUplenchwar2687/Trailmark/internal/behavior"
	"github.com/SmitUplenchwar2687/Trailmark/internal/clock"
)

// MemorySink keeps the latest snapshot of each session in a map.
// It stamps snapshots with a Clock, enabling virtual-time testing.
type MemorySink struct {
	mu    sync.RWMutex
	snaps map[string]Snapshot
	clock clock.Clock
}

// NewMemorySink creates an in-memory sink using the given clock.
func NewMemorySink(c clock.Clock) *MemorySink {
	return &MemorySink{
		snaps: make(map[string]Snapshot),
		clock: c,
	}
}

func (s *MemorySink) Save(_ context.Context, sessionID string, results behavior.Results) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snaps[sessionID] = Snapshot{
		SessionID: sessionID,
		SavedAt:   s.clock.Now().UnixMilli(),
		Results:   results.Clone(),
	}
	return nil
}

func (s *MemorySink) Latest(_ context.Context, sessionID string) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snaps[sessionID]
	if !ok {
		return nil, nil
	}
	snap.Results = snap.Results.Clone()
	return &snap, nil
}

func (s *MemorySink) List(_ context.Context) ([]Snapshot, error) {
	s.mu.RLock()
	out := make([]Snapshot, 0, len(s.snaps))
	for _, snap := range s.snaps {
		snap.Results = snap.Results.Clone()
		out = append(out, snap)
	}
	s.mu.RUnlock()

	sortSnapshots(out)
	return out, nil
}

func (s *MemorySink) Close() error { return nil }

func sortSnapshots(snaps []Snapshot) {
	slices.SortFunc(snaps, func(a, b Snapshot) int {
		if c := cmp.Compare(a.SavedAt, b.SavedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.SessionID, b.SessionID)
	})
}
