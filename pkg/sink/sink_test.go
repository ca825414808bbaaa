package sink

import (
	"context"
	"testing"
	"time"

	"github.com/SmitUplenchwar2687/Trailmark/pkg/behavior"
	"github.com/SmitUplenchwar2687/Trailmark/pkg/clock"
)

func TestMemorySinkThroughConsumer(t *testing.T) {
	vc := clock.NewVirtualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	s := NewMemorySink(vc)
	defer s.Close()

	res := behavior.NewResults()
	res.Clicks.ClickCount = 2
	if err := Consumer(s, "s1")(res); err != nil {
		t.Fatalf("consumer error = %v", err)
	}

	snap, err := s.Latest(context.Background(), "s1")
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if snap == nil || snap.Results.Clicks.ClickCount != 2 {
		t.Fatalf("Latest() = %+v, want 2 clicks", snap)
	}
	if snap.SavedAt != vc.Now().UnixMilli() {
		t.Fatalf("SavedAt = %d, want %d", snap.SavedAt, vc.Now().UnixMilli())
	}
}
