package sink

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/SmitUplenchwar2687/Trailmark/internal/behavior"
	"github.com/SmitUplenchwar2687/Trailmark/internal/clock"
)

var epoch = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

type sinkFactory struct {
	name string
	new  func(t *testing.T, clk clock.Clock) (Sink, func())
}

func TestSinkContract(t *testing.T) {
	factories := []sinkFactory{
		{
			name: "memory",
			new: func(t *testing.T, clk clock.Clock) (Sink, func()) {
				s := NewMemorySink(clk)
				return s, func() { _ = s.Close() }
			},
		},
		{
			name: "sqlite",
			new: func(t *testing.T, clk clock.Clock) (Sink, func()) {
				t.Helper()
				s, err := NewSQLiteSink(filepath.Join(t.TempDir(), "snaps.db"), clk)
				if err != nil {
					t.Fatalf("NewSQLiteSink() error = %v", err)
				}
				return s, func() { _ = s.Close() }
			},
		},
		{
			name: "redis",
			new: func(t *testing.T, clk clock.Clock) (Sink, func()) {
				t.Helper()
				return newRedisSinkForTest(t, clk, 0)
			},
		},
	}

	for _, f := range factories {
		t.Run(f.name, func(t *testing.T) {
			clk := clock.NewVirtualClock(epoch)
			s, cleanup := f.new(t, clk)
			defer cleanup()

			contractMissing(t, s)
			contractLatestWins(t, s, clk)
			contractListOrder(t, s, clk)
		})
	}
}

func sampleResults(clicks int) behavior.Results {
	r := behavior.NewResults()
	r.UserInfo.UserAgent = "Mozilla/5.0 (test)"
	r.Time = behavior.TimeTracking{TotalTime: 10, TimeOnPage: 8}
	for i := 0; i < clicks; i++ {
		r.Clicks.ClickCount++
		r.Clicks.ClickDetails = append(r.Clicks.ClickDetails, behavior.ClickDetail{
			Timestamp: epoch.UnixMilli() + int64(i),
			Node:      "BUTTON",
			X:         float64(i * 10),
			Y:         float64(i * 10),
		})
	}
	r.KeyLogger = append(r.KeyLogger, behavior.KeyLogEntry{Timestamp: epoch.UnixMilli(), Data: "hello", Type: behavior.KindPaste})
	return r
}

func contractMissing(t *testing.T, s Sink) {
	t.Helper()
	snap, err := s.Latest(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if snap != nil {
		t.Fatalf("Latest(unknown) = %+v, want nil", snap)
	}
}

func contractLatestWins(t *testing.T, s Sink, clk *clock.VirtualClock) {
	t.Helper()
	ctx := context.Background()

	if err := s.Save(ctx, "s-latest", sampleResults(1)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	clk.Advance(time.Second)
	if err := s.Save(ctx, "s-latest", sampleResults(3)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	snap, err := s.Latest(ctx, "s-latest")
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if snap == nil {
		t.Fatal("Latest() = nil after Save")
	}
	if snap.SessionID != "s-latest" {
		t.Errorf("session = %q, want s-latest", snap.SessionID)
	}
	if snap.SavedAt != clk.Now().UnixMilli() {
		t.Errorf("savedAt = %d, want %d", snap.SavedAt, clk.Now().UnixMilli())
	}
	r := snap.Results
	if r.Clicks.ClickCount != 3 || len(r.Clicks.ClickDetails) != 3 {
		t.Errorf("clicks = %d/%d, want 3/3", r.Clicks.ClickCount, len(r.Clicks.ClickDetails))
	}
	if r.Clicks.ClickDetails[2].X != 20 {
		t.Errorf("third click x = %v, want 20", r.Clicks.ClickDetails[2].X)
	}
	if r.UserInfo.UserAgent != "Mozilla/5.0 (test)" {
		t.Errorf("userAgent = %q", r.UserInfo.UserAgent)
	}
	if r.Time.TimeOnPage != 8 {
		t.Errorf("timeOnPage = %d, want 8", r.Time.TimeOnPage)
	}
	if len(r.KeyLogger) != 1 || r.KeyLogger[0].Data != "hello" {
		t.Errorf("keyLogger = %+v", r.KeyLogger)
	}
}

func contractListOrder(t *testing.T, s Sink, clk *clock.VirtualClock) {
	t.Helper()
	ctx := context.Background()

	clk.Advance(time.Second)
	if err := s.Save(ctx, "s-b", sampleResults(2)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	clk.Advance(time.Second)
	if err := s.Save(ctx, "s-a", sampleResults(1)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	want := []string{"s-latest", "s-b", "s-a"}
	if len(list) != len(want) {
		t.Fatalf("List() returned %d snapshots, want %d", len(list), len(want))
	}
	for i, id := range want {
		if list[i].SessionID != id {
			t.Errorf("list[%d] = %q, want %q", i, list[i].SessionID, id)
		}
	}
	if list[1].Results.Clicks.ClickCount != 2 {
		t.Errorf("s-b clicks = %d, want 2", list[1].Results.Clicks.ClickCount)
	}
}
