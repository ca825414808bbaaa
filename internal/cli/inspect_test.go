package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/SmitUplenchwar2687/Trailmark/internal/behavior"
	"github.com/SmitUplenchwar2687/Trailmark/internal/clock"
	"github.com/SmitUplenchwar2687/Trailmark/internal/sink"
)

func seedSQLite(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "trailmark.db")
	vc := clock.NewVirtualClock(time.Now().Add(-time.Hour))
	s, err := sink.NewSQLiteSink(path, vc)
	if err != nil {
		t.Fatalf("NewSQLiteSink() error = %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	first := behavior.NewResults()
	first.Clicks.ClickCount = 1
	if err := s.Save(ctx, "session-a", first); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	vc.Advance(time.Minute)
	latest := behavior.NewResults()
	latest.Clicks.ClickCount = 4
	latest.Time = behavior.TimeTracking{TotalTime: 30, TimeOnPage: 25}
	if err := s.Save(ctx, "session-a", latest); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := s.Save(ctx, "session-b", behavior.NewResults()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	return path
}

func TestInspectCmd_ListJSON(t *testing.T) {
	path := seedSQLite(t)

	out, err := runCmd(t, "inspect", "--sink", "sqlite", "--sqlite-path", path, "--json")
	if err != nil {
		t.Fatalf("inspect failed: %v", err)
	}

	var snaps []sink.Snapshot
	if err := json.Unmarshal([]byte(out), &snaps); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, out)
	}
	if len(snaps) != 2 {
		t.Fatalf("snapshots = %d, want 2", len(snaps))
	}
	for _, s := range snaps {
		if s.SessionID == "session-a" && s.Results.Clicks.ClickCount != 4 {
			t.Errorf("session-a ClickCount = %d, want latest value 4", s.Results.Clicks.ClickCount)
		}
	}
}

func TestInspectCmd_Table(t *testing.T) {
	path := seedSQLite(t)

	out, err := runCmd(t, "inspect", "--sink", "sqlite", "--sqlite-path", path)
	if err != nil {
		t.Fatalf("inspect failed: %v", err)
	}
	for _, want := range []string{"SESSION", "session-a", "session-b", "ago", "2 sessions"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestInspectCmd_Session(t *testing.T) {
	path := seedSQLite(t)

	out, err := runCmd(t, "inspect", "--sink", "sqlite", "--sqlite-path", path, "--session", "session-a")
	if err != nil {
		t.Fatalf("inspect failed: %v", err)
	}

	var snap sink.Snapshot
	if err := json.Unmarshal([]byte(out), &snap); err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if snap.Results.Time.TimeOnPage != 25 {
		t.Errorf("TimeOnPage = %d, want 25", snap.Results.Time.TimeOnPage)
	}
}

func TestInspectCmd_UnknownSession(t *testing.T) {
	path := seedSQLite(t)

	if _, err := runCmd(t, "inspect", "--sink", "sqlite", "--sqlite-path", path, "--session", "nope"); err == nil {
		t.Fatal("expected error for unknown session")
	}
}

func TestInspectCmd_EmptyMemorySink(t *testing.T) {
	out, err := runCmd(t, "inspect")
	if err != nil {
		t.Fatalf("inspect failed: %v", err)
	}
	if !strings.Contains(out, "No snapshots stored.") {
		t.Errorf("output = %q, want empty notice", out)
	}
}

func TestInspectCmd_UnknownBackend(t *testing.T) {
	if _, err := runCmd(t, "inspect", "--sink", "postgres"); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
