package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/SmitUplenchwar2687/Trailmark/internal/config"
	"github.com/SmitUplenchwar2687/Trailmark/internal/dom"
	"github.com/SmitUplenchwar2687/Trailmark/internal/eventlog"
)

func TestGenerateEventsCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")

	out, err := runCmd(t, "generate", "events", "--output", path,
		"--count", "40", "--sessions", "2", "--duration", "1m", "--seed", "7")
	if err != nil {
		t.Fatalf("generate events failed: %v", err)
	}
	if !strings.Contains(out, "Seed:     7") {
		t.Errorf("output missing seed:\n%s", out)
	}

	entries, err := eventlog.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	// One hello per session plus the interactions.
	if len(entries) != 42 {
		t.Fatalf("entries = %d, want 42", len(entries))
	}

	hellos := 0
	for _, e := range entries {
		if e.Message.Type == dom.MessageHello {
			hellos++
		}
	}
	if hellos != 2 {
		t.Errorf("hellos = %d, want 2", hellos)
	}
}

func TestGenerateEventsCmd_ReplaysCleanly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	if _, err := runCmd(t, "generate", "events", "--output", path, "--count", "30", "--seed", "1"); err != nil {
		t.Fatalf("generate events failed: %v", err)
	}

	out, err := runCmd(t, "replay", "--file", path)
	if err != nil {
		t.Fatalf("replay of generated file failed: %v", err)
	}
	if !strings.Contains(out, "Skipped:        0") {
		t.Errorf("generated entries were skipped:\n%s", out)
	}
}

func TestGenerateEventsCmd_BadCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	if _, err := runCmd(t, "generate", "events", "--output", path, "--count", "0"); err == nil {
		t.Fatal("expected error for zero count")
	}
}

func TestGenerateConfigCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trailmark.yaml")

	if _, err := runCmd(t, "generate", "config", "--output", path); err != nil {
		t.Fatalf("generate config failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not written: %v", err)
	}

	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("generated config invalid: %v", err)
	}
}
