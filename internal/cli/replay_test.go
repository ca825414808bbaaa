package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/SmitUplenchwar2687/Trailmark/internal/replay"
)

type replayOutput struct {
	Flushes []replay.FlushResult `json:"flushes"`
	Summary replay.Summary       `json:"summary"`
}

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestReplayCmd_JSON(t *testing.T) {
	path := writeReplayFixture(t)

	out, err := runCmd(t, "replay", "--file", path, "--flush-interval", "5", "--json")
	if err != nil {
		t.Fatalf("replay command failed: %v", err)
	}

	var got replayOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, out)
	}
	if got.Summary.Replayed != 4 {
		t.Errorf("Replayed = %d, want 4", got.Summary.Replayed)
	}
	if got.Summary.Sessions != 1 {
		t.Errorf("Sessions = %d, want 1", got.Summary.Sessions)
	}
	if len(got.Flushes) != 2 {
		t.Fatalf("flushes = %d, want 2", len(got.Flushes))
	}
	if n := got.Flushes[1].Results.Clicks.ClickCount; n != 2 {
		t.Errorf("ClickCount = %d, want 2", n)
	}
	if ua := got.Flushes[0].Results.UserInfo.UserAgent; ua != "fixture-agent" {
		t.Errorf("UserAgent = %q, want fixture-agent", ua)
	}
}

func TestReplayCmd_LoadsConfigFile(t *testing.T) {
	path := writeReplayFixture(t)
	configPath := filepath.Join(t.TempDir(), "trailmark.yaml")
	config := `recorder:
  track_click_count: true
  track_click_details: false
  flush_interval: 3
logging:
  level: warn
`
	if err := os.WriteFile(configPath, []byte(config), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	out, err := runCmd(t, "replay", "--file", path, "--config", configPath, "--json")
	if err != nil {
		t.Fatalf("replay command with config failed: %v", err)
	}

	var got replayOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	// Entries span 0s to 12s, so a 3s timer fires four times.
	if len(got.Flushes) != 4 {
		t.Fatalf("flushes = %d, want 4", len(got.Flushes))
	}
	// Details are disabled in the file.
	if d := got.Flushes[3].Results.Clicks.ClickDetails; len(d) != 0 {
		t.Errorf("ClickDetails = %v, want empty", d)
	}
}

func TestReplayCmd_TextSummary(t *testing.T) {
	path := writeReplayFixture(t)

	out, err := runCmd(t, "replay", "--file", path, "--flush-interval", "5")
	if err != nil {
		t.Fatalf("replay command failed: %v", err)
	}
	for _, want := range []string{"[FLUSH]", "--- Replay Summary ---", "Flushes:        2", "Per session:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestReplayCmd_SessionFilter(t *testing.T) {
	path := writeReplayFixture(t)

	out, err := runCmd(t, "replay", "--file", path, "--sessions", "other", "--json")
	if err != nil {
		t.Fatalf("replay command failed: %v", err)
	}
	var got replayOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if got.Summary.Filtered != 0 || len(got.Flushes) != 0 {
		t.Errorf("filtered = %d flushes = %d, want none", got.Summary.Filtered, len(got.Flushes))
	}
}

func TestReplayCmd_RequiresFile(t *testing.T) {
	if _, err := runCmd(t, "replay"); err == nil {
		t.Fatal("expected error without --file")
	}
}

func TestReplayCmd_MissingFile(t *testing.T) {
	if _, err := runCmd(t, "replay", "--file", filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestReplayCmd_BadConfig(t *testing.T) {
	path := writeReplayFixture(t)
	configPath := filepath.Join(t.TempDir(), "trailmark.yaml")
	if err := os.WriteFile(configPath, []byte("recorder:\n  flush_interval: -1\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := runCmd(t, "replay", "--file", path, "--config", configPath); err == nil {
		t.Fatal("expected validation error for negative flush interval")
	}
}

// writeReplayFixture writes one NDJSON session: a hello and three clicks
// over twelve seconds.
func writeReplayFixture(t *testing.T) string {
	t.Helper()

	events := `{"session":"s1","message":{"type":"hello","ts":1767225600000,"navigator":{"userAgent":"fixture-agent"}}}
{"session":"s1","message":{"type":"mouseup","ts":1767225601000,"x":10,"y":20,"target":"BUTTON"}}

{"session":"s1","message":{"type":"mouseup","ts":1767225602000,"x":30,"y":40,"target":"DIV"}}
{"session":"s1","message":{"type":"keyup","ts":1767225612000,"keyCode":65}}
`
	path := filepath.Join(t.TempDir(), "events.ndjson")
	if err := os.WriteFile(path, []byte(events), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}
