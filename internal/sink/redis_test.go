package sink

import (
	"context"
	"testing"
	"time"

	"github.com/SmitUplenchwar2687/Trailmark/internal/clock"
	"github.com/SmitUplenchwar2687/Trailmark/internal/config"
)

func TestRedisSink_ExpiredSessionsPruned(t *testing.T) {
	s, cleanup := newRedisSinkForTest(t, clock.NewRealClock(), time.Second)
	defer cleanup()

	ctx := context.Background()
	if err := s.Save(ctx, "short-lived", sampleResults(1)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if snap, _ := s.Latest(ctx, "short-lived"); snap == nil {
		t.Fatal("snapshot should exist before ttl")
	}

	time.Sleep(1500 * time.Millisecond)

	snap, err := s.Latest(ctx, "short-lived")
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if snap != nil {
		t.Fatal("snapshot should expire after ttl")
	}
	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("List() = %d entries, want 0", len(list))
	}
	if n := s.client.ZCard(ctx, redisSessionIndex).Val(); n != 0 {
		t.Errorf("session index size = %d, want 0 after pruning", n)
	}
}

func TestRedisSink_CloseIdempotent(t *testing.T) {
	s, cleanup := newRedisSinkForTest(t, clock.NewRealClock(), 0)
	defer cleanup()

	if err := s.Close(); err != nil {
		t.Fatalf("first Close() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
}

func TestNewRedisSink_Unreachable(t *testing.T) {
	_, err := NewRedisSink(&config.RedisConfig{
		Host:        "127.0.0.1",
		Port:        1,
		MaxRetries:  1,
		DialTimeout: 100 * time.Millisecond,
	}, clock.NewRealClock())
	if err == nil {
		t.Fatal("expected ping failure for unreachable redis")
	}
}
