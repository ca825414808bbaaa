package sink

import (
	"log/slog"

	"github.com/SmitUplenchwar2687/Trailmark/internal/behavior"
	"github.com/SmitUplenchwar2687/Trailmark/internal/config"
	internalsink "github.com/SmitUplenchwar2687/Trailmark/internal/sink"
	"github.com/SmitUplenchwar2687/Trailmark/pkg/clock"
)

// Sink stores flushed session snapshots.
type Sink = internalsink.Sink

// Snapshot is one stored flush.
type Snapshot = internalsink.Snapshot

// MemorySink keeps the latest snapshot per session in memory.
type MemorySink = internalsink.MemorySink

// SQLiteSink persists every snapshot to a SQLite database.
type SQLiteSink = internalsink.SQLiteSink

// RedisSink keeps the latest snapshot per session in Redis.
type RedisSink = internalsink.RedisSink

// New creates the sink selected by cfg.Backend.
func New(cfg config.SinkConfig, clk clock.Clock) (Sink, error) {
	return internalsink.New(cfg, clk)
}

// NewMemorySink creates an in-memory sink.
func NewMemorySink(clk clock.Clock) *MemorySink {
	return internalsink.NewMemorySink(clk)
}

// NewSQLiteSink opens (or creates) a SQLite sink at path.
func NewSQLiteSink(path string, clk clock.Clock) (*SQLiteSink, error) {
	return internalsink.NewSQLiteSink(path, clk)
}

// NewRedisSink connects a Redis sink.
func NewRedisSink(cfg *config.RedisConfig, clk clock.Clock) (*RedisSink, error) {
	return internalsink.NewRedisSink(cfg, clk)
}

// Consumer returns a flush callback that saves snapshots for sessionID.
func Consumer(s Sink, sessionID string) behavior.FlushFunc {
	return internalsink.Consumer(s, sessionID)
}

// LoggingConsumer logs every flush before handing it to next.
func LoggingConsumer(logger *slog.Logger, sessionID string, next behavior.FlushFunc) behavior.FlushFunc {
	return internalsink.LoggingConsumer(logger, sessionID, next)
}
