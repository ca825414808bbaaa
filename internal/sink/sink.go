// Package sink stores the snapshots produced by recorder flushes.
package sink

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SmitUplenchwar2687/Trailmark/internal/behavior"
	"github.com/SmitUplenchwar2687/Trailmark/internal/clock"
	"github.com/SmitUplenchwar2687/Trailmark/internal/config"
)

// Snapshot is one flushed aggregate for a session.
type Snapshot struct {
	SessionID string           `json:"sessionId"`
	SavedAt   int64            `json:"savedAt"` // unix milliseconds
	Results   behavior.Results `json:"results"`
}

// Sink persists flushed snapshots.
// Implementations must be safe for concurrent use.
type Sink interface {
	// Save stores results as the latest snapshot of sessionID.
	Save(ctx context.Context, sessionID string, results behavior.Results) error

	// Latest returns the most recent snapshot for sessionID.
	// Returns nil, nil if the session is unknown or has expired.
	Latest(ctx context.Context, sessionID string) (*Snapshot, error)

	// List returns the latest snapshot of every session ordered by save time.
	List(ctx context.Context) ([]Snapshot, error)

	// Close releases backend resources.
	Close() error
}

// New builds the sink selected by cfg.Backend.
func New(cfg config.SinkConfig, clk clock.Clock) (Sink, error) {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	switch cfg.Backend {
	case "", config.SinkMemory:
		return NewMemorySink(clk), nil
	case config.SinkSQLite:
		return NewSQLiteSink(cfg.SQLite.Path, clk)
	case config.SinkRedis:
		rc := cfg.Redis
		return NewRedisSink(&rc, clk)
	default:
		return nil, fmt.Errorf("unknown sink backend %q", cfg.Backend)
	}
}

// Consumer adapts s to a recorder flush consumer for sessionID.
func Consumer(s Sink, sessionID string) behavior.FlushFunc {
	return func(r behavior.Results) error {
		if err := s.Save(context.Background(), sessionID, r); err != nil {
			return fmt.Errorf("saving snapshot for %s: %w", sessionID, err)
		}
		return nil
	}
}

// LoggingConsumer wraps next so each flush is logged at debug level.
func LoggingConsumer(logger *slog.Logger, sessionID string, next behavior.FlushFunc) behavior.FlushFunc {
	return func(r behavior.Results) error {
		logger.Debug("flush",
			"session", sessionID,
			"clicks", r.Clicks.ClickCount,
			"movements", len(r.MouseMovements),
			"total_time", r.Time.TotalTime,
		)
		return next(r)
	}
}
