package sink

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite" // CGO-free SQLite

	"github.com/SmitUplenchwar2687/Trailmark/internal/behavior"
	"github.com/SmitUplenchwar2687/Trailmark/internal/clock"
)

// SQLiteSink appends every flush to a snapshots table. Latest and List
// read the newest row per session.
type SQLiteSink struct {
	db    *sql.DB
	clock clock.Clock
}

// NewSQLiteSink opens (or creates) the database at path.
func NewSQLiteSink(path string, c clock.Clock) (*SQLiteSink, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	// WAL + busy timeout to avoid "database is locked"
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteSink{db: db, clock: c}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS snapshots(
	  id           INTEGER PRIMARY KEY,
	  session_id   TEXT    NOT NULL,
	  saved_at     INTEGER NOT NULL,
	  results_json TEXT    NOT NULL CHECK (json_valid(results_json))
	);
	CREATE INDEX IF NOT EXISTS idx_snapshots_session ON snapshots(session_id, id);
	CREATE INDEX IF NOT EXISTS idx_snapshots_saved   ON snapshots(saved_at);
	`)
	if err != nil {
		return fmt.Errorf("failed to create database tables: %w", err)
	}
	return nil
}

func (s *SQLiteSink) Save(ctx context.Context, sessionID string, results behavior.Results) error {
	if sessionID == "" {
		return fmt.Errorf("session id cannot be empty")
	}
	data, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO snapshots(session_id, saved_at, results_json) VALUES(?,?,json(?))`,
		sessionID, s.clock.Now().UnixMilli(), string(data))
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *SQLiteSink) Latest(ctx context.Context, sessionID string) (*Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
	SELECT session_id, saved_at, results_json FROM snapshots
	WHERE session_id = ? ORDER BY id DESC LIMIT 1`, sessionID)

	snap, err := scanSnapshot(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *SQLiteSink) List(ctx context.Context) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT session_id, saved_at, results_json FROM snapshots
	WHERE id IN (SELECT MAX(id) FROM snapshots GROUP BY session_id)
	ORDER BY saved_at, session_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshots: %w", err)
	}
	return out, nil
}

// Count returns how many flushes were stored for sessionID.
func (s *SQLiteSink) Count(ctx context.Context, sessionID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshots WHERE session_id = ?`, sessionID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count snapshots: %w", err)
	}
	return n, nil
}

func (s *SQLiteSink) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(sc scanner) (Snapshot, error) {
	var (
		snap Snapshot
		raw  string
	)
	if err := sc.Scan(&snap.SessionID, &snap.SavedAt, &raw); err != nil {
		if err == sql.ErrNoRows {
			return snap, err
		}
		return snap, fmt.Errorf("failed to scan snapshot: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), &snap.Results); err != nil {
		return snap, fmt.Errorf("failed to decode snapshot %s: %w", snap.SessionID, err)
	}
	return snap, nil
}
