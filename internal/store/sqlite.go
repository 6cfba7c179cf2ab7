package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/attune-labs/credence/internal/domain"
	_ "modernc.org/sqlite"
)

// SQLite wraps a single-file SQLite database holding all history tables.
// It serves single-node deployments that have no Postgres available.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and applies
// the pragmas the append workload needs.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		return nil, fmt.Errorf("pragma busy_timeout: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Ping reports whether the database is reachable.
func (s *SQLite) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// HistoryStore creates the named history table if needed and returns a
// store bound to it. The table name must be one of the Table* constants.
func (s *SQLite) HistoryStore(table string) (*SQLiteHistoryStore, error) {
	if !validTable(table) {
		return nil, fmt.Errorf("unknown history table: %s", table)
	}

	_, err := s.db.Exec(fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			subject_key TEXT NOT NULL,
			captured_at TEXT NOT NULL,
			records     TEXT NOT NULL
		)`, table))
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", table, err)
	}

	_, err = s.db.Exec(fmt.Sprintf(
		`CREATE INDEX IF NOT EXISTS %s_subject_idx ON %s (subject_key, id)`, table, table))
	if err != nil {
		return nil, fmt.Errorf("index %s: %w", table, err)
	}

	return &SQLiteHistoryStore{db: s.db, table: table}, nil
}

// SQLiteHistoryStore is a per-subject append-only log backed by one SQLite
// table. Each Append is its own committed transaction, so entries are
// durable before the call returns.
type SQLiteHistoryStore struct {
	db    *sql.DB
	table string
}

func (s *SQLiteHistoryStore) Append(ctx context.Context, subjectKey string, records any) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal history records: %w", err)
	}

	_, err = s.db.ExecContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (subject_key, captured_at, records) VALUES (?, ?, ?)`, s.table),
		subjectKey, time.Now().UTC().Format(time.RFC3339Nano), string(payload))
	if err != nil {
		return fmt.Errorf("append to %s: %w", s.table, err)
	}
	return nil
}

func (s *SQLiteHistoryStore) ReadAll(ctx context.Context, subjectKey string) ([]domain.HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT captured_at, records FROM %s WHERE subject_key = ? ORDER BY id`, s.table),
		subjectKey)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.table, err)
	}
	defer rows.Close()

	entries := []domain.HistoryEntry{}
	for rows.Next() {
		var capturedAt, records string
		if err := rows.Scan(&capturedAt, &records); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", s.table, err)
		}
		ts, err := time.Parse(time.RFC3339Nano, capturedAt)
		if err != nil {
			return nil, fmt.Errorf("parse %s captured_at: %w", s.table, err)
		}
		entries = append(entries, domain.HistoryEntry{
			CapturedAt: ts,
			Records:    json.RawMessage(records),
		})
	}
	return entries, rows.Err()
}

var _ domain.HistoryStore = (*SQLiteHistoryStore)(nil)
