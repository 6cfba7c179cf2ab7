package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/attune-labs/credence/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Table names for the three history store instances. Each store is its own
// append-only table so the belief, sentiment and risk consumers can evolve
// their retention and access patterns independently.
const (
	TableBeliefHistory    = "belief_history"
	TableSentimentHistory = "sentiment_history"
	TableRiskHistory      = "risk_history"
)

// PostgresHistoryStore is a per-subject append-only log backed by one
// Postgres table. Append commits before returning; ReadAll returns entries
// oldest first and an empty slice for unknown subjects.
type PostgresHistoryStore struct {
	db    *pgxpool.Pool
	table string
}

// NewPostgresHistoryStore creates the backing table if needed and returns a
// store bound to it. The table name must be one of the Table* constants.
func NewPostgresHistoryStore(ctx context.Context, db *pgxpool.Pool, table string) (*PostgresHistoryStore, error) {
	if !validTable(table) {
		return nil, fmt.Errorf("unknown history table: %s", table)
	}

	_, err := db.Exec(ctx, fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (
			id          BIGSERIAL PRIMARY KEY,
			subject_key TEXT NOT NULL,
			captured_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			records     JSONB NOT NULL
		)`, table))
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", table, err)
	}

	_, err = db.Exec(ctx, fmt.Sprintf(
		`CREATE INDEX IF NOT EXISTS %s_subject_idx ON %s (subject_key, id)`, table, table))
	if err != nil {
		return nil, fmt.Errorf("index %s: %w", table, err)
	}

	return &PostgresHistoryStore{db: db, table: table}, nil
}

func validTable(table string) bool {
	switch table {
	case TableBeliefHistory, TableSentimentHistory, TableRiskHistory:
		return true
	}
	return false
}

func (s *PostgresHistoryStore) Append(ctx context.Context, subjectKey string, records any) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal history records: %w", err)
	}

	_, err = s.db.Exec(ctx, fmt.Sprintf(
		`INSERT INTO %s (subject_key, records) VALUES ($1, $2)`, s.table),
		subjectKey, payload)
	if err != nil {
		return fmt.Errorf("append to %s: %w", s.table, err)
	}
	return nil
}

func (s *PostgresHistoryStore) ReadAll(ctx context.Context, subjectKey string) ([]domain.HistoryEntry, error) {
	rows, err := s.db.Query(ctx, fmt.Sprintf(
		`SELECT captured_at, records FROM %s WHERE subject_key = $1 ORDER BY id`, s.table),
		subjectKey)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.table, err)
	}
	defer rows.Close()

	entries := []domain.HistoryEntry{}
	for rows.Next() {
		var e domain.HistoryEntry
		if err := rows.Scan(&e.CapturedAt, &e.Records); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", s.table, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

var _ domain.HistoryStore = (*PostgresHistoryStore)(nil)
