package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "credence.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSQLiteHistoryAppendAndReadAll(t *testing.T) {
	db := openTestSQLite(t)
	s, err := db.HistoryStore(TableBeliefHistory)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.Append(ctx, "42", []map[string]string{{"text": "I believe in tests"}}))
	require.NoError(t, s.Append(ctx, "42", []map[string]string{{"text": "I value coverage"}}))

	entries, err := s.ReadAll(ctx, "42")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Oldest first, payload round-trips
	var first []map[string]string
	require.NoError(t, json.Unmarshal(entries[0].Records, &first))
	assert.Equal(t, "I believe in tests", first[0]["text"])
	assert.False(t, entries[0].CapturedAt.After(entries[1].CapturedAt))
}

func TestSQLiteHistoryUnknownSubjectIsEmpty(t *testing.T) {
	db := openTestSQLite(t)
	s, err := db.HistoryStore(TableRiskHistory)
	require.NoError(t, err)

	entries, err := s.ReadAll(context.Background(), "no-such-subject")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSQLiteHistoryTablesAreIndependent(t *testing.T) {
	db := openTestSQLite(t)

	beliefs, err := db.HistoryStore(TableBeliefHistory)
	require.NoError(t, err)
	sentiment, err := db.HistoryStore(TableSentimentHistory)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, beliefs.Append(ctx, "42", []string{"a"}))

	entries, err := sentiment.ReadAll(ctx, "42")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSQLiteRejectsUnknownTable(t *testing.T) {
	db := openTestSQLite(t)

	_, err := db.HistoryStore("drop_table_please")
	require.Error(t, err)
}

func TestMemoryHistoryStoreContract(t *testing.T) {
	s := NewMemoryHistoryStore()
	ctx := context.Background()

	entries, err := s.ReadAll(ctx, "42")
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.NoError(t, s.Append(ctx, "42", []string{"a"}))
	require.NoError(t, s.Append(ctx, "42", []string{"b"}))

	entries, err = s.ReadAll(ctx, "42")
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	var second []string
	require.NoError(t, json.Unmarshal(entries[1].Records, &second))
	assert.Equal(t, []string{"b"}, second)
}
