package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/attune-labs/credence/internal/domain"
)

// MemoryHistoryStore is an in-process history store used in tests and
// throwaway local runs. It keeps the same append-only contract as the
// durable stores but nothing survives a restart.
type MemoryHistoryStore struct {
	mu      sync.RWMutex
	entries map[string][]domain.HistoryEntry
}

func NewMemoryHistoryStore() *MemoryHistoryStore {
	return &MemoryHistoryStore{entries: make(map[string][]domain.HistoryEntry)}
}

func (s *MemoryHistoryStore) Append(ctx context.Context, subjectKey string, records any) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal history records: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[subjectKey] = append(s.entries[subjectKey], domain.HistoryEntry{
		CapturedAt: time.Now().UTC(),
		Records:    payload,
	})
	return nil
}

func (s *MemoryHistoryStore) ReadAll(ctx context.Context, subjectKey string) ([]domain.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.HistoryEntry, len(s.entries[subjectKey]))
	copy(out, s.entries[subjectKey])
	return out, nil
}

var _ domain.HistoryStore = (*MemoryHistoryStore)(nil)
