package service

import (
	"context"
	"fmt"

	"github.com/attune-labs/credence/internal/domain"
)

// Store names accepted by history lookups.
const (
	StoreBeliefs   = "beliefs"
	StoreSentiment = "sentiment"
	StoreRisk      = "risk"
)

// HistoryService reads a subject's persisted history from one of the three
// named stores.
type HistoryService struct {
	beliefStore    domain.HistoryStore
	sentimentStore domain.HistoryStore
	riskStore      domain.HistoryStore
}

func NewHistoryService(beliefStore, sentimentStore, riskStore domain.HistoryStore) *HistoryService {
	return &HistoryService{
		beliefStore:    beliefStore,
		sentimentStore: sentimentStore,
		riskStore:      riskStore,
	}
}

// Get returns a subject's entries from the named store, oldest first. An
// unknown subject yields an empty slice; an unknown store name yields
// ErrUnknownStore naming the requested store, since that is a client
// usage mistake rather than a system failure.
func (s *HistoryService) Get(ctx context.Context, subjectKey, storeName string) ([]domain.HistoryEntry, error) {
	var store domain.HistoryStore
	switch storeName {
	case StoreBeliefs:
		store = s.beliefStore
	case StoreSentiment:
		store = s.sentimentStore
	case StoreRisk:
		store = s.riskStore
	default:
		return nil, fmt.Errorf("%w: no storage for %q, perhaps there's a typo", ErrUnknownStore, storeName)
	}

	return store.ReadAll(ctx, subjectKey)
}
