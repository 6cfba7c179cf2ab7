package domain

import "context"

// Classification is the result of one zero-shot classification call.
// Scores always carries one entry per label passed to the call; under
// multi-label scoring the values are independent and need not sum to 1.
type Classification struct {
	Label  string             `json:"label"`
	Score  float64            `json:"score"`
	Scores map[string]float64 `json:"all_scores"`
}

// ScoringBackend is the model inference surface the pipeline depends on.
// Calls are synchronous and carry no retry logic at this layer; an error
// from any call aborts the analysis in progress.
type ScoringBackend interface {
	Classify(ctx context.Context, text string, labels []string, multiLabel bool) (*Classification, error)
	Embed(ctx context.Context, text string) ([]float32, error)
	ScoreSentiment(ctx context.Context, text string) (float64, error)
}

// HistoryStore is a per-subject append-only log. The analyzer holds three
// independent instances (beliefs, sentiment, risk). Append must be durable
// before it returns. ReadAll returns entries oldest first and an empty slice
// for an unknown subject, never an error on miss.
//
// The store provides no cross-request isolation: two concurrent analyses for
// the same subject may interleave their reads and appends. Per-key
// serialization, if wanted, is the store implementation's responsibility.
type HistoryStore interface {
	Append(ctx context.Context, subjectKey string, records any) error
	ReadAll(ctx context.Context, subjectKey string) ([]HistoryEntry, error)
}

// BeliefIndex is a vector index over persisted beliefs, serving
// similarity lookups for the content recommendation consumer.
type BeliefIndex interface {
	Index(ctx context.Context, subjectKey string, belief BeliefRecord) error
	Search(ctx context.Context, embedding []float32, topK int) ([]SimilarBelief, error)
}
