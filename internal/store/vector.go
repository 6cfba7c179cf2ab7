package store

import (
	"context"
	"fmt"

	"github.com/attune-labs/credence/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
)

// EmbeddingDim is the output dimensionality of the sentence embedder.
const EmbeddingDim = 384

// PostgresBeliefIndex keeps one row per persisted belief in a pgvector
// table so the content recommendation consumer can look up prior beliefs
// near a query embedding. Rows are append-only, like the history stores.
type PostgresBeliefIndex struct {
	db *pgxpool.Pool
}

func NewPostgresBeliefIndex(ctx context.Context, db *pgxpool.Pool) (*PostgresBeliefIndex, error) {
	if _, err := db.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return nil, fmt.Errorf("create vector extension: %w", err)
	}

	_, err := db.Exec(ctx, fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS belief_vectors (
			id          BIGSERIAL PRIMARY KEY,
			subject_key TEXT NOT NULL,
			content     TEXT NOT NULL,
			category    TEXT NOT NULL,
			embedding   vector(%d) NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, EmbeddingDim))
	if err != nil {
		return nil, fmt.Errorf("create belief_vectors: %w", err)
	}

	return &PostgresBeliefIndex{db: db}, nil
}

func (s *PostgresBeliefIndex) Index(ctx context.Context, subjectKey string, belief domain.BeliefRecord) error {
	if len(belief.Embedding) != EmbeddingDim {
		return fmt.Errorf("belief embedding has %d dimensions, want %d", len(belief.Embedding), EmbeddingDim)
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO belief_vectors (subject_key, content, category, embedding)
		 VALUES ($1, $2, $3, $4)`,
		subjectKey, belief.Text, belief.Category, pgvector.NewVector(belief.Embedding))
	if err != nil {
		return fmt.Errorf("index belief: %w", err)
	}
	return nil
}

func (s *PostgresBeliefIndex) Search(ctx context.Context, embedding []float32, topK int) ([]domain.SimilarBelief, error) {
	if topK <= 0 {
		topK = 10
	}

	vec := pgvector.NewVector(embedding)
	rows, err := s.db.Query(ctx,
		`SELECT subject_key, content, category, 1 - (embedding <=> $1) AS score
		 FROM belief_vectors
		 ORDER BY embedding <=> $1
		 LIMIT $2`,
		vec, topK)
	if err != nil {
		return nil, fmt.Errorf("search beliefs: %w", err)
	}
	defer rows.Close()

	var results []domain.SimilarBelief
	for rows.Next() {
		var b domain.SimilarBelief
		if err := rows.Scan(&b.SubjectKey, &b.Text, &b.Category, &b.Score); err != nil {
			return nil, fmt.Errorf("scan belief row: %w", err)
		}
		results = append(results, b)
	}
	return results, rows.Err()
}

var _ domain.BeliefIndex = (*PostgresBeliefIndex)(nil)
