package scoring

import (
	"context"
	"fmt"
	"math"

	"github.com/attune-labs/credence/internal/domain"
)

// MockEmbeddingDim matches the sentence embedder's output dimensionality.
const MockEmbeddingDim = 384

// MockClient is a configurable scoring backend for testing and local runs.
// Set the response fields to control what each method returns; left at their
// defaults, calls produce deterministic synthetic results.
type MockClient struct {
	ClassifyResponse  *domain.Classification
	ClassifyError     error
	EmbedResponse     []float32
	EmbedError        error
	SentimentResponse float64
	SentimentError    error

	// Call tracking for assertions
	ClassifyCalls  []ClassifyCall
	EmbedCalls     []string
	SentimentCalls []string
}

// ClassifyCall records the arguments of one Classify invocation.
type ClassifyCall struct {
	Text       string
	Labels     []string
	MultiLabel bool
}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (c *MockClient) Classify(ctx context.Context, text string, labels []string, multiLabel bool) (*domain.Classification, error) {
	c.ClassifyCalls = append(c.ClassifyCalls, ClassifyCall{Text: text, Labels: labels, MultiLabel: multiLabel})
	if c.ClassifyError != nil {
		return nil, c.ClassifyError
	}
	if c.ClassifyResponse != nil {
		return c.ClassifyResponse, nil
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("classify: no labels supplied")
	}

	// Deterministic synthetic distribution: the first label wins, the rest
	// share the remainder. One entry per supplied label, always.
	scores := make(map[string]float64, len(labels))
	top := 0.8
	rest := 0.0
	if len(labels) > 1 {
		rest = (1 - top) / float64(len(labels)-1)
	}
	for i, l := range labels {
		if i == 0 {
			scores[l] = top
		} else {
			scores[l] = rest
		}
	}
	return &domain.Classification{Label: labels[0], Score: top, Scores: scores}, nil
}

func (c *MockClient) Embed(ctx context.Context, text string) ([]float32, error) {
	c.EmbedCalls = append(c.EmbedCalls, text)
	if c.EmbedError != nil {
		return nil, c.EmbedError
	}
	if c.EmbedResponse != nil {
		return c.EmbedResponse, nil
	}

	// Deterministic unit-norm vector derived from the text bytes, so equal
	// sentences embed identically and similarity searches are stable.
	vec := make([]float32, MockEmbeddingDim)
	var seed uint32 = 2166136261
	for _, b := range []byte(text) {
		seed = (seed ^ uint32(b)) * 16777619
	}
	var norm float64
	for i := range vec {
		seed = seed*1664525 + 1013904223
		v := float32(seed%1000)/1000 - 0.5
		vec[i] = v
		norm += float64(v) * float64(v)
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] = float32(float64(vec[i]) / norm)
		}
	}
	return vec, nil
}

func (c *MockClient) ScoreSentiment(ctx context.Context, text string) (float64, error) {
	c.SentimentCalls = append(c.SentimentCalls, text)
	if c.SentimentError != nil {
		return 0, c.SentimentError
	}
	return c.SentimentResponse, nil
}

var _ domain.ScoringBackend = (*MockClient)(nil)
