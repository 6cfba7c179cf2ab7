package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/attune-labs/credence/internal/domain"
)

// HTTPClient talks to the model inference sidecar that hosts the zero-shot
// classifier, the sentence embedder and the sentiment grader. The sidecar is
// stateless; each call is one synchronous round trip.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

type classifyRequest struct {
	Text       string   `json:"text"`
	Labels     []string `json:"labels"`
	MultiLabel bool     `json:"multi_label"`
}

type classifyResponse struct {
	Label  string             `json:"label"`
	Score  float64            `json:"score"`
	Scores map[string]float64 `json:"all_scores"`
	Error  string             `json:"error,omitempty"`
}

type embedRequest struct {
	Text string `json:"text"`
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
	Error     string    `json:"error,omitempty"`
}

type sentimentRequest struct {
	Text string `json:"text"`
}

type sentimentResponse struct {
	Sentiment float64 `json:"sentiment"`
	Error     string  `json:"error,omitempty"`
}

func (c *HTTPClient) Classify(ctx context.Context, text string, labels []string, multiLabel bool) (*domain.Classification, error) {
	var result classifyResponse
	err := c.post(ctx, "/classify", classifyRequest{
		Text:       text,
		Labels:     labels,
		MultiLabel: multiLabel,
	}, &result)
	if err != nil {
		return nil, err
	}
	if result.Error != "" {
		return nil, fmt.Errorf("classify: backend error: %s", result.Error)
	}
	if result.Label == "" || len(result.Scores) == 0 {
		return nil, fmt.Errorf("classify: backend returned no labels")
	}
	return &domain.Classification{
		Label:  result.Label,
		Score:  result.Score,
		Scores: result.Scores,
	}, nil
}

func (c *HTTPClient) Embed(ctx context.Context, text string) ([]float32, error) {
	var result embedResponse
	if err := c.post(ctx, "/embed", embedRequest{Text: text}, &result); err != nil {
		return nil, err
	}
	if result.Error != "" {
		return nil, fmt.Errorf("embed: backend error: %s", result.Error)
	}
	if len(result.Embedding) == 0 {
		return nil, fmt.Errorf("embed: backend returned no embedding")
	}
	return result.Embedding, nil
}

func (c *HTTPClient) ScoreSentiment(ctx context.Context, text string) (float64, error) {
	var result sentimentResponse
	if err := c.post(ctx, "/sentiment", sentimentRequest{Text: text}, &result); err != nil {
		return 0, err
	}
	if result.Error != "" {
		return 0, fmt.Errorf("sentiment: backend error: %s", result.Error)
	}
	return result.Sentiment, nil
}

func (c *HTTPClient) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal scoring request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create scoring request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("scoring request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read scoring response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("scoring API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal scoring response: %w", err)
	}

	return nil
}

var _ domain.ScoringBackend = (*HTTPClient)(nil)
