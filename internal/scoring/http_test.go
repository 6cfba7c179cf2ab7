package scoring

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClientClassify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/classify", r.URL.Path)

		var req classifyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "I believe in tests", req.Text)
		assert.Equal(t, []string{"core_values", "technology_stance"}, req.Labels)
		assert.False(t, req.MultiLabel)

		_ = json.NewEncoder(w).Encode(classifyResponse{
			Label: "core_values",
			Score: 0.91,
			Scores: map[string]float64{
				"core_values":       0.91,
				"technology_stance": 0.09,
			},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	result, err := c.Classify(context.Background(), "I believe in tests", []string{"core_values", "technology_stance"}, false)

	require.NoError(t, err)
	assert.Equal(t, "core_values", result.Label)
	assert.Equal(t, 0.91, result.Score)
	assert.Len(t, result.Scores, 2)
}

func TestHTTPClientClassifyBackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(classifyResponse{Error: "model not loaded"})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	_, err := c.Classify(context.Background(), "text", []string{"a"}, false)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not loaded")
}

func TestHTTPClientClassifyNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	_, err := c.Classify(context.Background(), "text", []string{"a"}, false)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestHTTPClientEmbed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/embed", r.URL.Path)
		_ = json.NewEncoder(w).Encode(embedResponse{Embedding: []float32{0.1, 0.2, 0.3}})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	vec, err := c.Embed(context.Background(), "I believe in tests")

	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
}

func TestHTTPClientEmbedEmptyIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(embedResponse{})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	_, err := c.Embed(context.Background(), "text")

	require.Error(t, err)
}

func TestHTTPClientScoreSentiment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/sentiment", r.URL.Path)
		_ = json.NewEncoder(w).Encode(sentimentResponse{Sentiment: -0.42})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	score, err := c.ScoreSentiment(context.Background(), "The train was late again.")

	require.NoError(t, err)
	assert.Equal(t, -0.42, score)
}

func TestNewClient(t *testing.T) {
	c, err := NewClient(ProviderMock, "")
	require.NoError(t, err)
	assert.IsType(t, &MockClient{}, c)

	c, err = NewClient(ProviderInference, "http://localhost:8500")
	require.NoError(t, err)
	assert.IsType(t, &HTTPClient{}, c)

	_, err = NewClient(ProviderInference, "")
	require.Error(t, err)

	_, err = NewClient("tensorflow", "")
	require.Error(t, err)
}

func TestMockClientClassifyCoversAllLabels(t *testing.T) {
	c := NewMockClient()
	labels := []string{"self_harm", "violence", "depression"}

	result, err := c.Classify(context.Background(), "text", labels, true)

	require.NoError(t, err)
	assert.Len(t, result.Scores, len(labels))
	for _, l := range labels {
		assert.Contains(t, result.Scores, l)
	}
}

func TestMockClientEmbedDeterministic(t *testing.T) {
	c := NewMockClient()

	a, err := c.Embed(context.Background(), "I believe in tests")
	require.NoError(t, err)
	b, err := c.Embed(context.Background(), "I believe in tests")
	require.NoError(t, err)
	other, err := c.Embed(context.Background(), "something else")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, other)
	assert.Len(t, a, MockEmbeddingDim)
}
