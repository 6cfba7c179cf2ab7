package handlers

import (
	"net/http"
	"strconv"

	"github.com/attune-labs/credence/internal/domain"
)

type SimilarHandler struct {
	backend domain.ScoringBackend
	index   domain.BeliefIndex
}

// NewSimilarHandler serves similarity lookups over indexed beliefs. Pass a
// nil index when the deployment runs without one (sqlite driver); requests
// then get a descriptive 404.
func NewSimilarHandler(backend domain.ScoringBackend, index domain.BeliefIndex) *SimilarHandler {
	return &SimilarHandler{backend: backend, index: index}
}

type similarResponse struct {
	Query   string                 `json:"query"`
	Beliefs []domain.SimilarBelief `json:"beliefs"`
	Count   int                    `json:"count"`
}

// Search embeds the query string and returns the nearest indexed beliefs.
func (h *SimilarHandler) Search(w http.ResponseWriter, r *http.Request) {
	if h.index == nil {
		writeError(w, http.StatusNotFound, "belief index is not enabled on this deployment")
		return
	}

	query := r.URL.Query().Get("query")
	if query == "" {
		writeError(w, http.StatusBadRequest, "query parameter is required")
		return
	}

	topK := 10
	if topKStr := r.URL.Query().Get("top_k"); topKStr != "" {
		if k, err := strconv.Atoi(topKStr); err == nil && k > 0 {
			topK = k
		}
	}

	embedding, err := h.backend.Embed(r.Context(), query)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to embed query")
		return
	}

	results, err := h.index.Search(r.Context(), embedding, topK)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to search beliefs")
		return
	}

	if results == nil {
		results = []domain.SimilarBelief{}
	}

	writeJSON(w, http.StatusOK, similarResponse{
		Query:   query,
		Beliefs: results,
		Count:   len(results),
	})
}
