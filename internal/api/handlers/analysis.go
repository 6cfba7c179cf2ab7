package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/attune-labs/credence/internal/domain"
	"github.com/attune-labs/credence/internal/service"
)

type AnalysisHandler struct {
	svc *service.Analyzer
}

func NewAnalysisHandler(svc *service.Analyzer) *AnalysisHandler {
	return &AnalysisHandler{svc: svc}
}

// EvaluateBeliefs runs the full analysis pipeline over one conversation.
func (h *AnalysisHandler) EvaluateBeliefs(w http.ResponseWriter, r *http.Request) {
	var conv domain.Conversation
	if err := json.NewDecoder(r.Body).Decode(&conv); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.Analyze(r.Context(), conv)
	if err != nil {
		if errors.Is(err, service.ErrInvalidConversation) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to analyze conversation")
		return
	}

	writeJSON(w, http.StatusOK, result)
}
