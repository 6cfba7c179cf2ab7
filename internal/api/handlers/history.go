package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/attune-labs/credence/internal/domain"
	"github.com/attune-labs/credence/internal/service"
	"github.com/go-chi/chi/v5"
)

type HistoryHandler struct {
	svc *service.HistoryService
}

func NewHistoryHandler(svc *service.HistoryService) *HistoryHandler {
	return &HistoryHandler{svc: svc}
}

type historyResponse struct {
	UserID     int64                 `json:"user_id"`
	History    []domain.HistoryEntry `json:"history"`
	EntryCount int                   `json:"entry_count"`
}

// Get returns a subject's history from the store named by the "store"
// query parameter (default "beliefs"). A subject with no entries gets an
// empty history, not an error.
func (h *HistoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	storeName := r.URL.Query().Get("store")
	if storeName == "" {
		storeName = service.StoreBeliefs
	}

	history, err := h.svc.Get(r.Context(), strconv.FormatInt(userID, 10), storeName)
	if err != nil {
		if errors.Is(err, service.ErrUnknownStore) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to read history")
		return
	}

	writeJSON(w, http.StatusOK, historyResponse{
		UserID:     userID,
		History:    history,
		EntryCount: len(history),
	})
}
