package handler

import (
	"errors"
	"net/http"

	"github.com/shijra-api/internal/application/story"
	"github.com/shijra-api/internal/domain"
	"go.uber.org/zap"
)

const (
	msgSeedRequired     = "Seed is required"
	msgStoryFailed      = "Failed to generate story"
	msgMethodNotAllowed = "Method not allowed"
)

// StoryHandler proxies story generation to the generative-content service.
type StoryHandler struct {
	svc story.Service
	log *zap.Logger
}

func NewStoryHandler(svc story.Service, log *zap.Logger) *StoryHandler {
	return &StoryHandler{svc: svc, log: orNop(log)}
}

// Generate handles /api/generate-story. Only POST is accepted.
func (h *StoryHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, MessageEnvelope{Error: msgMethodNotAllowed})
		return
	}
	var req domain.StoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, MessageEnvelope{Error: msgSeedRequired})
		return
	}
	s, err := h.svc.Generate(r.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrMissingField) {
			writeJSON(w, http.StatusBadRequest, MessageEnvelope{Error: msgSeedRequired})
			return
		}
		logServerError(h.log, r, err)
		writeJSON(w, http.StatusInternalServerError, MessageEnvelope{Error: msgStoryFailed})
		return
	}
	writeJSON(w, http.StatusOK, s)
}
