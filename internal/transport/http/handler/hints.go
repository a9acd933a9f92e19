package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shijra-api/internal/application/hint"
	"go.uber.org/zap"
)

// HintHandler serves record-matching hints for one individual.
type HintHandler struct {
	svc hint.Service
	log *zap.Logger
}

func NewHintHandler(svc hint.Service, log *zap.Logger) *HintHandler {
	return &HintHandler{svc: svc, log: orNop(log)}
}

// List handles GET /api/hints/{individualId}?treeId=.
func (h *HintHandler) List(w http.ResponseWriter, r *http.Request) {
	hints, err := h.svc.ListForIndividual(r.Context(), r.URL.Query().Get("treeId"), chi.URLParam(r, "individualId"))
	if err != nil {
		httpError(w, r, h.log, err, msgTreeIDRequired)
		return
	}
	writeJSON(w, http.StatusOK, Envelope{Success: true, Data: hints})
}
