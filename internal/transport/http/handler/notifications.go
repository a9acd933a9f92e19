package handler

import (
	"net/http"

	"github.com/shijra-api/internal/application/notification"
	"github.com/shijra-api/internal/domain"
	"go.uber.org/zap"
)

const (
	msgBroadcastSent  = "Broadcast sent successfully"
	msgMissingFields  = "Missing required fields"
	msgTreeIDRequired = "Tree ID is required"
)

// NotificationHandler handles the broadcast and activity-feed endpoints.
type NotificationHandler struct {
	svc notification.Service
	log *zap.Logger
}

func NewNotificationHandler(svc notification.Service, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{svc: svc, log: orNop(log)}
}

// Broadcast handles POST /api/broadcast/send.
func (h *NotificationHandler) Broadcast(w http.ResponseWriter, r *http.Request) {
	var req domain.BroadcastRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	n, err := h.svc.Broadcast(r.Context(), req)
	if err != nil {
		httpError(w, r, h.log, err, msgMissingFields)
		return
	}
	writeJSON(w, http.StatusCreated, Envelope{Success: true, Message: msgBroadcastSent, Data: n})
}

// List handles GET /api/notifications?treeId=.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	views, err := h.svc.ListByTree(r.Context(), r.URL.Query().Get("treeId"))
	if err != nil {
		httpError(w, r, h.log, err, msgTreeIDRequired)
		return
	}
	writeJSON(w, http.StatusOK, Envelope{Success: true, Data: views})
}
