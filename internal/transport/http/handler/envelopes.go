package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/shijra-api/internal/domain"
	"go.uber.org/zap"
)

const (
	msgInternal     = "Internal Server Error"
	msgInvalidBody  = "Invalid request body"
	msgUnauthorized = "Not authorized"

	maxJSONBody = 1 << 20
)

// Envelope is the success/failure wrapper used by the notification, hint and
// DNA endpoints.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// MessageEnvelope is the bare wrapper used by health and story responses.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, Envelope{Success: false, Error: msg})
}

// decodeJSON reads a JSON body into v. An empty body leaves v at its zero
// value so validation reports the missing fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// httpError maps a service error to its status and fixed human string.
// missing is the message for domain.ErrMissingField. Server-side failures
// are logged with the cause; the caller only sees the generic message.
func httpError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error, missing string) {
	status, msg := statusFor(err, missing)
	if status >= http.StatusInternalServerError {
		logServerError(log, r, err)
	}
	writeError(w, status, msg)
}

func statusFor(err error, missing string) (int, string) {
	switch {
	case errors.Is(err, domain.ErrMissingField):
		return http.StatusBadRequest, missing
	case errors.Is(err, domain.ErrBadRequest):
		return http.StatusBadRequest, msgInvalidBody
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, msgUnauthorized
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

func logServerError(log *zap.Logger, r *http.Request, err error) {
	log.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
}

func orNop(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
