package middleware

import (
	"encoding/json"
	"net/http"
)

// writeJSONError writes the flat failure envelope used by every endpoint.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}{Success: false, Error: msg})
}
