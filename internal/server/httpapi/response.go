package httpapi

import (
	"encoding/json"
	"net/http"
)

// ApiResponse is the envelope every endpoint returns: a success flag, a
// human-readable message, and optional payload data.
type ApiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, resp ApiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
