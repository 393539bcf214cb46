package handlers

import (
	"encoding/json"
	"net/http"
	"time"
)

// errorEnvelope is the wire shape of every non-200 response
type errorEnvelope struct {
	Error     string         `json:"error"`
	Message   string         `json:"message"`
	RequestID string         `json:"request_id"`
	Timestamp string         `json:"timestamp"`
	Context   map[string]any `json:"context,omitempty"`
}

const (
	errorCodeUnderfoot = "UNDERFOOT_ERROR"
	errorCodeInternal  = "INTERNAL_ERROR"
)

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, code, message, requestID string) {
	respondWithJSON(w, statusCode, errorEnvelope{
		Error:     code,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
