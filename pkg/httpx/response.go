// Package httpx carries the HTTP plumbing shared by every handler: the
// uniform response envelope, middleware chaining, and per-key rate limiting.
package httpx

import (
	"encoding/json"
	"net/http"
)

// Envelope is the uniform response body for every endpoint.
type Envelope struct {
	Message    string `json:"message"`
	Data       any    `json:"data,omitempty"`
	StatusCode int    `json:"statusCode"`
}

// WriteMessage writes the envelope with the given status code. Responses
// carrying tokens must not be cached, so every envelope goes out with
// no-store headers.
func WriteMessage(w http.ResponseWriter, code int, message string, data any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(Envelope{
		Message:    message,
		Data:       data,
		StatusCode: code,
	})
}

// WriteError writes an error envelope with no data payload.
func WriteError(w http.ResponseWriter, code int, message string) {
	WriteMessage(w, code, message, nil)
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
