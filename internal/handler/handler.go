package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

// ServerErrorResponse is the list endpoint failure body.
type ServerErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// MessageResponse carries a single human-readable message (detail endpoint
// not-found and failure bodies).
type MessageResponse struct {
	Message string `json:"message"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeMessage writes a {message} body with the given status code.
func writeMessage(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	if status >= http.StatusInternalServerError {
		logger.Error().Str("message", message).Int("status", status).Msg("handler error")
	}
	writeJSON(w, status, MessageResponse{Message: message})
}
