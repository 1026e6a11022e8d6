package web

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

// errorBody is the JSON envelope of operational endpoint failures. The
// request ID lets an operator find the matching access log line.
type errorBody struct {
	Error     string `json:"error"`
	Code      int    `json:"code"`
	Message   string `json:"message,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// writeJSON encodes data with status. Encoding failures can only be logged:
// the header is already out.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Int("status", status).Msg("failed to encode JSON response")
	}
}

// writeError answers with the standard error envelope.
func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, r, status, errorBody{
		Error:     http.StatusText(status),
		Code:      status,
		Message:   message,
		RequestID: w.Header().Get(RequestIDHeader),
	})
}
