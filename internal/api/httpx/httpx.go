package httpx

import (
	"encoding/json"
	"net/http"
)

// Envelope is the shape of every JSON response.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Details any    `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func OK(w http.ResponseWriter, status int, data any) {
	WriteJSON(w, status, Envelope{Success: true, Data: data})
}

// Fail writes a failure envelope; detail carries raw error text and should
// only be set in development.
func Fail(w http.ResponseWriter, status int, msg, detail string, details any) {
	WriteJSON(w, status, Envelope{
		Success: false,
		Message: msg,
		Error:   detail,
		Details: details,
	})
}
