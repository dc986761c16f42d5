// internal/app/system/respond/respond.go
// Package respond writes the JSON bodies every portal endpoint returns.
package respond

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the uniform failure payload.
type ErrorBody struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes {"error": msg}.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, ErrorBody{Error: msg})
}

// ErrorDetails writes {"error": msg, "details": details}.
func ErrorDetails(w http.ResponseWriter, status int, msg string, details any) {
	JSON(w, status, ErrorBody{Error: msg, Details: details})
}

// OK writes {"success": true}.
func OK(w http.ResponseWriter) {
	JSON(w, http.StatusOK, map[string]bool{"success": true})
}
