package http

import (
	"encoding/json"
	"net/http"
)

type errorResponse struct {
	Error       string            `json:"error"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
}

// writeJSON writes v with the given status code.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr writes err as a JSON error body.
func writeErr(w http.ResponseWriter, err error, code int) {
	writeJSON(w, code, errorResponse{Error: err.Error()})
}
