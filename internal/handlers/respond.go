// Package handlers contains the HTTP handlers for the parish CMS API.
// Handlers are grouped by concern (auth, blog, events, members, testimonials,
// pages, upload) and receive their dependencies through the handler struct.
// Every response uses the same JSON envelope:
//
//	{"success": true,  "data": ...}
//	{"success": false, "error": {"code": "...", "message": "..."}}
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// envelope is the uniform response wrapper.
type envelope struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON writes a success envelope with the given status and payload.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Success: true, Data: data}); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}

// writeError writes a failure envelope with the given status and error code.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{
		Success: false,
		Error:   &apiError{Code: code, Message: message},
	}); err != nil {
		slog.Error("encode error response failed", "error", err)
	}
}

// serverError logs the underlying failure and writes a generic 500 envelope,
// never leaking internals to the client.
func serverError(w http.ResponseWriter, op string, err error) {
	slog.Error(op, "error", err)
	writeError(w, http.StatusInternalServerError, "SERVER_ERROR", "Internal server error")
}

// decodeBody decodes a request body without writing an error response.
// Used where a missing or malformed body is acceptable.
func decodeBody(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// decodeJSON decodes a request body into dst, rejecting unknown garbage
// with a uniform 400. Returns false if decoding failed and the error
// response has already been written.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON")
		return false
	}
	return true
}
