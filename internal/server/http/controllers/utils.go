package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/vestflow/vestflow/internal/engine"
)

// Helper functions for common HTTP responses

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeEngineError maps a typed engine error to an HTTP status and writes
// the error body with its machine-readable code.
func writeEngineError(w http.ResponseWriter, err error) {
	kind := engine.KindOf(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusForKind(kind))
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error(), "code": string(kind)})
}

// writeJSON writes a JSON response with the given data.
func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(data)
}

// statusForKind maps the engine's error taxonomy onto HTTP status codes.
func statusForKind(kind engine.Kind) int {
	switch kind {
	case engine.KindInvalidParameters:
		return http.StatusBadRequest
	case engine.KindUnauthorized:
		return http.StatusForbidden
	case engine.KindStreamNotFound:
		return http.StatusNotFound
	case engine.KindAlreadyInitialized, engine.KindNotInitialized, engine.KindInvalidStateTransition:
		return http.StatusConflict
	case engine.KindInsufficientFunds, engine.KindNothingToWithdraw, engine.KindArithmeticOverflow:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// callerFrom extracts the acting address from the X-Vestflow-Caller header.
func callerFrom(r *http.Request) string {
	return r.Header.Get("X-Vestflow-Caller")
}

// parseStreamID parses the id query parameter.
func parseStreamID(r *http.Request) (uint64, bool) {
	raw := r.URL.Query().Get("id")
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
