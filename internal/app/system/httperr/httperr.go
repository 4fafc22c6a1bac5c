// internal/app/system/httperr/httperr.go

// Package httperr defines the error taxonomy for the JSON API and the
// helpers that write structured responses.
//
// Every failure surfaced to a client carries exactly one Kind, mapped
// to an HTTP status, and a single-sentence message. Handlers recover
// policy and validation failures locally into one of these; only
// persistence/storage faults become Internal.
package httperr

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// Kind classifies a failure in a machine-distinguishable way.
type Kind int

const (
	// Unauthenticated: no identity resolved for the request (401).
	Unauthenticated Kind = iota
	// Forbidden: identity present but policy denies the operation (403).
	Forbidden
	// NotFound: entity absent, or the caller is not entitled to know it
	// exists. Both cases surface identically (404).
	NotFound
	// Validation: malformed input; message names the first failing field (400).
	Validation
	// Conflict: state collision such as a duplicate membership (409).
	Conflict
	// Internal: persistence or storage failure (500).
	Internal
)

// Error is a classified, client-presentable failure.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// New builds an Error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (k Kind) status() int {
	switch k {
	case Unauthenticated:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Validation:
		return http.StatusBadRequest
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Write sends err to the client. Classified errors keep their kind and
// message; anything else is logged and collapsed into a generic 500 so
// internal details never leak.
func Write(w http.ResponseWriter, err error, logger *zap.Logger) {
	var e *Error
	if errors.As(err, &e) {
		WriteJSON(w, e.Kind.status(), map[string]any{"error": e.Message})
		return
	}
	if logger != nil {
		logger.Error("internal error", zap.Error(err))
	}
	WriteJSON(w, http.StatusInternalServerError, map[string]any{"error": "An error occurred."})
}

// WriteKind is shorthand for Write(w, New(kind, message), nil).
func WriteKind(w http.ResponseWriter, kind Kind, message string) {
	WriteJSON(w, kind.status(), map[string]any{"error": message})
}

// IsKind reports whether err is a classified error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
