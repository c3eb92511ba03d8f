package httpx

import (
	"errors"
	"net/http"
)

// Sentinel errors for the domain layer. Domain packages wrap these with
// user-facing messages; RespondError maps them onto status codes.
var (
	// ErrNotFound indicates the referenced id or code does not exist.
	ErrNotFound = errors.New("resource not found")
	// ErrDuplicate indicates a uniqueness violation.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrValidation indicates malformed or missing input.
	ErrValidation = errors.New("validation failed")
	// ErrInsufficientStock indicates an outbound movement exceeding current stock.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrStoreUnconfigured indicates the blob store is not configured.
	ErrStoreUnconfigured = errors.New("storage not configured")
)

// Wrap attaches a user-facing message to one of the sentinels above while
// keeping errors.Is classification intact.
func Wrap(kind error, message string) error {
	return &statusError{kind: kind, message: message}
}

type statusError struct {
	kind    error
	message string
}

func (e *statusError) Error() string { return e.message }

func (e *statusError) Unwrap() error { return e.kind }

// RespondError maps domain errors to HTTP responses. Unknown errors become a
// generic 500 so storage failures never leak internals to the caller.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		Error(w, http.StatusNotFound, userMessage(err, "not found"))
	case errors.Is(err, ErrDuplicate):
		Error(w, http.StatusConflict, userMessage(err, "duplicate entry"))
	case errors.Is(err, ErrValidation):
		Error(w, http.StatusBadRequest, userMessage(err, "invalid request"))
	case errors.Is(err, ErrInsufficientStock):
		Error(w, http.StatusBadRequest, userMessage(err, "insufficient stock"))
	case errors.Is(err, ErrStoreUnconfigured):
		Error(w, http.StatusInternalServerError, userMessage(err, "storage not configured"))
	default:
		Error(w, http.StatusInternalServerError, "internal server error")
	}
}

func userMessage(err error, fallback string) string {
	if err == nil || err.Error() == "" {
		return fallback
	}
	return err.Error()
}
