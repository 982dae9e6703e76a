package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/kailas-cloud/langprint/internal/domain"
	"github.com/kailas-cloud/langprint/internal/domain/bigram"
)

// errorCode is the machine-readable code of an error response.
type errorCode string

const (
	codeBadRequest        errorCode = "bad_request"
	codeUnauthorized      errorCode = "unauthorized"
	codeValidationFailed  errorCode = "validation_failed"
	codeInsufficientInput errorCode = "insufficient_input"
	codeNotFound          errorCode = "not_found"
	codeUnsupportedFormat errorCode = "unsupported_format"
	codeInternalError     errorCode = "internal_error"
)

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInsufficientInput,
		domain.ErrNotFound,
		domain.ErrInvalidTag,
		domain.ErrUnsupportedFormat,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// insufficientInputHandler reports the received length along with the minimum.
func insufficientInputHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrInsufficientInput) {
		return false
	}
	var iie *bigram.InsufficientInputError
	if errors.As(err, &iie) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"code":    codeInsufficientInput,
			"message": fmt.Sprintf("text must contain at least 2 characters, got %d", iie.Length),
			"length":  iie.Length,
		})
		return true
	}
	writeError(w, http.StatusUnprocessableEntity, codeInsufficientInput, msg)
	return true
}
