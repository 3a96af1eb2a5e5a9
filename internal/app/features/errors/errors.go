// internal/app/features/errors/errors.go
package errors

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/suitemate/internal/app/lifecycle"
	"go.uber.org/zap"
)

// errorResponse is the JSON body for every error reply.
type errorResponse struct {
	Error string `json:"error"`
}

// Write sends a JSON error with the given status.
func Write(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: msg})
}

// BadRequest is a 400 with the given message.
func BadRequest(w http.ResponseWriter, msg string) {
	Write(w, http.StatusBadRequest, msg)
}

// ErrorLogger writes error responses and logs server-side failures with
// enough context to debug them. Domain errors are the user's problem
// and are not logged as errors.
type ErrorLogger struct {
	Log *zap.Logger
}

// WriteLifecycleError maps a lifecycle engine error to an HTTP reply.
func (el *ErrorLogger) WriteLifecycleError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := Status(err)
	if status == http.StatusServiceUnavailable || status == http.StatusInternalServerError {
		el.Log.Error("lifecycle operation failed",
			zap.String("op", op),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		Write(w, status, "The membership store is unavailable. Please try again.")
		return
	}
	Write(w, status, err.Error())
}

// ServerError logs and reports an unexpected failure.
func (el *ErrorLogger) ServerError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	el.Log.Error(msg, zap.String("path", r.URL.Path), zap.Error(err))
	Write(w, http.StatusInternalServerError, "An internal error occurred.")
}

// Status maps lifecycle errors onto HTTP status codes.
func Status(err error) int {
	switch {
	case errors.Is(err, lifecycle.ErrGroupNotFound),
		errors.Is(err, lifecycle.ErrUserNotFound),
		errors.Is(err, lifecycle.ErrRequestNotFound):
		return http.StatusNotFound
	case errors.Is(err, lifecycle.ErrNotLeader),
		errors.Is(err, lifecycle.ErrNotYourRequest):
		return http.StatusForbidden
	case errors.Is(err, lifecycle.ErrInvalidCapacity),
		errors.Is(err, lifecycle.ErrInvalidName):
		return http.StatusBadRequest
	case errors.Is(err, lifecycle.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	case lifecycle.IsDomainError(err):
		// AlreadyGrouped, GroupFull, AlreadyMember, duplicates,
		// NotInGroup, RequestNotPending, CannotRemoveSelf.
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
