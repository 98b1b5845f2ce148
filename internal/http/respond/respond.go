package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hongminglow/backoffice/internal/logging"
	"github.com/hongminglow/backoffice/internal/service"
)

// Envelope is the standard API response wrapper used across handlers.
type Envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Responder writes envelopes and logs server-side failures to its logger.
type Responder struct {
	log *logging.Logger
}

// New returns a Responder logging through log.
func New(log *logging.Logger) *Responder {
	return &Responder{log: log}
}

// JSON writes a success or informational response using the common envelope.
func (rs *Responder) JSON(w http.ResponseWriter, status int, message string, data any) {
	rs.write(w, status, Envelope{Code: status, Message: message, Data: data})
}

// Error writes an error response with the shared envelope structure.
func (rs *Responder) Error(w http.ResponseWriter, status int, message string) {
	rs.write(w, status, Envelope{Code: status, Message: message})
}

// ServiceError maps a service error kind to a status code. Unknown errors are
// logged and reported as 500 without detail.
func (rs *Responder) ServiceError(w http.ResponseWriter, err error) {
	status, message := Classify(err)
	if status >= http.StatusInternalServerError {
		rs.log.Error("request failed", "error", err)
	}
	rs.Error(w, status, message)
}

// Classify returns the status and client-facing message for err.
func Classify(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, service.ErrInvalidCredentials.Error()
	case errors.Is(err, service.ErrAccountInactive):
		return http.StatusForbidden, service.ErrAccountInactive.Error()
	case errors.Is(err, service.ErrDuplicateUsername),
		errors.Is(err, service.ErrDuplicateEmail),
		errors.Is(err, service.ErrDuplicateRole):
		return http.StatusConflict, err.Error()
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrUnknownRole):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrInvalidPermission),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrPasswordTooLong):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrPersistenceUnavailable):
		return http.StatusServiceUnavailable, "storage unavailable, try again later"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func (rs *Responder) write(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		rs.log.Error("encode response failed", "status", status, "error", err)
	}
}
