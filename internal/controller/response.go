// internal/controller/response.go
package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	appErrors "github.com/unclebandit/influencer-outreach/internal/errors"
)

// Notification is the body of every single-action response.
type Notification struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Error   string              `json:"error,omitempty"`
	Fields  map[string][]string `json:"fields,omitempty"`
	Data    any                 `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, Notification{Success: true, Message: message, Data: data})
}

func writeFailure(w http.ResponseWriter, status int, message string, err error) {
	n := Notification{Message: message}
	if err != nil {
		n.Error = err.Error()
	}
	writeJSON(w, status, n)
}

// StatusCode maps an application error onto an HTTP status.
func StatusCode(err error) int {
	var (
		verr *appErrors.ValidationError
		cerr *appErrors.ConfigurationError
		derr *appErrors.DispatchError
		serr *appErrors.StoreError
	)
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case appErrors.IsNotFound(err):
		return http.StatusNotFound
	case errors.As(err, &cerr):
		return http.StatusServiceUnavailable
	case errors.As(err, &derr):
		return http.StatusBadGateway
	case errors.As(err, &serr):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as a failed notification. Validation messages are
// shown as they are; other failures carry message as the headline.
func writeError(w http.ResponseWriter, message string, err error) {
	n := Notification{Message: message, Error: err.Error()}
	var verr *appErrors.ValidationError
	if errors.As(err, &verr) {
		n.Message = verr.Message
		n.Fields = verr.Fields
	}
	writeJSON(w, StatusCode(err), n)
}

func urlID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, appErrors.NewFieldError(name, "uuid")
	}
	return id, nil
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &appErrors.ValidationError{Message: "invalid body"}
	}
	return nil
}
