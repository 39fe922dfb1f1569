package sessions

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound          = errors.New("session not found")
	ErrNotEditable       = errors.New("session is not editable")
	ErrNotSubmitted      = errors.New("session has not been submitted")
	ErrEmailMismatch     = errors.New("email does not match session")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidStage      = errors.New("invalid client stage")
	ErrInvalidInput      = errors.New("invalid input")
)

// HTTPStatus maps a session error to a status code and user-facing message.
func HTTPStatus(err error) (int, string) {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "Session not found"
	case errors.Is(err, ErrEmailMismatch):
		return http.StatusForbidden, "Email does not match this session"
	case errors.Is(err, ErrNotEditable):
		return http.StatusBadRequest, "This session can no longer be edited"
	case errors.Is(err, ErrNotSubmitted):
		return http.StatusBadRequest, "Submit the questionnaire before uploading documents"
	case errors.Is(err, ErrInvalidTransition):
		return http.StatusConflict, err.Error()
	case errors.Is(err, ErrInvalidStage), errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
