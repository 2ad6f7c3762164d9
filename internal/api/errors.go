package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/viral-scripts/internal/api/shared"
	"github.com/phrazzld/viral-scripts/internal/domain"
	"github.com/phrazzld/viral-scripts/internal/export"
	"github.com/phrazzld/viral-scripts/internal/session"
	"github.com/phrazzld/viral-scripts/internal/wizard"
)

// errNotFound answers unknown routes.
var errNotFound = errors.New("route not found")

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// exposing their types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, session.ErrInvalidToken),
		errors.Is(err, session.ErrExpiredToken),
		errors.Is(err, session.ErrMissingToken):
		return http.StatusUnauthorized

	case errors.Is(err, session.ErrWrongSession):
		return http.StatusForbidden

	case errors.Is(err, session.ErrNotFound), errors.Is(err, errNotFound):
		return http.StatusNotFound

	case errors.Is(err, wizard.ErrInvalidTransition),
		errors.Is(err, wizard.ErrGenerationInFlight),
		errors.Is(err, export.ErrNoResult):
		return http.StatusConflict

	case errors.Is(err, domain.ErrInvalidLanguage),
		errors.Is(err, domain.ErrEmptyTopic),
		errors.Is(err, domain.ErrUnknownCategory),
		errors.Is(err, domain.ErrCustomCategory),
		errors.Is(err, export.ErrUnknownFormat):
		return http.StatusBadRequest

	case errors.Is(err, session.ErrStoreFull):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for err.
func GetSafeErrorMessage(err error) string {
	switch {
	case err == nil:
		return "An unexpected error occurred"

	case errors.Is(err, session.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, session.ErrInvalidToken),
		errors.Is(err, session.ErrMissingToken):
		return "Invalid token"
	case errors.Is(err, session.ErrWrongSession):
		return "Token not valid for this session"
	case errors.Is(err, session.ErrNotFound):
		return "Session not found"
	case errors.Is(err, errNotFound):
		return "Not found"
	case errors.Is(err, session.ErrStoreFull):
		return "Too many active sessions, try again later"

	case errors.Is(err, wizard.ErrGenerationInFlight):
		return "A script is already being generated"
	case errors.Is(err, wizard.ErrInvalidTransition):
		return "Action not allowed in the current step"
	case errors.Is(err, export.ErrNoResult):
		return "No script to export yet"

	case errors.Is(err, domain.ErrInvalidLanguage):
		return "Unsupported language"
	case errors.Is(err, domain.ErrEmptyTopic):
		return "Topic cannot be empty"
	case errors.Is(err, domain.ErrUnknownCategory):
		return "Unknown category"
	case errors.Is(err, domain.ErrCustomCategory):
		return "The custom category needs a topic"
	case errors.Is(err, export.ErrUnknownFormat):
		return "Unsupported export format"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the mapped status and safe message for err, logging
// the redacted error. defaultMsg replaces the generic message for 500s.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, defaultMsg string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && defaultMsg != "" {
		message = defaultMsg
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// SanitizeValidationError turns validator errors into a short message that
// names the offending JSON field.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Validation error"
	}

	fe := verrs[0]
	return fmt.Sprintf("Invalid %s: %s", strings.ToLower(fe.Field()), getValidationTagMessage(fe.Tag()))
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required", "required_without":
		return "required field"
	case "excluded_with":
		return "cannot be combined with another field"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
