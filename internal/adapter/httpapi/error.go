package httpapi

import (
	"errors"
	"net/http"

	"github.com/eslsoft/readvoc/internal/entity"
)

// statusOf maps domain errors onto HTTP status codes. Unknown errors stay
// internal so storage details never leak to clients.
func statusOf(err error) int {
	switch {
	case errors.Is(err, entity.ErrTermNotFound),
		errors.Is(err, entity.ErrTextNotFound),
		errors.Is(err, entity.ErrLanguageNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrInvalidTermID),
		errors.Is(err, entity.ErrInvalidTextID),
		errors.Is(err, entity.ErrInvalidLanguageID),
		errors.Is(err, entity.ErrInvalidStatus),
		errors.Is(err, entity.ErrNoStatusUpdate),
		errors.Is(err, entity.ErrInvalidSelection),
		errors.Is(err, entity.ErrInvalidWordMode),
		errors.Is(err, entity.ErrInvalidWordRegex),
		errors.Is(err, entity.ErrInvalidListQuery):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
