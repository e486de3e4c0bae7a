package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/resume-parser/internal/pipeline"
)

// ErrValidation indicates request validation failure.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return "validation error: " + e.Field + " - " + e.Message
}

// HTTPStatus maps pipeline and request errors onto HTTP status codes.
// Storage-download failures read as a bad upstream; configuration and
// persistence failures are server faults.
func HTTPStatus(err error) int {
	if errors.Is(err, pipeline.ErrNotFound) {
		return http.StatusNotFound
	}

	var (
		valErr *ErrValidation
		dlErr  *pipeline.DownloadError
	)
	switch {
	case errors.As(err, &valErr):
		return http.StatusBadRequest
	case errors.As(err, &dlErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
