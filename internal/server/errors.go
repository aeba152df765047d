// Package server provides the HTTP REST API for the jd matcher.
package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/jd-matcher/internal/embedding"
	"github.com/jonathan/jd-matcher/internal/entitlement"
	"github.com/jonathan/jd-matcher/internal/ingestion"
	"github.com/jonathan/jd-matcher/internal/pipeline"
	"github.com/jonathan/jd-matcher/internal/report"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validation *ErrValidation
		fields     validator.ValidationErrors
	)
	switch {
	case err == nil:
		return http.StatusInternalServerError
	case errors.Is(err, embedding.ErrModelUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, ingestion.ErrUnsupportedFileType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, pipeline.ErrStaleAnalysis):
		return http.StatusConflict
	case errors.Is(err, report.ErrInvalidScorecard),
		errors.Is(err, entitlement.ErrInvalidSignature),
		errors.As(err, &validation),
		errors.As(err, &fields):
		return http.StatusBadRequest
	case errors.Is(err, entitlement.ErrNotConfigured):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage returns the client-facing message for err. Internal errors are
// not echoed back.
func errorMessage(err error) string {
	var fields validator.ValidationErrors
	if errors.As(err, &fields) {
		msgs := make([]string, 0, len(fields))
		for _, fe := range fields {
			msgs = append(msgs, fmt.Sprintf("%s failed on '%s'", strings.ToLower(fe.Field()), fe.Tag()))
		}
		return "validation error: " + strings.Join(msgs, "; ")
	}
	if HTTPStatus(err) == http.StatusInternalServerError {
		return "internal error"
	}
	return err.Error()
}
