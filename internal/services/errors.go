package services

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/desertthunder/spindle/internal/models"
	"github.com/desertthunder/spindle/internal/shared"
)

// FallbackErrorMessage is reported when a failed response carries no usable message.
const FallbackErrorMessage = "An unknown error occurred"

// NetworkError reports a request that could not be built, sent, or read.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() []error {
	return []error{shared.ErrNetwork, e.Err}
}

// APIError reports a non-success status. Error returns the extracted message verbatim.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Is(target error) bool {
	switch target {
	case shared.ErrAPIRequest:
		return true
	case shared.ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// ValidationError reports a precondition that failed before any request was made.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() []error {
	return []error{shared.ErrInvalidInput, e.Err}
}

func newValidationError(err error) error {
	return &ValidationError{Err: err}
}

// IsNotFound reports whether err is an [APIError] with status 404.
func IsNotFound(err error) bool {
	return errors.Is(err, shared.ErrNotFound)
}

// FieldOf returns the offending field of a validation failure, or "".
func FieldOf(err error) string {
	var fe *models.FieldError
	if errors.As(err, &fe) {
		return fe.Field
	}
	return ""
}
