// ABOUTME: Normalized error values returned by the API client
// ABOUTME: Carries HTTP status, message, and field-level validation errors

package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrUnauthorized matches any error produced by a 401 response
var ErrUnauthorized = errors.New("unauthorized")

// FieldError is a per-field validation failure reported by the API
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse is the error body served by the API
type ErrorResponse struct {
	Status      int          `json:"status"`
	Message     string       `json:"message"`
	Error       string       `json:"error"`
	FieldErrors []FieldError `json:"fieldErrors,omitempty"`
}

// APIError is the normalized form of every failed call. Status is 0 when the
// request never produced an HTTP response.
type APIError struct {
	Status      int
	Message     string
	FieldErrors []FieldError
	Err         error
}

func (e *APIError) Error() string {
	var sb strings.Builder
	if e.Status > 0 {
		fmt.Fprintf(&sb, "API error %d: %s", e.Status, e.Message)
	} else {
		sb.WriteString(e.Message)
	}
	for _, fe := range e.FieldErrors {
		fmt.Fprintf(&sb, "; %s: %s", fe.Field, fe.Message)
	}
	if e.Err != nil && e.Status == 0 {
		fmt.Fprintf(&sb, ": %v", e.Err)
	}
	return sb.String()
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Is reports 401 errors as ErrUnauthorized
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// IsTransport reports whether the call failed before any HTTP response arrived
func (e *APIError) IsTransport() bool {
	return e.Status == 0
}

// StatusOf returns the HTTP status carried by err, or 0
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
