package backend

import (
	"errors"
	"fmt"
	"net/http"

	sharederrors "github.com/Apurer/tourbook/internal/shared/errors"
)

var (
	// ErrSessionExpired is matched by every refresh failure.
	ErrSessionExpired = errors.New("session expired")
	// ErrMissingAccessToken means the refresh endpoint answered 2xx without a token.
	ErrMissingAccessToken = errors.New("refresh response carried no access token")
)

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Method    string
	Path      string
	Status    int
	RequestID string
	Problem   sharederrors.ProblemDetail
}

func (e *APIError) Error() string {
	msg := e.Problem.Error()
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, msg)
}

// Unwrap exposes the decoded problem to errors.As.
func (e *APIError) Unwrap() error {
	return e.Problem
}

// RefreshError is returned when the refresh call itself failed. The session
// has been cleared by the time a caller sees it.
type RefreshError struct {
	Err error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("refresh access token: %v", e.Err)
}

// Unwrap matches both ErrSessionExpired and the underlying refresh failure.
func (e *RefreshError) Unwrap() []error {
	return []error{ErrSessionExpired, e.Err}
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsUnauthorized reports whether err is a backend 401.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}
