package application

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Apurer/tourbook/internal/clients/http/backend"
	"github.com/Apurer/tourbook/internal/platform/validation"
)

var (
	// ErrInvalidInput signals the form failed validation before any call.
	ErrInvalidInput = errors.New("invalid account input")
	// ErrAuthentication wraps rejected credentials.
	ErrAuthentication = errors.New("authentication failed")
	// ErrNotAuthenticated means there is no session to act on or restore.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrConflict wraps "account already exists" answers.
	ErrConflict = errors.New("account already exists")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	var verr *validation.Error
	if errors.As(err, &verr) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, backend.ErrSessionExpired) {
		return fmt.Errorf("%w: %w", ErrNotAuthenticated, err)
	}
	switch backend.StatusCode(err) {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %w", ErrAuthentication, err)
	case http.StatusConflict:
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
