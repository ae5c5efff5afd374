package application

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Apurer/tourbook/internal/clients/http/backend"
	"github.com/Apurer/tourbook/internal/platform/validation"
)

var (
	ErrInvalidInput = errors.New("invalid booking input")
	ErrNotFound     = errors.New("booking not found")
	// ErrRejected wraps 409 answers, e.g. cancelling a cancelled booking or
	// paying twice.
	ErrRejected = errors.New("booking change rejected")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	var verr *validation.Error
	if errors.As(err, &verr) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	switch backend.StatusCode(err) {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case http.StatusConflict:
		return fmt.Errorf("%w: %w", ErrRejected, err)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
