package application

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Apurer/tourbook/internal/clients/http/backend"
	"github.com/Apurer/tourbook/internal/domains/bookings/domain"
	"github.com/Apurer/tourbook/internal/domains/bookings/ports"
	"github.com/Apurer/tourbook/internal/platform/validation"
	"github.com/Apurer/tourbook/internal/session"
)

// Service drives bookings and payments. Prices, availability and payment
// verification are decided by the backend; the service only validates input
// shape and requires a session.
type Service struct {
	api   backend.Requester
	store *session.Store
	now   func() time.Time
}

func NewService(api backend.Requester, store *session.Store) *Service {
	return &Service{api: api, store: store, now: time.Now}
}

func (s *Service) Create(ctx context.Context, form domain.BookingForm) (*domain.Booking, error) {
	if _, err := s.store.Require(); err != nil {
		return nil, err
	}
	form.TourID = strings.TrimSpace(form.TourID)
	form.ContactPhone = strings.TrimSpace(form.ContactPhone)
	if err := form.Validate(s.now()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	req, err := backend.NewJSONRequest(http.MethodPost, "/bookings", form)
	if err != nil {
		return nil, err
	}
	var booking domain.Booking
	if _, err := s.api.Do(ctx, req, &booking); err != nil {
		return nil, mapError(err)
	}
	return &booking, nil
}

func (s *Service) ListMine(ctx context.Context) ([]domain.Booking, error) {
	if _, err := s.store.Require(); err != nil {
		return nil, err
	}
	var bookings []domain.Booking
	if _, err := s.api.Do(ctx, backend.NewRequest(http.MethodGet, "/bookings/me"), &bookings); err != nil {
		return nil, mapError(err)
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	return bookings, nil
}

func (s *Service) Cancel(ctx context.Context, id string) (*domain.Booking, error) {
	if _, err := s.store.Require(); err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: booking id is required", ErrInvalidInput)
	}
	var booking domain.Booking
	path := "/bookings/" + url.PathEscape(id) + "/cancel"
	if _, err := s.api.Do(ctx, backend.NewRequest(http.MethodPatch, path), &booking); err != nil {
		return nil, mapError(err)
	}
	return &booking, nil
}

func (s *Service) CreatePaymentIntent(ctx context.Context, bookingID string) (*domain.PaymentIntent, error) {
	if _, err := s.store.Require(); err != nil {
		return nil, err
	}
	bookingID = strings.TrimSpace(bookingID)
	if bookingID == "" {
		return nil, fmt.Errorf("%w: booking id is required", ErrInvalidInput)
	}
	req, err := backend.NewJSONRequest(http.MethodPost, "/payments/intent", map[string]string{"bookingId": bookingID})
	if err != nil {
		return nil, err
	}
	var intent domain.PaymentIntent
	if _, err := s.api.Do(ctx, req, &intent); err != nil {
		return nil, mapError(err)
	}
	if intent.BookingID == "" {
		intent.BookingID = bookingID
	}
	return &intent, nil
}

func (s *Service) VerifyPayment(ctx context.Context, v domain.PaymentVerification) (*domain.Booking, error) {
	if _, err := s.store.Require(); err != nil {
		return nil, err
	}
	if err := validation.Struct(v); err != nil {
		return nil, mapError(err)
	}
	req, err := backend.NewJSONRequest(http.MethodPost, "/payments/verify", v)
	if err != nil {
		return nil, err
	}
	var booking domain.Booking
	if _, err := s.api.Do(ctx, req, &booking); err != nil {
		return nil, mapError(err)
	}
	return &booking, nil
}

var _ ports.Service = (*Service)(nil)
