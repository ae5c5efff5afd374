package ports

import (
	"context"

	"github.com/Apurer/tourbook/internal/domains/bookings/domain"
)

// Service exposes the booking and payment flows of the logged-in user.
type Service interface {
	Create(ctx context.Context, form domain.BookingForm) (*domain.Booking, error)
	ListMine(ctx context.Context) ([]domain.Booking, error)
	Cancel(ctx context.Context, id string) (*domain.Booking, error)
	CreatePaymentIntent(ctx context.Context, bookingID string) (*domain.PaymentIntent, error)
	VerifyPayment(ctx context.Context, v domain.PaymentVerification) (*domain.Booking, error)
}
