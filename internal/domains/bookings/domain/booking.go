package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Apurer/tourbook/internal/platform/validation"
)

// DateLayout is the wire format of travel dates.
const DateLayout = "2006-01-02"

// Status is the booking lifecycle tag reported by the backend.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// PaymentStatus mirrors the backend's payment tag on a booking.
type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

// ErrDateInPast rejects travel dates before today.
var ErrDateInPast = errors.New("travel date is in the past")

// Booking is a reservation as returned by the API.
type Booking struct {
	ID            string        `json:"id"`
	TourID        string        `json:"tourId"`
	TourTitle     string        `json:"tourTitle,omitempty"`
	Date          string        `json:"date"`
	Guests        int           `json:"guests"`
	TotalPrice    float64       `json:"totalPrice"`
	Status        Status        `json:"status"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// Cancellable reports whether the UI should offer cancellation.
func (b Booking) Cancellable() bool {
	return b.Status != StatusCancelled
}

// Payable reports whether a payment intent makes sense for the booking.
func (b Booking) Payable() bool {
	return b.Status != StatusCancelled && b.PaymentStatus != PaymentPaid
}

// BookingForm is submitted by the booking page.
type BookingForm struct {
	TourID       string `json:"tourId" validate:"required"`
	Date         string `json:"date" validate:"required,datetime=2006-01-02"`
	Guests       int    `json:"guests" validate:"gte=1,lte=20"`
	ContactPhone string `json:"contactPhone,omitempty" validate:"omitempty,min=7,max=20"`
}

// Validate checks field formats and that the date is not before today in
// now's location.
func (f BookingForm) Validate(now time.Time) error {
	f.TourID = strings.TrimSpace(f.TourID)
	if err := validation.Struct(f); err != nil {
		return err
	}
	day, err := time.ParseInLocation(DateLayout, f.Date, now.Location())
	if err != nil {
		return fmt.Errorf("parse date: %w", err)
	}
	y, m, d := now.Date()
	if day.Before(time.Date(y, m, d, 0, 0, 0, 0, now.Location())) {
		return fmt.Errorf("%w: %s", ErrDateInPast, f.Date)
	}
	return nil
}

// PaymentIntent is what the payment provider needs to collect the amount.
type PaymentIntent struct {
	BookingID       string  `json:"bookingId"`
	PaymentIntentID string  `json:"paymentIntentId"`
	ClientSecret    string  `json:"clientSecret"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
}

// PaymentVerification confirms a completed payment with the backend.
type PaymentVerification struct {
	BookingID       string `json:"bookingId" validate:"required"`
	PaymentIntentID string `json:"paymentIntentId" validate:"required"`
}
