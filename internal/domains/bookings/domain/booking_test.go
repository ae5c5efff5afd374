package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/tourbook/internal/platform/validation"
)

func TestBookingForm_Validate(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		form    BookingForm
		wantErr error
		field   string
	}{
		{name: "today is allowed", form: BookingForm{TourID: "t1", Date: "2026-03-10", Guests: 2}},
		{name: "future", form: BookingForm{TourID: "t1", Date: "2026-04-01", Guests: 20, ContactPhone: "9800000000"}},
		{name: "past", form: BookingForm{TourID: "t1", Date: "2026-03-09", Guests: 1}, wantErr: ErrDateInPast},
		{name: "missing tour", form: BookingForm{Date: "2026-04-01", Guests: 1}, field: "tourId"},
		{name: "bad date", form: BookingForm{TourID: "t1", Date: "04/01/2026", Guests: 1}, field: "date"},
		{name: "no guests", form: BookingForm{TourID: "t1", Date: "2026-04-01"}, field: "guests"},
		{name: "too many guests", form: BookingForm{TourID: "t1", Date: "2026-04-01", Guests: 21}, field: "guests"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.form.Validate(now)
			switch {
			case tc.wantErr != nil:
				require.ErrorIs(t, err, tc.wantErr)
			case tc.field != "":
				var verr *validation.Error
				require.ErrorAs(t, err, &verr)
				require.Contains(t, verr.Fields, tc.field)
			default:
				require.NoError(t, err)
			}
		})
	}
}

func TestBooking_Flags(t *testing.T) {
	b := Booking{Status: StatusPending, PaymentStatus: PaymentUnpaid}
	require.True(t, b.Cancellable())
	require.True(t, b.Payable())

	b.PaymentStatus = PaymentPaid
	require.False(t, b.Payable())

	b.Status = StatusCancelled
	require.False(t, b.Cancellable())
}
