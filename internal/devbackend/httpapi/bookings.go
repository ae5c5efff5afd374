package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Apurer/tourbook/internal/devbackend/adapters/memory"
	"github.com/Apurer/tourbook/internal/devbackend/ports"
	bookingsdomain "github.com/Apurer/tourbook/internal/domains/bookings/domain"
	sharederrors "github.com/Apurer/tourbook/internal/shared/errors"
)

const currency = "usd"

type bookingRequest struct {
	TourID       string `json:"tourId" binding:"required"`
	Date         string `json:"date" binding:"required"`
	Guests       int    `json:"guests" binding:"required"`
	ContactPhone string `json:"contactPhone"`
}

type paymentIntentRequest struct {
	BookingID string `json:"bookingId" binding:"required"`
}

type verifyPaymentRequest struct {
	BookingID       string `json:"bookingId" binding:"required"`
	PaymentIntentID string `json:"paymentIntentId" binding:"required"`
}

// POST /api/bookings
func (s *server) createBooking(c *gin.Context) {
	var req bookingRequest
	if !s.bindJSON(c, &req) {
		return
	}
	form := bookingsdomain.BookingForm(req)
	err := form.Validate(s.Now())
	if errors.Is(err, bookingsdomain.ErrDateInPast) {
		s.responder.BadRequest(c, err.Error())
		return
	}
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	tour, err := s.Catalog.GetByID(c.Request.Context(), form.TourID)
	if errors.Is(err, ports.ErrNotFound) {
		s.responder.Respond(c, sharederrors.NewNotFoundProblem("tour", form.TourID))
		return
	}
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	booking := s.Content.AddBooking(memory.BookingRecord{
		UserID: currentAccount(c).ID,
		Booking: bookingsdomain.Booking{
			TourID:        tour.ID,
			TourTitle:     tour.Title,
			Date:          form.Date,
			Guests:        form.Guests,
			TotalPrice:    tour.Price * float64(form.Guests),
			Status:        bookingsdomain.StatusPending,
			PaymentStatus: bookingsdomain.PaymentUnpaid,
			CreatedAt:     s.Now().UTC(),
		},
	})
	c.JSON(http.StatusCreated, booking)
}

// GET /api/bookings/me
func (s *server) listBookings(c *gin.Context) {
	c.JSON(http.StatusOK, s.Content.BookingsForUser(currentAccount(c).ID))
}

// PATCH /api/bookings/:id/cancel
func (s *server) cancelBooking(c *gin.Context) {
	booking, err := s.Content.UpdateBooking(currentAccount(c).ID, c.Param("id"), func(r *memory.BookingRecord) error {
		if !r.Cancellable() {
			return sharederrors.ErrConflict.WithDetail("booking already cancelled")
		}
		r.Status = bookingsdomain.StatusCancelled
		return nil
	})
	s.respondBooking(c, booking, err)
}

// POST /api/payments/intent
func (s *server) createPaymentIntent(c *gin.Context) {
	var req paymentIntentRequest
	if !s.bindJSON(c, &req) {
		return
	}
	intentID := "pi_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	booking, err := s.Content.UpdateBooking(currentAccount(c).ID, req.BookingID, func(r *memory.BookingRecord) error {
		if !r.Payable() {
			return sharederrors.ErrConflict.WithDetail("booking cannot be paid")
		}
		r.PaymentIntentID = intentID
		return nil
	})
	if err != nil {
		s.respondBooking(c, booking, err)
		return
	}
	c.JSON(http.StatusOK, bookingsdomain.PaymentIntent{
		BookingID:       booking.ID,
		PaymentIntentID: intentID,
		ClientSecret:    intentID + "_secret_" + uuid.NewString()[:8],
		Amount:          booking.TotalPrice,
		Currency:        currency,
	})
}

// POST /api/payments/verify
func (s *server) verifyPayment(c *gin.Context) {
	var req verifyPaymentRequest
	if !s.bindJSON(c, &req) {
		return
	}
	booking, err := s.Content.UpdateBooking(currentAccount(c).ID, req.BookingID, func(r *memory.BookingRecord) error {
		if r.PaymentIntentID == "" || r.PaymentIntentID != req.PaymentIntentID {
			return sharederrors.ErrBadRequest.WithDetail("payment intent does not belong to booking")
		}
		if !r.Payable() {
			return sharederrors.ErrConflict.WithDetail("booking cannot be paid")
		}
		r.PaymentStatus = bookingsdomain.PaymentPaid
		r.Status = bookingsdomain.StatusConfirmed
		return nil
	})
	s.respondBooking(c, booking, err)
}

func (s *server) respondBooking(c *gin.Context, booking bookingsdomain.Booking, err error) {
	if errors.Is(err, ports.ErrNotFound) {
		s.responder.Respond(c, sharederrors.NewNotFoundProblem("booking", c.Param("id")))
		return
	}
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}
