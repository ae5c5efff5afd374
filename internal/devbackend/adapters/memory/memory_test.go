package memory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/tourbook/internal/devbackend/ports"
	bookingsdomain "github.com/Apurer/tourbook/internal/domains/bookings/domain"
	reviewsdomain "github.com/Apurer/tourbook/internal/domains/reviews/domain"
	toursdomain "github.com/Apurer/tourbook/internal/domains/tours/domain"
)

func TestRefreshSessions(t *testing.T) {
	ctx := context.Background()
	store := NewRefreshSessions()
	now := time.Now()

	require.NoError(t, store.Save(ctx, ports.RefreshSession{TokenHash: "h1", UserID: "1", ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, store.Save(ctx, ports.RefreshSession{TokenHash: "h2", UserID: "1", ExpiresAt: now.Add(-time.Minute)}))
	require.NoError(t, store.Save(ctx, ports.RefreshSession{TokenHash: "h3", UserID: "2", ExpiresAt: now.Add(time.Hour)}))
	require.Error(t, store.Save(ctx, ports.RefreshSession{UserID: "1"}))

	got, err := store.Get(ctx, "h1")
	require.NoError(t, err)
	require.Equal(t, "1", got.UserID)
	require.False(t, got.CreatedAt.IsZero())

	n, err := store.PurgeExpired(ctx, now)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
	_, err = store.Get(ctx, "h2")
	require.ErrorIs(t, err, ports.ErrNotFound)

	require.NoError(t, store.DeleteForUser(ctx, "1"))
	_, err = store.Get(ctx, "h1")
	require.ErrorIs(t, err, ports.ErrNotFound)
	_, err = store.Get(ctx, "h3")
	require.NoError(t, err)
}

func TestRefreshSessions_TakeIsSingleUse(t *testing.T) {
	ctx := context.Background()
	store := NewRefreshSessions()
	require.NoError(t, store.Save(ctx, ports.RefreshSession{TokenHash: "h1", UserID: "1", ExpiresAt: time.Now().Add(time.Hour)}))

	var taken, missing atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess, err := store.Take(ctx, "h1")
			switch {
			case err == nil && sess.UserID == "1":
				taken.Add(1)
			case errors.Is(err, ports.ErrNotFound):
				missing.Add(1)
			}
		}()
	}
	wg.Wait()

	require.EqualValues(t, 1, taken.Load())
	require.EqualValues(t, 15, missing.Load())
	_, err := store.Get(ctx, "h1")
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestCatalog(t *testing.T) {
	ctx := context.Background()
	c := NewCatalog()
	require.NoError(t, c.Save(ctx, toursdomain.Tour{ID: "2", Slug: "chitwan-safari"}))
	require.NoError(t, c.Save(ctx, toursdomain.Tour{ID: "1", Slug: "everest-base-camp"}))
	require.Error(t, c.Save(ctx, toursdomain.Tour{ID: "3"}))

	list, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "1", list[0].ID)

	tour, err := c.GetBySlug(ctx, "chitwan-safari")
	require.NoError(t, err)
	require.Equal(t, "2", tour.ID)

	_, err = c.GetByID(ctx, "9")
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestContent_BookingsAreScopedToOwner(t *testing.T) {
	c := NewContent(nil, nil)
	b := c.AddBooking(BookingRecord{UserID: "1", Booking: bookingsdomain.Booking{TourID: "t1", Status: bookingsdomain.StatusPending}})
	c.AddBooking(BookingRecord{UserID: "2", Booking: bookingsdomain.Booking{TourID: "t1"}})

	require.Len(t, c.BookingsForUser("1"), 1)

	_, err := c.UpdateBooking("2", b.ID, func(r *BookingRecord) error { return nil })
	require.ErrorIs(t, err, ports.ErrNotFound)

	updated, err := c.UpdateBooking("1", b.ID, func(r *BookingRecord) error {
		r.Status = bookingsdomain.StatusCancelled
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, bookingsdomain.StatusCancelled, updated.Status)

	c.DeleteUserData("1")
	require.Empty(t, c.BookingsForUser("1"))
}

func TestContent_Reviews(t *testing.T) {
	c := NewContent(nil, []reviewsdomain.Review{{ID: "7", TourID: "t1", Rating: 4}})
	added := c.AddReview(reviewsdomain.Review{TourID: "t1", Rating: 5})
	require.Equal(t, "8", added.ID)
	require.Len(t, c.ReviewsForTour("t1"), 2)
	require.Equal(t, "8", c.ReviewsForTour("t1")[0].ID)

	require.NoError(t, c.DeleteReview("7"))
	require.ErrorIs(t, c.DeleteReview("7"), ports.ErrNotFound)
}
