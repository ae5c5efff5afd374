package memory

import (
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/Apurer/tourbook/internal/devbackend/ports"
	blogdomain "github.com/Apurer/tourbook/internal/domains/blog/domain"
	bookingsdomain "github.com/Apurer/tourbook/internal/domains/bookings/domain"
	reviewsdomain "github.com/Apurer/tourbook/internal/domains/reviews/domain"
)

// BookingRecord is a booking plus the owner and payment bookkeeping the API
// does not expose.
type BookingRecord struct {
	bookingsdomain.Booking
	UserID          string
	PaymentIntentID string
}

// Content holds bookings, reviews and blog posts.
type Content struct {
	mu         sync.RWMutex
	posts      []blogdomain.Post
	reviews    []reviewsdomain.Review
	bookings   map[string]*BookingRecord
	nextReview int
	nextBook   int
}

func NewContent(posts []blogdomain.Post, reviews []reviewsdomain.Review) *Content {
	c := &Content{
		posts:    append([]blogdomain.Post(nil), posts...),
		reviews:  append([]reviewsdomain.Review(nil), reviews...),
		bookings: map[string]*BookingRecord{},
	}
	sort.Slice(c.posts, func(i, j int) bool { return c.posts[i].PublishedAt.After(c.posts[j].PublishedAt) })
	for _, r := range reviews {
		if n, err := strconv.Atoi(r.ID); err == nil && n > c.nextReview {
			c.nextReview = n
		}
	}
	return c
}

// Posts returns posts newest first.
func (c *Content) Posts() []blogdomain.Post {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]blogdomain.Post(nil), c.posts...)
}

func (c *Content) Post(slug string) (blogdomain.Post, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return blogdomain.Post{}, ports.ErrNotFound
}

// ReviewsForTour returns the tour's reviews newest first.
func (c *Content) ReviewsForTour(tourID string) []reviewsdomain.Review {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := []reviewsdomain.Review{}
	for _, r := range c.reviews {
		if r.TourID == tourID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (c *Content) AddReview(r reviewsdomain.Review) reviewsdomain.Review {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextReview++
	r.ID = strconv.Itoa(c.nextReview)
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	c.reviews = append(c.reviews, r)
	return r
}

func (c *Content) DeleteReview(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, r := range c.reviews {
		if r.ID == id {
			c.reviews = append(c.reviews[:i], c.reviews[i+1:]...)
			return nil
		}
	}
	return ports.ErrNotFound
}

func (c *Content) AddBooking(rec BookingRecord) bookingsdomain.Booking {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextBook++
	rec.ID = strconv.Itoa(c.nextBook)
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	c.bookings[rec.ID] = &rec
	return rec.Booking
}

// BookingsForUser returns the user's bookings newest first.
func (c *Content) BookingsForUser(userID string) []bookingsdomain.Booking {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := []bookingsdomain.Booking{}
	for _, rec := range c.bookings {
		if rec.UserID == userID {
			out = append(out, rec.Booking)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// UpdateBooking applies fn to the user's booking under the lock. A booking
// of another user is reported as not found.
func (c *Content) UpdateBooking(userID, id string, fn func(*BookingRecord) error) (bookingsdomain.Booking, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.bookings[id]
	if !ok || rec.UserID != userID {
		return bookingsdomain.Booking{}, ports.ErrNotFound
	}
	next := *rec
	if err := fn(&next); err != nil {
		return bookingsdomain.Booking{}, err
	}
	*rec = next
	return rec.Booking, nil
}

// DeleteUserData drops the bookings of a deleted account.
func (c *Content) DeleteUserData(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, rec := range c.bookings {
		if rec.UserID == userID {
			delete(c.bookings, id)
		}
	}
}
