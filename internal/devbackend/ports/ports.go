package ports

import (
	"context"
	"errors"
	"time"

	toursdomain "github.com/Apurer/tourbook/internal/domains/tours/domain"
)

// ErrNotFound is returned by adapters when a record does not exist.
var ErrNotFound = errors.New("not found")

// RefreshSession is one issued refresh cookie. Only the hash of the cookie
// value is stored.
type RefreshSession struct {
	TokenHash string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the session is past its expiry at now.
func (s RefreshSession) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// RefreshSessionStore persists refresh sessions.
type RefreshSessionStore interface {
	Save(ctx context.Context, s RefreshSession) error
	Get(ctx context.Context, tokenHash string) (*RefreshSession, error)
	// Take deletes the session and returns it in one step, so a refresh
	// token can be redeemed at most once. ErrNotFound if absent.
	Take(ctx context.Context, tokenHash string) (*RefreshSession, error)
	Delete(ctx context.Context, tokenHash string) error
	DeleteForUser(ctx context.Context, userID string) error
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// Catalog stores the tour catalog.
type Catalog interface {
	Save(ctx context.Context, tour toursdomain.Tour) error
	List(ctx context.Context) ([]toursdomain.Tour, error)
	GetBySlug(ctx context.Context, slug string) (*toursdomain.Tour, error)
	GetByID(ctx context.Context, id string) (*toursdomain.Tour, error)
}
