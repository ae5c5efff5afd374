package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/Apurer/tourbook/internal/devbackend/ports"
)

// RefreshSessions is an in-memory RefreshSessionStore.
type RefreshSessions struct {
	mu       sync.RWMutex
	sessions map[string]ports.RefreshSession
}

func NewRefreshSessions() *RefreshSessions {
	return &RefreshSessions{sessions: map[string]ports.RefreshSession{}}
}

func (s *RefreshSessions) Save(_ context.Context, sess ports.RefreshSession) error {
	if strings.TrimSpace(sess.TokenHash) == "" || strings.TrimSpace(sess.UserID) == "" {
		return errors.New("token hash and user id are required")
	}
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = time.Now().UTC()
	}
	s.mu.Lock()
	s.sessions[sess.TokenHash] = sess
	s.mu.Unlock()
	return nil
}

func (s *RefreshSessions) Get(_ context.Context, tokenHash string) (*ports.RefreshSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[tokenHash]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return &sess, nil
}

func (s *RefreshSessions) Take(_ context.Context, tokenHash string) (*ports.RefreshSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[tokenHash]
	if !ok {
		return nil, ports.ErrNotFound
	}
	delete(s.sessions, tokenHash)
	return &sess, nil
}

func (s *RefreshSessions) Delete(_ context.Context, tokenHash string) error {
	s.mu.Lock()
	delete(s.sessions, tokenHash)
	s.mu.Unlock()
	return nil
}

func (s *RefreshSessions) DeleteForUser(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for hash, sess := range s.sessions {
		if sess.UserID == userID {
			delete(s.sessions, hash)
		}
	}
	return nil
}

func (s *RefreshSessions) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for hash, sess := range s.sessions {
		if sess.Expired(now) {
			delete(s.sessions, hash)
			n++
		}
	}
	return n, nil
}

var _ ports.RefreshSessionStore = (*RefreshSessions)(nil)
