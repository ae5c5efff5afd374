package session

import (
	"errors"
	"strings"
	"sync"
)

// Listener is notified with the new snapshot after every state change.
type Listener func(Session)

// Store is the single source of truth for the current session. The zero value
// is not usable; construct with NewStore and share the pointer.
type Store struct {
	mu        sync.RWMutex
	user      *User
	token     string
	nextID    int
	listeners map[int]Listener
}

// NewStore returns an empty, unauthenticated store.
func NewStore() *Store {
	return &Store{listeners: map[int]Listener{}}
}

// SetAuth replaces the user and the access token. An empty token or a user
// without an ID clears the session instead, so IsAuthenticated always equals
// "user and token are both set".
func (s *Store) SetAuth(user User, token string) {
	token = strings.TrimSpace(token)
	if token == "" || user.IsZero() {
		s.Logout()
		return
	}
	s.mu.Lock()
	if s.user != nil && *s.user == user && s.token == token {
		s.mu.Unlock()
		return
	}
	u := user
	s.user = &u
	s.token = token
	snap, listeners := s.snapshotLocked(), s.listenersLocked()
	s.mu.Unlock()
	notify(listeners, snap)
}

// Logout clears the user and the access token.
func (s *Store) Logout() {
	s.mu.Lock()
	if s.user == nil && s.token == "" {
		s.mu.Unlock()
		return
	}
	s.user = nil
	s.token = ""
	snap, listeners := s.snapshotLocked(), s.listenersLocked()
	s.mu.Unlock()
	notify(listeners, snap)
}

// User returns a copy of the current user, or nil when logged out.
func (s *Store) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// AccessToken returns the current bearer token, or "" when logged out.
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// IsAuthenticated reports whether a user and a token are both held.
func (s *Store) IsAuthenticated() bool {
	return s.Snapshot().IsAuthenticated()
}

// ErrNoSession is returned by Require when nobody is logged in.
var ErrNoSession = errors.New("no active session")

// Require returns the logged-in user, or ErrNoSession.
func (s *Store) Require() (*User, error) {
	snap := s.Snapshot()
	if !snap.IsAuthenticated() {
		return nil, ErrNoSession
	}
	return snap.User, nil
}

// Snapshot returns a consistent view of user and token.
func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Subscribe registers fn for state changes and returns a function that
// removes it. Listeners run synchronously on the mutating goroutine.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) snapshotLocked() Session {
	snap := Session{AccessToken: s.token}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}

func (s *Store) listenersLocked() []Listener {
	if len(s.listeners) == 0 {
		return nil
	}
	out := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		out = append(out, fn)
	}
	return out
}

func notify(listeners []Listener, snap Session) {
	for _, fn := range listeners {
		fn(snap)
	}
}
