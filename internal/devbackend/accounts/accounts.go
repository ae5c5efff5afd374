// Package accounts keeps the dev backend's user accounts in memory with
// bcrypt-hashed passwords.
package accounts

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Apurer/tourbook/internal/session"
)

var (
	ErrNotFound       = errors.New("account not found")
	ErrEmailTaken     = errors.New("email already registered")
	ErrBadCredentials = errors.New("invalid email or password")
)

// Account is a stored user.
type Account struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	Role         string
	Avatar       string
	PasswordHash []byte
	CreatedAt    time.Time
}

// Public is the shape returned to clients.
func (a Account) Public() session.User {
	return session.User{ID: a.ID, Name: a.Name, Email: a.Email, Role: a.Role, Avatar: a.Avatar, Phone: a.Phone}
}

// Registry is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	cost    int
	nextID  int
	byID    map[string]*Account
	byEmail map[string]string
}

// NewRegistry creates an empty registry. cost is the bcrypt work factor;
// values outside bcrypt's range fall back to bcrypt.DefaultCost.
func NewRegistry(cost int) *Registry {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Registry{cost: cost, byID: map[string]*Account{}, byEmail: map[string]string{}}
}

// Register stores a new account with role USER.
func (r *Registry) Register(name, email, phone, password string) (Account, error) {
	return r.create(name, email, phone, password, "USER")
}

// RegisterAdmin stores a new account with role ADMIN.
func (r *Registry) RegisterAdmin(name, email, password string) (Account, error) {
	return r.create(name, email, "", password, session.RoleAdmin)
}

func (r *Registry) create(name, email, phone, password, role string) (Account, error) {
	email = normalizeEmail(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return Account{}, errors.New("email and password are required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), r.cost)
	if err != nil {
		return Account{}, fmt.Errorf("hash password: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[email]; ok {
		return Account{}, ErrEmailTaken
	}
	r.nextID++
	acc := &Account{
		ID:           strconv.Itoa(r.nextID),
		Name:         strings.TrimSpace(name),
		Email:        email,
		Phone:        strings.TrimSpace(phone),
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	r.byID[acc.ID] = acc
	r.byEmail[email] = acc.ID
	return *acc, nil
}

// Authenticate checks credentials.
func (r *Registry) Authenticate(email, password string) (Account, error) {
	r.mu.RLock()
	id, ok := r.byEmail[normalizeEmail(email)]
	var acc Account
	if ok {
		acc = *r.byID[id]
	}
	r.mu.RUnlock()
	if !ok {
		return Account{}, ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte(password)); err != nil {
		return Account{}, ErrBadCredentials
	}
	return acc, nil
}

func (r *Registry) Get(id string) (Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	acc, ok := r.byID[id]
	if !ok {
		return Account{}, ErrNotFound
	}
	return *acc, nil
}

// UpdateProfile changes the non-empty fields.
func (r *Registry) UpdateProfile(id, name, phone string) (Account, error) {
	return r.mutate(id, func(a *Account) {
		if name = strings.TrimSpace(name); name != "" {
			a.Name = name
		}
		if phone = strings.TrimSpace(phone); phone != "" {
			a.Phone = phone
		}
	})
}

func (r *Registry) SetAvatar(id, url string) (Account, error) {
	return r.mutate(id, func(a *Account) { a.Avatar = url })
}

// ChangePassword verifies current before storing next.
func (r *Registry) ChangePassword(id, current, next string) error {
	acc, err := r.Get(id)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte(current)); err != nil {
		return ErrBadCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), r.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	_, err = r.mutate(id, func(a *Account) { a.PasswordHash = hash })
	return err
}

func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	acc, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(r.byEmail, acc.Email)
	delete(r.byID, id)
	return nil
}

func (r *Registry) mutate(id string, fn func(*Account)) (Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	acc, ok := r.byID[id]
	if !ok {
		return Account{}, ErrNotFound
	}
	fn(acc)
	return *acc, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
