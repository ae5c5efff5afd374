package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Apurer/tourbook/internal/clients/http/backend"
	"github.com/Apurer/tourbook/internal/domains/auth/domain"
	"github.com/Apurer/tourbook/internal/domains/auth/ports"
	"github.com/Apurer/tourbook/internal/session"
)

// Service implements the account flows on top of the authenticated client and
// keeps the session store in step with them.
type Service struct {
	api       backend.Requester
	store     *session.Store
	refresher backend.TokenRefresher
}

// NewService wires the service. refresher is used by Restore; pass the
// client's Refresher so start-up restores share in-flight refreshes.
func NewService(api backend.Requester, store *session.Store, refresher backend.TokenRefresher) *Service {
	return &Service{api: api, store: store, refresher: refresher}
}

// Login exchanges credentials for an access token and populates the store.
func (s *Service) Login(ctx context.Context, form domain.LoginForm) (*session.User, error) {
	form = form.Normalize()
	if err := form.Validate(); err != nil {
		return nil, mapError(err)
	}
	req, err := backend.NewJSONRequest(http.MethodPost, "/auth/login", form)
	if err != nil {
		return nil, err
	}
	req.SkipAuthRefresh = true
	var result domain.AuthResult
	if _, err := s.api.Do(ctx, req, &result); err != nil {
		return nil, mapError(err)
	}
	if result.AccessToken == "" || result.User == nil || result.User.IsZero() {
		return nil, fmt.Errorf("%w: login response missing token or user", ErrAuthentication)
	}
	s.store.SetAuth(*result.User, result.AccessToken)
	return s.store.User(), nil
}

// Register creates the account and then logs in with the same credentials.
func (s *Service) Register(ctx context.Context, form domain.RegisterForm) (*session.User, error) {
	form = form.Normalize()
	if err := form.Validate(); err != nil {
		return nil, mapError(err)
	}
	req, err := backend.NewJSONRequest(http.MethodPost, "/auth/register", form)
	if err != nil {
		return nil, err
	}
	req.SkipAuthRefresh = true
	if _, err := s.api.Do(ctx, req, nil); err != nil {
		return nil, mapError(err)
	}
	return s.Login(ctx, form.Login())
}

// Restore silently re-establishes a session from the refresh cookie, the way
// the app does on load. On failure the store is left empty.
func (s *Service) Restore(ctx context.Context) (*session.User, error) {
	if s.store.IsAuthenticated() {
		return s.store.User(), nil
	}
	if s.refresher == nil {
		return nil, ErrNotAuthenticated
	}
	token, err := s.refresher.Refresh(ctx, "")
	if err != nil {
		s.store.Logout()
		return nil, mapError(err)
	}
	if user := s.store.User(); user != nil && s.store.AccessToken() == token {
		return user, nil
	}
	req := backend.NewRequest(http.MethodGet, "/auth/me")
	req.Token = token
	req.SkipAuthRefresh = true
	var user session.User
	if _, err := s.api.Do(ctx, req, &user); err != nil {
		s.store.Logout()
		return nil, mapError(err)
	}
	s.store.SetAuth(user, token)
	if !s.store.IsAuthenticated() {
		return nil, fmt.Errorf("%w: profile response carried no user", ErrNotAuthenticated)
	}
	return s.store.User(), nil
}

// Logout asks the backend to revoke the refresh cookie and always clears the
// local session. The backend error, if any, is returned for logging only.
func (s *Service) Logout(ctx context.Context) error {
	defer s.store.Logout()
	req := backend.NewRequest(http.MethodPost, "/auth/logout")
	req.SkipAuthRefresh = true
	if _, err := s.api.Do(ctx, req, nil); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// Me fetches the profile of the logged-in user and refreshes the stored copy.
func (s *Service) Me(ctx context.Context) (*session.User, error) {
	if !s.store.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	var user session.User
	if _, err := s.api.Do(ctx, backend.NewRequest(http.MethodGet, "/auth/me"), &user); err != nil {
		return nil, mapError(err)
	}
	return s.keepUser(user), nil
}

// UpdateProfile sends the changed profile fields.
func (s *Service) UpdateProfile(ctx context.Context, form domain.ProfileForm) (*session.User, error) {
	if !s.store.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	form.Name = strings.TrimSpace(form.Name)
	form.Phone = strings.TrimSpace(form.Phone)
	if form.IsEmpty() {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}
	if err := form.Validate(); err != nil {
		return nil, mapError(err)
	}
	req, err := backend.NewJSONRequest(http.MethodPatch, "/users/me", form)
	if err != nil {
		return nil, err
	}
	var user session.User
	if _, err := s.api.Do(ctx, req, &user); err != nil {
		return nil, mapError(err)
	}
	return s.keepUser(user), nil
}

// UploadAvatar uploads a profile picture as multipart form data.
func (s *Service) UploadAvatar(ctx context.Context, fileName string, file io.Reader) (*session.User, error) {
	if !s.store.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	if strings.TrimSpace(fileName) == "" || file == nil {
		return nil, fmt.Errorf("%w: avatar file is required", ErrInvalidInput)
	}
	req, err := backend.NewMultipartRequest(http.MethodPost, "/users/me/avatar", nil, "avatar", fileName, file)
	if err != nil {
		return nil, err
	}
	var user session.User
	if _, err := s.api.Do(ctx, req, &user); err != nil {
		return nil, mapError(err)
	}
	return s.keepUser(user), nil
}

// ChangePassword updates the password of the logged-in user.
func (s *Service) ChangePassword(ctx context.Context, form domain.ChangePasswordForm) error {
	if !s.store.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	if err := form.Validate(); err != nil {
		return mapError(err)
	}
	req, err := backend.NewJSONRequest(http.MethodPatch, "/auth/change-password", form)
	if err != nil {
		return err
	}
	_, err = s.api.Do(ctx, req, nil)
	if backend.StatusCode(err) == http.StatusBadRequest {
		return fmt.Errorf("%w: current password rejected", ErrAuthentication)
	}
	return mapError(err)
}

// DeleteAccount removes the account and clears the session.
func (s *Service) DeleteAccount(ctx context.Context) error {
	if !s.store.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	if _, err := s.api.Do(ctx, backend.NewRequest(http.MethodDelete, "/users/me"), nil); err != nil {
		return mapError(err)
	}
	s.store.Logout()
	return nil
}

// keepUser stores the fresh profile under the current token. A concurrent
// logout wins: the store is only updated while a token is still held.
func (s *Service) keepUser(user session.User) *session.User {
	if token := s.store.AccessToken(); token != "" && !user.IsZero() {
		s.store.SetAuth(user, token)
	}
	u := user
	return &u
}

// IsNotAuthenticated reports whether err means the caller must log in again.
func IsNotAuthenticated(err error) bool {
	return errors.Is(err, ErrNotAuthenticated) || errors.Is(err, backend.ErrSessionExpired)
}

var _ ports.Service = (*Service)(nil)
