package httpapi

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/tourbook/internal/devbackend/accounts"
	"github.com/Apurer/tourbook/internal/devbackend/ports"
	"github.com/Apurer/tourbook/internal/devbackend/tokens"
	authdomain "github.com/Apurer/tourbook/internal/domains/auth/domain"
)

const maxAvatarBytes = 2 << 20

type registerRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=80"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"omitempty,min=7,max=20"`
	Password string `json:"password" binding:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type profileRequest struct {
	Name  string `json:"name" binding:"omitempty,min=2,max=80"`
	Phone string `json:"phone" binding:"omitempty,min=7,max=20"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

// POST /api/auth/register
func (s *server) register(c *gin.Context) {
	var req registerRequest
	if !s.bindJSON(c, &req) {
		return
	}
	acc, err := s.Accounts.Register(req.Name, req.Email, req.Phone, req.Password)
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, acc.Public())
}

// POST /api/auth/login
// Issues an access token and sets the refresh cookie.
func (s *server) login(c *gin.Context) {
	var req loginRequest
	if !s.bindJSON(c, &req) {
		return
	}
	acc, err := s.Accounts.Authenticate(req.Email, req.Password)
	if err != nil {
		s.responder.Unauthorized(c, "invalid email or password")
		return
	}
	s.issueSession(c, acc)
}

// POST /api/auth/refresh-token
// Trades the refresh cookie for a new access token and rotates the cookie.
// A presented cookie is consumed whether or not it is still valid.
func (s *server) refresh(c *gin.Context) {
	raw, err := c.Cookie(RefreshCookie)
	if err != nil || strings.TrimSpace(raw) == "" {
		s.responder.Unauthorized(c, "missing refresh token")
		return
	}
	ctx := c.Request.Context()
	hash := tokens.HashRefreshToken(raw)
	sess, err := s.Sessions.Take(ctx, hash)
	if errors.Is(err, ports.ErrNotFound) {
		s.clearRefreshCookie(c)
		s.responder.Unauthorized(c, "invalid refresh token")
		return
	}
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	if sess.Expired(s.Now()) {
		s.clearRefreshCookie(c)
		s.responder.Unauthorized(c, "refresh token expired")
		return
	}
	acc, err := s.Accounts.Get(sess.UserID)
	if err != nil {
		s.clearRefreshCookie(c)
		s.responder.Unauthorized(c, "account no longer exists")
		return
	}
	s.issueSession(c, acc)
}

// POST /api/auth/logout
func (s *server) logout(c *gin.Context) {
	if raw, err := c.Cookie(RefreshCookie); err == nil && raw != "" {
		if err := s.Sessions.Delete(c.Request.Context(), tokens.HashRefreshToken(raw)); err != nil {
			s.Logger.Warn("failed to revoke refresh session", slog.String("error", err.Error()))
		}
	}
	s.clearRefreshCookie(c)
	c.Status(http.StatusNoContent)
}

// GET /api/auth/me
func (s *server) me(c *gin.Context) {
	c.JSON(http.StatusOK, currentAccount(c).Public())
}

// PATCH /api/auth/change-password
func (s *server) changePassword(c *gin.Context) {
	var req changePasswordRequest
	if !s.bindJSON(c, &req) {
		return
	}
	err := s.Accounts.ChangePassword(currentAccount(c).ID, req.CurrentPassword, req.NewPassword)
	if errors.Is(err, accounts.ErrBadCredentials) {
		s.responder.BadRequest(c, "current password is incorrect")
		return
	}
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PATCH /api/users/me
func (s *server) updateProfile(c *gin.Context) {
	var req profileRequest
	if !s.bindJSON(c, &req) {
		return
	}
	acc, err := s.Accounts.UpdateProfile(currentAccount(c).ID, req.Name, req.Phone)
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, acc.Public())
}

// POST /api/users/me/avatar
// Only the resulting URL is recorded; the upload itself is discarded.
func (s *server) uploadAvatar(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxAvatarBytes)
	header, err := c.FormFile("avatar")
	if err != nil {
		s.responder.BadRequest(c, "multipart field \"avatar\" is required")
		return
	}
	acc := currentAccount(c)
	url := fmt.Sprintf("/uploads/avatars/%s/%s", acc.ID, path.Base(header.Filename))
	updated, err := s.Accounts.SetAvatar(acc.ID, url)
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated.Public())
}

// DELETE /api/users/me
func (s *server) deleteAccount(c *gin.Context) {
	acc := currentAccount(c)
	if err := s.Accounts.Delete(acc.ID); err != nil {
		s.responder.RespondError(c, err)
		return
	}
	if err := s.Sessions.DeleteForUser(c.Request.Context(), acc.ID); err != nil {
		s.Logger.Warn("failed to revoke sessions of deleted account", slog.String("user_id", acc.ID), slog.String("error", err.Error()))
	}
	s.Content.DeleteUserData(acc.ID)
	s.clearRefreshCookie(c)
	c.Status(http.StatusNoContent)
}

func (s *server) issueSession(c *gin.Context, acc accounts.Account) {
	access, _, err := s.Issuer.Issue(acc.ID, acc.Role)
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	raw, hash, err := tokens.NewRefreshToken()
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	now := s.Now()
	if err := s.Sessions.Save(c.Request.Context(), ports.RefreshSession{
		TokenHash: hash,
		UserID:    acc.ID,
		ExpiresAt: now.Add(s.RefreshTTL),
		CreatedAt: now,
	}); err != nil {
		s.responder.RespondError(c, err)
		return
	}
	s.setRefreshCookie(c, raw, int(s.RefreshTTL.Seconds()))
	user := acc.Public()
	c.JSON(http.StatusOK, authdomain.AuthResult{AccessToken: access, User: &user})
}

func (s *server) setRefreshCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(RefreshCookie, value, maxAge, RefreshCookiePath, "", s.CookieSecure, true)
}

func (s *server) clearRefreshCookie(c *gin.Context) {
	s.setRefreshCookie(c, "", -1)
}
