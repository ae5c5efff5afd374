package httpapi

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Apurer/tourbook/internal/devbackend/accounts"
	"github.com/Apurer/tourbook/internal/devbackend/tokens"
	sharederrors "github.com/Apurer/tourbook/internal/shared/errors"
)

const (
	headerRequestID = "X-Request-ID"
	ctxRequestID    = "request_id"
	ctxAccount      = "account"
)

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(headerRequestID))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ctxRequestID, id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}

func accessLog(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.LogAttrs(c.Request.Context(), slog.LevelInfo, "request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("request_id", c.GetString(ctxRequestID)),
		)
	}
}

// requireAuth resolves the bearer token to an account.
func (s *server) requireAuth(c *gin.Context) {
	scheme, raw, ok := strings.Cut(c.GetHeader("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
		s.responder.Unauthorized(c, "missing bearer token")
		return
	}
	claims, err := s.Issuer.Parse(strings.TrimSpace(raw))
	switch {
	case errors.Is(err, tokens.ErrExpiredToken):
		s.responder.Unauthorized(c, "access token expired")
		return
	case err != nil:
		s.responder.Unauthorized(c, "invalid access token")
		return
	}
	acc, err := s.Accounts.Get(claims.UserID())
	if err != nil {
		s.responder.Unauthorized(c, "account no longer exists")
		return
	}
	c.Set(ctxAccount, acc)
	c.Next()
}

func (s *server) requireAdmin(c *gin.Context) {
	if !currentAccount(c).Public().IsAdmin() {
		s.responder.Respond(c, sharederrors.ErrForbidden.WithDetail("administrator role required"))
		return
	}
	c.Next()
}

func currentAccount(c *gin.Context) accounts.Account {
	acc, _ := c.Get(ctxAccount)
	a, _ := acc.(accounts.Account)
	return a
}

// bindJSON decodes the body and runs the binding rules. It writes the 400
// response itself and reports false on failure.
func (s *server) bindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[lowerFirst(fe.Field())] = "failed " + fe.Tag()
		}
		s.responder.ValidationFailed(c, fields)
		return false
	}
	s.responder.BadRequest(c, "malformed JSON body")
	return false
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
