// Package httpapi serves the development backend: the auth contract the
// tourbook client is built against plus a seeded catalog, blog, reviews,
// bookings and payments.
package httpapi

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/Apurer/tourbook/internal/devbackend/accounts"
	"github.com/Apurer/tourbook/internal/devbackend/adapters/memory"
	"github.com/Apurer/tourbook/internal/devbackend/ports"
	"github.com/Apurer/tourbook/internal/devbackend/tokens"
	"github.com/Apurer/tourbook/internal/platform/validation"
	sharederrors "github.com/Apurer/tourbook/internal/shared/errors"
)

const (
	// RefreshCookie is the name of the HttpOnly refresh cookie.
	RefreshCookie = "refresh_token"
	// RefreshCookiePath scopes the cookie to the auth endpoints.
	RefreshCookiePath = "/api/auth"

	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// Config wires the router's dependencies. Accounts, Sessions, Catalog,
// Content and Issuer are required.
type Config struct {
	Accounts     *accounts.Registry
	Sessions     ports.RefreshSessionStore
	Catalog      ports.Catalog
	Content      *memory.Content
	Issuer       *tokens.Issuer
	RefreshTTL   time.Duration
	CookieSecure bool
	// ServiceName enables otelgin tracing when set.
	ServiceName string
	Logger      *slog.Logger
	Now         func() time.Time
}

type server struct {
	Config
	responder *sharederrors.Responder
}

// NewRouter builds the gin engine with every route mounted under /api.
func NewRouter(cfg Config) (*gin.Engine, error) {
	if cfg.Accounts == nil || cfg.Sessions == nil || cfg.Catalog == nil || cfg.Content == nil || cfg.Issuer == nil {
		return nil, errors.New("httpapi: accounts, sessions, catalog, content and issuer are required")
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = DefaultRefreshTTL
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	s := &server{Config: cfg, responder: sharederrors.NewResponder(mapError)}

	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		router.Use(otelgin.Middleware(cfg.ServiceName))
	}
	router.Use(requestID(), accessLog(cfg.Logger))
	router.NoRoute(func(c *gin.Context) {
		s.responder.Respond(c, sharederrors.NewNotFoundProblem("route", c.Request.URL.Path))
	})

	api := router.Group("/api")
	api.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	auth := api.Group("/auth")
	auth.POST("/register", s.register)
	auth.POST("/login", s.login)
	auth.POST("/refresh-token", s.refresh)
	auth.POST("/logout", s.logout)
	auth.GET("/me", s.requireAuth, s.me)
	auth.PATCH("/change-password", s.requireAuth, s.changePassword)

	users := api.Group("/users/me", s.requireAuth)
	users.PATCH("", s.updateProfile)
	users.POST("/avatar", s.uploadAvatar)
	users.DELETE("", s.deleteAccount)

	api.GET("/tours", s.listTours)
	api.GET("/tours/:slug", s.getTour)
	api.GET("/tours/:slug/reviews", s.listReviews)
	api.POST("/reviews", s.requireAuth, s.createReview)
	api.DELETE("/reviews/:id", s.requireAuth, s.requireAdmin, s.deleteReview)

	api.GET("/blogs", s.listPosts)
	api.GET("/blogs/:slug", s.getPost)

	bookings := api.Group("", s.requireAuth)
	bookings.POST("/bookings", s.createBooking)
	bookings.GET("/bookings/me", s.listBookings)
	bookings.PATCH("/bookings/:id/cancel", s.cancelBooking)
	bookings.POST("/payments/intent", s.createPaymentIntent)
	bookings.POST("/payments/verify", s.verifyPayment)

	return router, nil
}

func mapError(err error) (sharederrors.ProblemDetail, bool) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		return sharederrors.NewValidationProblem(verr.Fields), true
	case errors.Is(err, ports.ErrNotFound), errors.Is(err, accounts.ErrNotFound):
		return sharederrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, accounts.ErrEmailTaken):
		return sharederrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, accounts.ErrBadCredentials):
		return sharederrors.ErrUnauthorized.WithDetail(err.Error()), true
	}
	return sharederrors.ProblemDetail{}, false
}
