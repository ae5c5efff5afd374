package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	authdomain "github.com/Apurer/tourbook/internal/domains/auth/domain"
	authports "github.com/Apurer/tourbook/internal/domains/auth/ports"
	"github.com/Apurer/tourbook/internal/session"
)

const tracerName = "github.com/Apurer/tourbook/internal/domains/auth/adapters/observability/service"

// Service decorates the auth service with tracing, logging, and metrics.
type Service struct {
	inner   authports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) { s.metrics = newServiceMetrics(m) }
}

// New wraps the core auth service.
func New(inner authports.Service, opts ...Option) authports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

func (s *Service) Login(ctx context.Context, form authdomain.LoginForm) (*session.User, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.Login")
	defer span.End()
	user, err := s.inner.Login(ctx, form)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "login failed")
	}
	s.metrics.recordLogin(ctx)
	span.SetAttributes(attribute.String("user.id", user.ID))
	s.logInfo(ctx, "logged in", slog.String("user_id", user.ID))
	return user, nil
}

func (s *Service) Register(ctx context.Context, form authdomain.RegisterForm) (*session.User, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.Register")
	defer span.End()
	user, err := s.inner.Register(ctx, form)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "registration failed")
	}
	s.metrics.recordRegistered(ctx)
	s.logInfo(ctx, "account registered", slog.String("user_id", user.ID))
	return user, nil
}

func (s *Service) Restore(ctx context.Context) (*session.User, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.Restore")
	defer span.End()
	user, err := s.inner.Restore(ctx)
	if err != nil {
		// An absent or expired cookie is the normal logged-out start.
		span.SetAttributes(attribute.Bool("session.restored", false))
		s.logInfo(ctx, "no session to restore", slog.String("reason", err.Error()))
		return nil, err
	}
	s.metrics.recordRestored(ctx)
	span.SetAttributes(attribute.Bool("session.restored", true))
	return user, nil
}

func (s *Service) Logout(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "AuthService.Logout")
	defer span.End()
	if err := s.inner.Logout(ctx); err != nil {
		return s.handleError(ctx, span, err, "logout could not revoke the session")
	}
	return nil
}

func (s *Service) Me(ctx context.Context) (*session.User, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.Me")
	defer span.End()
	user, err := s.inner.Me(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load profile")
	}
	return user, nil
}

func (s *Service) UpdateProfile(ctx context.Context, form authdomain.ProfileForm) (*session.User, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.UpdateProfile")
	defer span.End()
	user, err := s.inner.UpdateProfile(ctx, form)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update profile")
	}
	s.logInfo(ctx, "profile updated", slog.String("user_id", user.ID))
	return user, nil
}

func (s *Service) UploadAvatar(ctx context.Context, fileName string, file io.Reader) (*session.User, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.UploadAvatar", trace.WithAttributes(attribute.String("file.name", fileName)))
	defer span.End()
	user, err := s.inner.UploadAvatar(ctx, fileName, file)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to upload avatar", slog.String("file", fileName))
	}
	return user, nil
}

func (s *Service) ChangePassword(ctx context.Context, form authdomain.ChangePasswordForm) error {
	ctx, span := s.tracer.Start(ctx, "AuthService.ChangePassword")
	defer span.End()
	if err := s.inner.ChangePassword(ctx, form); err != nil {
		return s.handleError(ctx, span, err, "failed to change password")
	}
	return nil
}

func (s *Service) DeleteAccount(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "AuthService.DeleteAccount")
	defer span.End()
	if err := s.inner.DeleteAccount(ctx); err != nil {
		return s.handleError(ctx, span, err, "failed to delete account")
	}
	s.metrics.recordDeleted(ctx)
	s.logInfo(ctx, "account deleted")
	return nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	attrs = append(attrs, slog.String("error", err.Error()))
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	return err
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

type serviceMetrics struct {
	logins     metric.Int64Counter
	registered metric.Int64Counter
	restored   metric.Int64Counter
	deleted    metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	logins, _ := m.Int64Counter("auth.client.logins", metric.WithDescription("Successful logins"))
	registered, _ := m.Int64Counter("auth.client.registrations", metric.WithDescription("Accounts registered"))
	restored, _ := m.Int64Counter("auth.client.restores", metric.WithDescription("Sessions restored from the refresh cookie"))
	deleted, _ := m.Int64Counter("auth.client.deletions", metric.WithDescription("Accounts deleted"))
	return serviceMetrics{logins: logins, registered: registered, restored: restored, deleted: deleted}
}

func (m serviceMetrics) recordLogin(ctx context.Context) {
	if m.logins != nil {
		m.logins.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordRegistered(ctx context.Context) {
	if m.registered != nil {
		m.registered.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordRestored(ctx context.Context) {
	if m.restored != nil {
		m.restored.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	if m.deleted != nil {
		m.deleted.Add(ctx, 1)
	}
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var _ authports.Service = (*Service)(nil)
