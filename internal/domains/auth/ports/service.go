package ports

import (
	"context"
	"io"

	"github.com/Apurer/tourbook/internal/domains/auth/domain"
	"github.com/Apurer/tourbook/internal/session"
)

// Service is the account and session surface used by the CLI.
type Service interface {
	Login(ctx context.Context, form domain.LoginForm) (*session.User, error)
	Register(ctx context.Context, form domain.RegisterForm) (*session.User, error)
	Restore(ctx context.Context) (*session.User, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*session.User, error)
	UpdateProfile(ctx context.Context, form domain.ProfileForm) (*session.User, error)
	UploadAvatar(ctx context.Context, fileName string, file io.Reader) (*session.User, error)
	ChangePassword(ctx context.Context, form domain.ChangePasswordForm) error
	DeleteAccount(ctx context.Context) error
}
