package domain

import (
	"strings"

	"github.com/Apurer/tourbook/internal/platform/validation"
	"github.com/Apurer/tourbook/internal/session"
)

// LoginForm is submitted by the sign-in page.
type LoginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterForm is submitted by the sign-up page.
type RegisterForm struct {
	Name            string `json:"name" validate:"required,min=2,max=80"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone,omitempty" validate:"omitempty,min=7,max=20"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"-" validate:"eqfield=Password"`
}

// ProfileForm updates the editable profile fields. Empty fields are left
// unchanged by the backend.
type ProfileForm struct {
	Name  string `json:"name,omitempty" validate:"omitempty,min=2,max=80"`
	Phone string `json:"phone,omitempty" validate:"omitempty,min=7,max=20"`
}

// ChangePasswordForm is submitted by the profile dashboard.
type ChangePasswordForm struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,nefield=CurrentPassword"`
}

// AuthResult is the body of login and refresh responses.
type AuthResult struct {
	AccessToken string        `json:"accessToken"`
	User        *session.User `json:"user,omitempty"`
}

// Normalize trims whitespace and lower-cases the email.
func (f LoginForm) Normalize() LoginForm {
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	return f
}

// Validate checks the form before it is sent.
func (f LoginForm) Validate() error {
	return validation.Struct(f)
}

// Normalize trims whitespace and lower-cases the email.
func (f RegisterForm) Normalize() RegisterForm {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	f.Phone = strings.TrimSpace(f.Phone)
	return f
}

// Validate checks the form before it is sent.
func (f RegisterForm) Validate() error {
	return validation.Struct(f)
}

// Login derives the credentials used right after registration.
func (f RegisterForm) Login() LoginForm {
	return LoginForm{Email: f.Email, Password: f.Password}
}

// Validate checks the form before it is sent.
func (f ProfileForm) Validate() error {
	return validation.Struct(f)
}

// IsEmpty reports whether nothing would change.
func (f ProfileForm) IsEmpty() bool {
	return strings.TrimSpace(f.Name) == "" && strings.TrimSpace(f.Phone) == ""
}

// Validate checks the form before it is sent.
func (f ChangePasswordForm) Validate() error {
	return validation.Struct(f)
}
