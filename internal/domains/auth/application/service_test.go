package application

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/tourbook/internal/clients/http/backend/backendtest"
	"github.com/Apurer/tourbook/internal/domains/auth/domain"
	"github.com/Apurer/tourbook/internal/session"
	sharederrors "github.com/Apurer/tourbook/internal/shared/errors"
)

var amit = session.User{ID: "1", Name: "Amit", Email: "amit@example.com", Role: "USER"}

func newService(t *testing.T, routes map[string]http.HandlerFunc) (*Service, *backendtest.Server) {
	t.Helper()
	srv := backendtest.New(t, routes)
	return NewService(srv.Client, srv.Store, srv.Client.Refresher()), srv
}

func TestLogin_PopulatesStore(t *testing.T) {
	svc, srv := newService(t, map[string]http.HandlerFunc{
		"POST /auth/login": backendtest.JSON(http.StatusOK, domain.AuthResult{AccessToken: "tok123", User: &amit}),
	})

	user, err := svc.Login(context.Background(), domain.LoginForm{Email: " Amit@Example.com ", Password: "secret1"})

	require.NoError(t, err)
	require.Equal(t, "Amit", user.Name)
	require.True(t, srv.Store.IsAuthenticated())
	require.Equal(t, "tok123", srv.Store.AccessToken())

	var sent domain.LoginForm
	require.NoError(t, json.Unmarshal([]byte(srv.Last().Body), &sent))
	require.Equal(t, "amit@example.com", sent.Email)
	require.Equal(t, "application/json", srv.Last().ContentType)
}

func TestLogin_InvalidFormMakesNoCall(t *testing.T) {
	svc, srv := newService(t, nil)

	_, err := svc.Login(context.Background(), domain.LoginForm{Email: "not-an-email"})

	require.ErrorIs(t, err, ErrInvalidInput)
	require.Empty(t, srv.Requests())
}

func TestLogin_BadCredentialsDoNotRefresh(t *testing.T) {
	svc, srv := newService(t, map[string]http.HandlerFunc{
		"POST /auth/login":         backendtest.Problem(sharederrors.ErrUnauthorized.WithDetail("invalid credentials")),
		"POST /auth/refresh-token": backendtest.JSON(http.StatusOK, domain.AuthResult{AccessToken: "should-not-happen"}),
	})

	_, err := svc.Login(context.Background(), domain.LoginForm{Email: "amit@example.com", Password: "wrong"})

	require.ErrorIs(t, err, ErrAuthentication)
	require.Len(t, srv.Requests(), 1)
	require.False(t, srv.Store.IsAuthenticated())
}

func TestRegister_ThenLogin(t *testing.T) {
	svc, srv := newService(t, map[string]http.HandlerFunc{
		"POST /auth/register": backendtest.JSON(http.StatusCreated, amit),
		"POST /auth/login":    backendtest.JSON(http.StatusOK, domain.AuthResult{AccessToken: "tok123", User: &amit}),
	})

	user, err := svc.Register(context.Background(), domain.RegisterForm{
		Name:            "Amit",
		Email:           "amit@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	})

	require.NoError(t, err)
	require.Equal(t, "1", user.ID)
	reqs := srv.Requests()
	require.Len(t, reqs, 2)
	require.Equal(t, "/auth/register", reqs[0].Path)
	require.NotContains(t, reqs[0].Body, "ConfirmPassword")
	require.Equal(t, "/auth/login", reqs[1].Path)
	require.True(t, srv.Store.IsAuthenticated())
}

func TestRegister_PasswordMismatch(t *testing.T) {
	svc, srv := newService(t, nil)

	_, err := svc.Register(context.Background(), domain.RegisterForm{
		Name: "Amit", Email: "amit@example.com", Password: "secret1", ConfirmPassword: "secret2",
	})

	require.ErrorIs(t, err, ErrInvalidInput)
	require.Empty(t, srv.Requests())
}

func TestRegister_Conflict(t *testing.T) {
	svc, _ := newService(t, map[string]http.HandlerFunc{
		"POST /auth/register": backendtest.Problem(sharederrors.ErrConflict.WithDetail("email taken")),
	})

	_, err := svc.Register(context.Background(), domain.RegisterForm{
		Name: "Amit", Email: "amit@example.com", Password: "secret1", ConfirmPassword: "secret1",
	})

	require.ErrorIs(t, err, ErrConflict)
}

func TestRestore_UsesRefreshUser(t *testing.T) {
	svc, srv := newService(t, map[string]http.HandlerFunc{
		"POST /auth/refresh-token": backendtest.JSON(http.StatusOK, domain.AuthResult{AccessToken: "tok456", User: &amit}),
	})

	user, err := svc.Restore(context.Background())

	require.NoError(t, err)
	require.Equal(t, "Amit", user.Name)
	require.Equal(t, "tok456", srv.Store.AccessToken())
	require.Len(t, srv.Requests(), 1)
}

func TestRestore_FetchesProfileWhenRefreshOmitsUser(t *testing.T) {
	svc, srv := newService(t, map[string]http.HandlerFunc{
		"POST /auth/refresh-token": backendtest.JSON(http.StatusOK, domain.AuthResult{AccessToken: "tok456"}),
		"GET /auth/me":             backendtest.JSON(http.StatusOK, amit),
	})

	user, err := svc.Restore(context.Background())

	require.NoError(t, err)
	require.Equal(t, "1", user.ID)
	require.True(t, srv.Store.IsAuthenticated())
	require.Equal(t, "Bearer tok456", srv.Last().Authorization)
}

func TestRestore_ExpiredCookie(t *testing.T) {
	svc, srv := newService(t, map[string]http.HandlerFunc{
		"POST /auth/refresh-token": backendtest.Problem(sharederrors.ErrUnauthorized.WithDetail("refresh token expired")),
	})

	_, err := svc.Restore(context.Background())

	require.ErrorIs(t, err, ErrNotAuthenticated)
	require.True(t, IsNotAuthenticated(err))
	require.False(t, srv.Store.IsAuthenticated())
}

func TestLogout_AlwaysClears(t *testing.T) {
	svc, srv := newService(t, map[string]http.HandlerFunc{
		"POST /auth/logout": backendtest.Problem(sharederrors.ErrInternal),
	})
	srv.Store.SetAuth(amit, "tok123")

	err := svc.Logout(context.Background())

	require.Error(t, err)
	require.False(t, srv.Store.IsAuthenticated())
	require.Equal(t, "Bearer tok123", srv.Last().Authorization)
}

func TestUpdateProfile_StoresReturnedUser(t *testing.T) {
	updated := amit
	updated.Name = "Amit Kumar"
	svc, srv := newService(t, map[string]http.HandlerFunc{
		"PATCH /users/me": backendtest.JSON(http.StatusOK, updated),
	})
	srv.Store.SetAuth(amit, "tok123")

	user, err := svc.UpdateProfile(context.Background(), domain.ProfileForm{Name: " Amit Kumar "})

	require.NoError(t, err)
	require.Equal(t, "Amit Kumar", user.Name)
	require.Equal(t, "Amit Kumar", srv.Store.User().Name)
	require.Equal(t, "tok123", srv.Store.AccessToken())
	require.JSONEq(t, `{"name":"Amit Kumar"}`, srv.Last().Body)
}

func TestUpdateProfile_RequiresSession(t *testing.T) {
	svc, _ := newService(t, nil)
	_, err := svc.UpdateProfile(context.Background(), domain.ProfileForm{Name: "Amit"})
	require.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestUploadAvatar_SendsMultipart(t *testing.T) {
	withAvatar := amit
	withAvatar.Avatar = "https://cdn.example/avatars/1.png"
	svc, srv := newService(t, map[string]http.HandlerFunc{
		"POST /users/me/avatar": func(w http.ResponseWriter, r *http.Request) {
			file, header, err := r.FormFile("avatar")
			if err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			defer file.Close()
			if header.Filename != "me.png" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			backendtest.JSON(http.StatusOK, withAvatar)(w, r)
		},
	})
	srv.Store.SetAuth(amit, "tok123")

	user, err := svc.UploadAvatar(context.Background(), "me.png", strings.NewReader("png-bytes"))

	require.NoError(t, err)
	require.Equal(t, withAvatar.Avatar, user.Avatar)
	require.True(t, strings.HasPrefix(srv.Last().ContentType, "multipart/form-data; boundary="))
}

func TestChangePassword(t *testing.T) {
	svc, srv := newService(t, map[string]http.HandlerFunc{
		"PATCH /auth/change-password": backendtest.NoContent(),
	})
	srv.Store.SetAuth(amit, "tok123")

	err := svc.ChangePassword(context.Background(), domain.ChangePasswordForm{CurrentPassword: "secret1", NewPassword: "secret1"})
	require.ErrorIs(t, err, ErrInvalidInput)

	err = svc.ChangePassword(context.Background(), domain.ChangePasswordForm{CurrentPassword: "secret1", NewPassword: "secret2"})
	require.NoError(t, err)
}

func TestDeleteAccount_ClearsSession(t *testing.T) {
	svc, srv := newService(t, map[string]http.HandlerFunc{
		"DELETE /users/me": backendtest.NoContent(),
	})
	srv.Store.SetAuth(amit, "tok123")

	require.NoError(t, svc.DeleteAccount(context.Background()))

	assert.False(t, srv.Store.IsAuthenticated())
	assert.Equal(t, http.MethodDelete, srv.Last().Method)
}

func TestMe_SessionExpiredMidRequest(t *testing.T) {
	svc, srv := newService(t, map[string]http.HandlerFunc{
		"GET /auth/me":             backendtest.Problem(sharederrors.ErrUnauthorized),
		"POST /auth/refresh-token": backendtest.Problem(sharederrors.ErrUnauthorized),
	})
	srv.Store.SetAuth(amit, "tok123")

	_, err := svc.Me(context.Background())

	require.ErrorIs(t, err, ErrNotAuthenticated)
	require.False(t, srv.Store.IsAuthenticated())
}
