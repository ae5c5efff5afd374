package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Apurer/tourbook/internal/config"
	"github.com/Apurer/tourbook/internal/devbackend/accounts"
	"github.com/Apurer/tourbook/internal/devbackend/adapters/memory"
	"github.com/Apurer/tourbook/internal/devbackend/httpapi"
	"github.com/Apurer/tourbook/internal/devbackend/seed"
	"github.com/Apurer/tourbook/internal/devbackend/tokens"
	bookingsdomain "github.com/Apurer/tourbook/internal/domains/bookings/domain"
	reviewsapp "github.com/Apurer/tourbook/internal/domains/reviews/application"
	toursdomain "github.com/Apurer/tourbook/internal/domains/tours/domain"
	"github.com/Apurer/tourbook/internal/shared/pagination"
)

func startBackend(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	issuer, err := tokens.NewIssuer("cli-test-secret-0123456789", 15*time.Minute)
	require.NoError(t, err)
	registry := accounts.NewRegistry(bcrypt.MinCost)
	catalog := memory.NewCatalog()
	require.NoError(t, seed.Load(context.Background(), catalog, registry))
	router, err := httpapi.NewRouter(httpapi.Config{
		Accounts: registry,
		Sessions: memory.NewRefreshSessions(),
		Catalog:  catalog,
		Content:  memory.NewContent(seed.Posts(), seed.Reviews()),
		Issuer:   issuer,
	})
	require.NoError(t, err)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func newTestApp(t *testing.T, srv *httptest.Server, email, password string) *App {
	t.Helper()
	app, err := NewApp(config.Client{
		BaseURL:  srv.URL + "/api",
		Timeout:  5 * time.Second,
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	return app
}

func execute(app *App, args ...string) (string, error) {
	var buf bytes.Buffer
	root := NewRootCommand(app)
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestToursList_Table(t *testing.T) {
	app := newTestApp(t, startBackend(t), "", "")

	out, err := execute(app, "tours", "list")

	require.NoError(t, err)
	require.Contains(t, out, "SLUG")
	require.Contains(t, out, "everest-base-camp")
	require.Contains(t, out, "$1250.00")
	require.Contains(t, out, "page 1 of 1 (6 total)")
}

func TestToursList_JSONWithCategory(t *testing.T) {
	app := newTestApp(t, startBackend(t), "", "")

	out, err := execute(app, "tours", "list", "--category", "trekking", "--json")

	require.NoError(t, err)
	var page pagination.Page[toursdomain.Tour]
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	require.Len(t, page.Items, 3)
	for _, tour := range page.Items {
		require.Equal(t, "Trekking", tour.Category)
	}
}

func TestToursGet_NotFound(t *testing.T) {
	app := newTestApp(t, startBackend(t), "", "")

	_, err := execute(app, "tours", "get", "no-such-tour")

	require.Error(t, err)
}

func TestBlogList(t *testing.T) {
	app := newTestApp(t, startBackend(t), "", "")

	out, err := execute(app, "blog", "list")

	require.NoError(t, err)
	require.Contains(t, out, "(3 total)")
}

func TestSessionCheck_Admin(t *testing.T) {
	app := newTestApp(t, startBackend(t), seed.AdminEmail, seed.AdminPassword)

	out, err := execute(app, "session", "check", "--json")

	require.NoError(t, err)
	var state sessionState
	require.NoError(t, json.Unmarshal([]byte(out), &state))
	require.True(t, state.Authenticated)
	require.True(t, state.Admin)
	require.Equal(t, seed.AdminEmail, state.User.Email)
}

func TestSessionCheck_WithoutCredentials(t *testing.T) {
	app := newTestApp(t, startBackend(t), "", "")

	_, err := execute(app, "session", "check")

	require.ErrorIs(t, err, ErrNoCredentials)
	require.False(t, app.Store().IsAuthenticated())
}

func TestSessionCheck_FlagsOverrideEnv(t *testing.T) {
	app := newTestApp(t, startBackend(t), "", "")

	_, err := execute(app, "session", "check", "--email", seed.AdminEmail, "--password", seed.AdminPassword)

	require.NoError(t, err)
	require.True(t, app.Store().User().IsAdmin())
}

func TestRegisterBookAndPay(t *testing.T) {
	app := newTestApp(t, startBackend(t), "traveller@example.com", "secret1")

	_, err := execute(app, "account", "register", "--name", "Amit")
	require.NoError(t, err)
	require.True(t, app.Store().IsAuthenticated())

	date := time.Now().AddDate(0, 1, 0).Format(bookingsdomain.DateLayout)
	out, err := execute(app, "bookings", "create", "1", "--date", date, "--guests", "2", "--json")
	require.NoError(t, err)
	var booking bookingsdomain.Booking
	require.NoError(t, json.Unmarshal([]byte(out), &booking))
	require.Equal(t, 2500.0, booking.TotalPrice)
	require.Equal(t, bookingsdomain.StatusPending, booking.Status)

	out, err = execute(app, "bookings", "pay", booking.ID)
	require.NoError(t, err)
	require.Contains(t, out, "booking "+booking.ID+" paid")
	require.Contains(t, out, "confirmed / paid")

	out, err = execute(app, "bookings", "list")
	require.NoError(t, err)
	require.Contains(t, out, booking.ID)
}

func TestBookingsCreate_RejectsPastDate(t *testing.T) {
	app := newTestApp(t, startBackend(t), seed.AdminEmail, seed.AdminPassword)

	_, err := execute(app, "bookings", "create", "1", "--date", "2001-01-01")

	require.Error(t, err)
	require.ErrorIs(t, err, bookingsdomain.ErrDateInPast)
}

func TestReviewsDelete_RequiresAdmin(t *testing.T) {
	app := newTestApp(t, startBackend(t), "traveller@example.com", "secret1")
	_, err := execute(app, "account", "register", "--name", "Amit")
	require.NoError(t, err)

	_, err = execute(app, "reviews", "delete", "1")

	require.ErrorIs(t, err, reviewsapp.ErrForbidden)
}

func TestReviewsDelete_Admin(t *testing.T) {
	app := newTestApp(t, startBackend(t), seed.AdminEmail, seed.AdminPassword)

	out, err := execute(app, "reviews", "delete", "1")

	require.NoError(t, err)
	require.Contains(t, out, "review 1 deleted")
}

func TestAccountDelete_NeedsConfirmation(t *testing.T) {
	app := newTestApp(t, startBackend(t), seed.AdminEmail, seed.AdminPassword)

	_, err := execute(app, "account", "delete")

	require.EqualError(t, err, "refusing to delete the account without --yes")
	require.False(t, app.Store().IsAuthenticated())
}
