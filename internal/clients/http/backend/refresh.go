package backend

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/Apurer/tourbook/internal/session"
)

// DefaultRefreshPath is the backend endpoint that trades the refresh cookie
// for a new access token.
const DefaultRefreshPath = "/auth/refresh-token"

const refreshKey = "refresh"

// RefreshResult is the body of a successful refresh.
type RefreshResult struct {
	AccessToken string        `json:"accessToken"`
	User        *session.User `json:"user,omitempty"`
}

// Refresher performs the cookie-bearing refresh call and updates the store.
// Concurrent callers share one in-flight refresh.
type Refresher struct {
	store   *session.Store
	send    Handler
	path    string
	logger  *slog.Logger
	metrics clientMetrics
	group   singleflight.Group
}

func newRefresher(store *session.Store, send Handler, path string, logger *slog.Logger, metrics clientMetrics) *Refresher {
	if path == "" {
		path = DefaultRefreshPath
	}
	return &Refresher{store: store, send: send, path: path, logger: logger, metrics: metrics}
}

// Refresh returns a usable access token. When the store already holds a token
// other than staleToken, another request has refreshed in the meantime and
// that token is returned without a network call. On failure the store is
// cleared and a *RefreshError is returned.
func (r *Refresher) Refresh(ctx context.Context, staleToken string) (string, error) {
	if current := r.store.AccessToken(); current != "" && current != staleToken {
		return current, nil
	}
	ch := r.group.DoChan(refreshKey, func() (any, error) {
		return r.refresh(context.WithoutCancel(ctx), staleToken)
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (r *Refresher) refresh(ctx context.Context, staleToken string) (string, error) {
	// A flight that finished between the check in Refresh and DoChan may
	// already have replaced the token.
	if current := r.store.AccessToken(); current != "" && current != staleToken {
		return current, nil
	}
	r.metrics.recordRefresh(ctx)
	req := NewRequest(http.MethodPost, r.path)
	req.Attempt = 1
	req.SkipAuthRefresh = true
	// The refresh is logged and traced under the request that triggered it.
	req.RequestID = requestIDFrom(ctx)
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}

	resp, err := r.send(ctx, req)
	if err != nil {
		return "", r.fail(ctx, err)
	}
	var result RefreshResult
	if err := resp.Decode(&result); err != nil {
		return "", r.fail(ctx, err)
	}
	if result.AccessToken == "" {
		return "", r.fail(ctx, ErrMissingAccessToken)
	}

	user := result.User
	if user == nil || user.IsZero() {
		user = r.store.User()
	}
	if user != nil {
		r.store.SetAuth(*user, result.AccessToken)
	}
	r.logger.LogAttrs(ctx, slog.LevelDebug, "access token refreshed", slog.Bool("user_known", user != nil))
	return result.AccessToken, nil
}

func (r *Refresher) fail(ctx context.Context, err error) error {
	r.store.Logout()
	r.metrics.recordRefreshFailure(ctx)
	r.logger.LogAttrs(ctx, slog.LevelWarn, "token refresh failed, session cleared", slog.String("error", err.Error()))
	return &RefreshError{Err: err}
}
