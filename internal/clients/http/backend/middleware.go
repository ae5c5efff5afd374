package backend

import (
	"context"
	"errors"

	"github.com/Apurer/tourbook/internal/session"
)

// Handler performs one attempt of a request.
type Handler func(ctx context.Context, req *Request) (*Response, error)

// Middleware decorates a Handler.
type Middleware func(next Handler) Handler

// Chain wraps h so that mws[0] runs first.
func Chain(h Handler, mws ...Middleware) Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] != nil {
			h = mws[i](h)
		}
	}
	return h
}

// BearerToken attaches the store's access token to requests that do not
// already carry one. It never fails and never blocks beyond a read lock.
func BearerToken(store *session.Store) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, req *Request) (*Response, error) {
			if req.Token != "" || store == nil {
				return next(ctx, req)
			}
			token := store.AccessToken()
			if token == "" {
				return next(ctx, req)
			}
			out := req.clone()
			out.Token = token
			return next(ctx, out)
		}
	}
}

// TokenRefresher exchanges the ambient refresh cookie for a new access token.
type TokenRefresher interface {
	Refresh(ctx context.Context, staleToken string) (string, error)
}

// RefreshOnUnauthorized retries a request once after a successful refresh
// when its first attempt was rejected with 401. A 401 on the retry, or any
// other failure, is returned unchanged; a refresh failure is returned in
// place of the original 401.
func RefreshOnUnauthorized(refresher TokenRefresher, hook StateHook) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, req *Request) (*Response, error) {
			resp, err := next(ctx, req)
			if err == nil {
				hook.emit(req, StateSucceeded)
				return resp, nil
			}
			if !IsUnauthorized(err) || req.IsRetry() || req.SkipAuthRefresh || refresher == nil {
				hook.emit(req, StateFailedOther)
				return nil, err
			}
			hook.emit(req, StateFailed401Untried)
			hook.emit(req, StateRefreshing)
			token, refreshErr := refresher.Refresh(ctx, req.Token)
			if refreshErr != nil {
				var re *RefreshError
				if errors.As(refreshErr, &re) {
					hook.emit(req, StateRefreshFailed)
				} else {
					hook.emit(req, StateFailedOther)
				}
				return nil, refreshErr
			}
			hook.emit(req, StateRefreshed)
			retry := req.Retry(token)
			resp, err = next(ctx, retry)
			if err != nil {
				hook.emit(retry, StateFailedOther)
				return nil, err
			}
			hook.emit(retry, StateSucceeded)
			return resp, nil
		}
	}
}
