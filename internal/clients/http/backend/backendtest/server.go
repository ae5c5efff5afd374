// Package backendtest serves canned backend routes to a real client in tests.
package backendtest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/tourbook/internal/clients/http/backend"
	"github.com/Apurer/tourbook/internal/session"
	sharederrors "github.com/Apurer/tourbook/internal/shared/errors"
)

// Recorded is one request as the server saw it.
type Recorded struct {
	Method        string
	Path          string
	Query         string
	Authorization string
	ContentType   string
	RequestID     string
	Body          string
}

// Server is an httptest server plus a client and store pointed at it.
type Server struct {
	*httptest.Server
	Client *backend.Client
	Store  *session.Store

	mu       sync.Mutex
	requests []Recorded
}

// New starts a server for routes keyed "METHOD /path" (paths relative to the
// API base, Go 1.22 ServeMux patterns). Unknown routes answer 404.
func New(t testing.TB, routes map[string]http.HandlerFunc) *Server {
	t.Helper()
	s := &Server{Store: session.NewStore()}
	mux := http.NewServeMux()
	for pattern, h := range routes {
		method, path, ok := strings.Cut(pattern, " ")
		require.True(t, ok, "route %q must be \"METHOD /path\"", pattern)
		mux.HandleFunc(method+" /api"+path, h)
	}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(strings.NewReader(string(body)))
		s.mu.Lock()
		s.requests = append(s.requests, Recorded{
			Method:        r.Method,
			Path:          strings.TrimPrefix(r.URL.Path, "/api"),
			Query:         r.URL.RawQuery,
			Authorization: r.Header.Get("Authorization"),
			ContentType:   r.Header.Get("Content-Type"),
			RequestID:     r.Header.Get("X-Request-ID"),
			Body:          string(body),
		})
		s.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(s.Server.Close)

	client, err := backend.New(s.URL+"/api", s.Store, backend.WithHTTPClient(s.Server.Client()))
	require.NoError(t, err)
	s.Client = client
	return s
}

// Requests returns what the server has received so far.
func (s *Server) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Recorded(nil), s.requests...)
}

// Last returns the most recent request, or the zero value.
func (s *Server) Last() Recorded {
	reqs := s.Requests()
	if len(reqs) == 0 {
		return Recorded{}
	}
	return reqs[len(reqs)-1]
}

// JSON answers with status and v encoded as JSON.
func JSON(status int, v any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if v != nil {
			_ = json.NewEncoder(w).Encode(v)
		}
	}
}

// Problem answers with an RFC 7807 body.
func Problem(p sharederrors.ProblemDetail) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", sharederrors.ContentTypeProblemJSON)
		w.WriteHeader(p.Status)
		_ = json.NewEncoder(w).Encode(p)
	}
}

// NoContent answers 204.
func NoContent() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}
}
