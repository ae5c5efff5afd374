package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/net/publicsuffix"

	sharederrors "github.com/Apurer/tourbook/internal/shared/errors"
)

// DefaultTimeout bounds a single attempt when no http.Client is supplied.
const DefaultTimeout = 15 * time.Second

// maxBodyBytes caps buffered response bodies.
const maxBodyBytes = 8 << 20

// NewHTTPClient returns an instrumented client with a cookie jar, so the
// refresh cookie set by the backend travels on every later request.
func NewHTTPClient(timeout time.Duration) (*http.Client, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	jar, err := newJar()
	if err != nil {
		return nil, err
	}
	return &http.Client{
		Timeout:   timeout,
		Jar:       jar,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}, nil
}

// withJar returns hc, or a shallow copy of it with a cookie jar installed.
func withJar(hc *http.Client) (*http.Client, error) {
	if hc.Jar != nil {
		return hc, nil
	}
	jar, err := newJar()
	if err != nil {
		return nil, err
	}
	clone := *hc
	clone.Jar = jar
	return &clone, nil
}

func newJar() (http.CookieJar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return jar, nil
}

// transport sends one attempt over HTTP. Non-2xx answers become *APIError.
type transport struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

func (t *transport) send(ctx context.Context, req *Request) (*Response, error) {
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.target(t.baseURL), body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", req.Method, req.Path, err)
	}
	for k, v := range req.Header {
		httpReq.Header[k] = append([]string(nil), v...)
	}
	if len(req.Body) > 0 {
		contentType := req.ContentType
		if contentType == "" {
			contentType = ContentTypeJSON
		}
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", ContentTypeJSON+", "+sharederrors.ContentTypeProblemJSON)
	if req.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Token)
	}
	if req.RequestID != "" {
		httpReq.Header.Set("X-Request-ID", req.RequestID)
	}
	if t.userAgent != "" {
		httpReq.Header.Set("User-Agent", t.userAgent)
	}

	res, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call backend %s %s: %w", req.Method, req.Path, err)
	}
	defer res.Body.Close()
	payload, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read backend %s %s: %w", req.Method, req.Path, err)
	}
	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return nil, &APIError{
			Method:    req.Method,
			Path:      req.Path,
			Status:    res.StatusCode,
			RequestID: req.RequestID,
			Problem:   sharederrors.Decode(res.StatusCode, res.Header.Get("Content-Type"), payload),
		}
	}
	return &Response{
		StatusCode: res.StatusCode,
		Header:     res.Header,
		Body:       payload,
		Attempt:    req.Attempt,
	}, nil
}
