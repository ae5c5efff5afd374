package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
)

// ContentTypeJSON is the default content type of request bodies.
const ContentTypeJSON = "application/json"

// Request describes one logical call to the backend. Middlewares never mutate
// the caller's descriptor; they derive copies.
type Request struct {
	Method      string
	Path        string
	Query       url.Values
	Header      http.Header
	Body        []byte
	ContentType string

	// SkipAuthRefresh disables refresh-and-retry on 401, for endpoints such as
	// login where a 401 means bad credentials.
	SkipAuthRefresh bool

	// Attempt is 1 for the original send and 2 for the single retry that
	// follows a successful refresh.
	Attempt int
	// Token is the bearer credential attached to this attempt, if any.
	Token string
	// RequestID is shared by all attempts of the logical request.
	RequestID string
}

type requestIDKey struct{}

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// requestIDFrom returns the ID of the logical request ctx belongs to.
func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// NewRequest builds a body-less request.
func NewRequest(method, path string) *Request {
	return &Request{Method: method, Path: path}
}

// NewJSONRequest builds a request whose body is payload encoded as JSON.
func NewJSONRequest(method, path string, payload any) (*Request, error) {
	req := NewRequest(method, path)
	if payload == nil {
		return req, nil
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s %s body: %w", method, path, err)
	}
	req.Body = body
	req.ContentType = ContentTypeJSON
	return req, nil
}

// NewMultipartRequest builds a file upload. The file is buffered so the body
// can be sent again on retry.
func NewMultipartRequest(method, path string, fields map[string]string, fileField, fileName string, file io.Reader) (*Request, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("write field %q: %w", k, err)
		}
	}
	if file != nil {
		part, err := w.CreateFormFile(fileField, fileName)
		if err != nil {
			return nil, fmt.Errorf("create form file: %w", err)
		}
		if _, err := io.Copy(part, file); err != nil {
			return nil, fmt.Errorf("copy upload %q: %w", fileName, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close multipart body: %w", err)
	}
	req := NewRequest(method, path)
	req.Body = buf.Bytes()
	req.ContentType = w.FormDataContentType()
	return req, nil
}

// WithQuery returns the request with key=value added to its query string.
// Empty values are skipped.
func (r *Request) WithQuery(key, value string) *Request {
	if strings.TrimSpace(value) == "" {
		return r
	}
	if r.Query == nil {
		r.Query = url.Values{}
	}
	r.Query.Add(key, value)
	return r
}

// Retry derives the second attempt, carrying the refreshed token.
func (r *Request) Retry(token string) *Request {
	next := r.clone()
	next.Attempt = 2
	next.Token = token
	return next
}

// IsRetry reports whether this is the second attempt.
func (r *Request) IsRetry() bool {
	return r.Attempt >= 2
}

func (r *Request) clone() *Request {
	c := *r
	if r.Query != nil {
		c.Query = make(url.Values, len(r.Query))
		for k, v := range r.Query {
			c.Query[k] = append([]string(nil), v...)
		}
	}
	if r.Header != nil {
		c.Header = r.Header.Clone()
	}
	return &c
}

func (r *Request) target(baseURL string) string {
	target := strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(r.Path, "/")
	if len(r.Query) > 0 {
		target += "?" + r.Query.Encode()
	}
	return target
}
