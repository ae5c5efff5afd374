// Package errors carries RFC 7807 Problem Details shared by the API client
// (decoding) and the development backend (encoding).
package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// ContentTypeProblemJSON is the media type for Problem Details bodies.
const ContentTypeProblemJSON = "application/problem+json"

// ProblemDetail is an RFC 7807 problem document.
// See: https://www.rfc-editor.org/rfc/rfc7807
type ProblemDetail struct {
	Type       string         `json:"type"`
	Title      string         `json:"title"`
	Status     int            `json:"status"`
	Detail     string         `json:"detail,omitempty"`
	Instance   string         `json:"instance,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// Error implements the error interface.
func (p ProblemDetail) Error() string {
	if p.Detail != "" {
		return fmt.Sprintf("%s: %s", p.Title, p.Detail)
	}
	return p.Title
}

// WithDetail returns a copy with the given detail message.
func (p ProblemDetail) WithDetail(detail string) ProblemDetail {
	p.Detail = detail
	return p
}

// WithExtension returns a copy with an additional extension property.
func (p ProblemDetail) WithExtension(key string, value any) ProblemDetail {
	ext := make(map[string]any, len(p.Extensions)+1)
	for k, v := range p.Extensions {
		ext[k] = v
	}
	ext[key] = value
	p.Extensions = ext
	return p
}

// FieldErrors returns the per-field validation messages, if any.
func (p ProblemDetail) FieldErrors() map[string]string {
	raw, ok := p.Extensions["fields"]
	if !ok {
		return nil
	}
	out := map[string]string{}
	switch fields := raw.(type) {
	case map[string]string:
		for k, v := range fields {
			out[k] = v
		}
	case map[string]any:
		for k, v := range fields {
			out[k] = fmt.Sprint(v)
		}
	}
	return out
}

const (
	TypeValidation   = "/problems/validation-error"
	TypeNotFound     = "/problems/not-found"
	TypeConflict     = "/problems/conflict"
	TypeInternal     = "/problems/internal-error"
	TypeUnauthorized = "/problems/unauthorized"
	TypeForbidden    = "/problems/forbidden"
	TypeBadRequest   = "/problems/bad-request"
)

var (
	ErrNotFound     = ProblemDetail{Type: TypeNotFound, Title: "Resource Not Found", Status: http.StatusNotFound}
	ErrValidation   = ProblemDetail{Type: TypeValidation, Title: "Validation Error", Status: http.StatusBadRequest}
	ErrBadRequest   = ProblemDetail{Type: TypeBadRequest, Title: "Bad Request", Status: http.StatusBadRequest}
	ErrConflict     = ProblemDetail{Type: TypeConflict, Title: "Conflict", Status: http.StatusConflict}
	ErrInternal     = ProblemDetail{Type: TypeInternal, Title: "Internal Server Error", Status: http.StatusInternalServerError}
	ErrUnauthorized = ProblemDetail{Type: TypeUnauthorized, Title: "Unauthorized", Status: http.StatusUnauthorized}
	ErrForbidden    = ProblemDetail{Type: TypeForbidden, Title: "Forbidden", Status: http.StatusForbidden}
)

// NewValidationProblem creates a validation problem with field-level details.
func NewValidationProblem(fieldErrors map[string]string) ProblemDetail {
	return ErrValidation.WithExtension("fields", fieldErrors)
}

// NewNotFoundProblem creates a not found problem for one resource.
func NewNotFoundProblem(resourceType string, identifier any) ProblemDetail {
	return ErrNotFound.WithDetail(fmt.Sprintf("%s '%v' not found", resourceType, identifier))
}

// legacyError is the {"message": "..."} body some endpoints still return.
type legacyError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Decode reads a problem from an error response body. Bodies that are not
// problem documents fall back to their "message" field, then to the status text.
func Decode(status int, contentType string, body []byte) ProblemDetail {
	var problem ProblemDetail
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), ContentTypeProblemJSON) {
		if err := json.Unmarshal(body, &problem); err == nil && problem.Title != "" {
			if problem.Status == 0 {
				problem.Status = status
			}
			return problem
		}
	}
	problem = ProblemDetail{Title: http.StatusText(status), Status: status}
	var legacy legacyError
	if err := json.Unmarshal(body, &legacy); err == nil {
		switch {
		case strings.TrimSpace(legacy.Message) != "":
			problem.Detail = strings.TrimSpace(legacy.Message)
		case strings.TrimSpace(legacy.Error) != "":
			problem.Detail = strings.TrimSpace(legacy.Error)
		}
	}
	if problem.Title == "" {
		problem.Title = "Unexpected Status"
	}
	return problem
}
