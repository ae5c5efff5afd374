package application

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Apurer/tourbook/internal/clients/http/backend"
	"github.com/Apurer/tourbook/internal/domains/tours/domain"
	"github.com/Apurer/tourbook/internal/domains/tours/ports"
	"github.com/Apurer/tourbook/internal/shared/pagination"
)

// ErrNotFound is returned when no tour has the requested slug.
var ErrNotFound = errors.New("tour not found")

// Service reads the tour catalog. Reads work with or without a session; the
// client attaches a token when one is held.
type Service struct {
	api backend.Requester
}

func NewService(api backend.Requester) *Service {
	return &Service{api: api}
}

func (s *Service) List(ctx context.Context, q ports.Query) (pagination.Page[domain.Tour], error) {
	page, limit := pagination.NormalizePaging(q.Page, q.Limit)
	req := backend.NewRequest(http.MethodGet, "/tours").
		WithQuery("page", strconv.Itoa(page)).
		WithQuery("limit", strconv.Itoa(limit)).
		WithQuery("search", strings.TrimSpace(q.Search)).
		WithQuery("category", strings.TrimSpace(q.Category))

	var out pagination.Page[domain.Tour]
	if _, err := s.api.Do(ctx, req, &out); err != nil {
		return pagination.Page[domain.Tour]{}, fmt.Errorf("list tours: %w", err)
	}
	if out.Items == nil {
		out.Items = []domain.Tour{}
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, slug string) (*domain.Tour, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, fmt.Errorf("%w: empty slug", ErrNotFound)
	}
	var tour domain.Tour
	_, err := s.api.Do(ctx, backend.NewRequest(http.MethodGet, "/tours/"+url.PathEscape(slug)), &tour)
	if backend.StatusCode(err) == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, slug)
	}
	if err != nil {
		return nil, fmt.Errorf("get tour %s: %w", slug, err)
	}
	return &tour, nil
}

var _ ports.Service = (*Service)(nil)
