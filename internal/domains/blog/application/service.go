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
	"github.com/Apurer/tourbook/internal/domains/blog/domain"
	"github.com/Apurer/tourbook/internal/domains/blog/ports"
	"github.com/Apurer/tourbook/internal/shared/pagination"
)

var ErrNotFound = errors.New("post not found")

type Service struct {
	api backend.Requester
}

func NewService(api backend.Requester) *Service {
	return &Service{api: api}
}

func (s *Service) List(ctx context.Context, page, limit int) (pagination.Page[domain.Post], error) {
	page, limit = pagination.NormalizePaging(page, limit)
	req := backend.NewRequest(http.MethodGet, "/blogs").
		WithQuery("page", strconv.Itoa(page)).
		WithQuery("limit", strconv.Itoa(limit))
	var out pagination.Page[domain.Post]
	if _, err := s.api.Do(ctx, req, &out); err != nil {
		return pagination.Page[domain.Post]{}, fmt.Errorf("list posts: %w", err)
	}
	if out.Items == nil {
		out.Items = []domain.Post{}
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, slug string) (*domain.Post, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, fmt.Errorf("%w: empty slug", ErrNotFound)
	}
	var post domain.Post
	_, err := s.api.Do(ctx, backend.NewRequest(http.MethodGet, "/blogs/"+url.PathEscape(slug)), &post)
	if backend.StatusCode(err) == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, slug)
	}
	if err != nil {
		return nil, fmt.Errorf("get post %s: %w", slug, err)
	}
	return &post, nil
}

var _ ports.Service = (*Service)(nil)
