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
	"github.com/Apurer/tourbook/internal/domains/reviews/domain"
	"github.com/Apurer/tourbook/internal/domains/reviews/ports"
	"github.com/Apurer/tourbook/internal/session"
	"github.com/Apurer/tourbook/internal/shared/pagination"
)

const pageSize = 10

var (
	ErrInvalidInput = errors.New("invalid review input")
	// ErrForbidden is returned before any call when the session user may not
	// perform the action. The backend still enforces its own rules.
	ErrForbidden = errors.New("not allowed")
	ErrNotFound  = errors.New("review not found")
)

type Service struct {
	api   backend.Requester
	store *session.Store
}

func NewService(api backend.Requester, store *session.Store) *Service {
	return &Service{api: api, store: store}
}

func (s *Service) ListForTour(ctx context.Context, tourID string, page int) (pagination.Page[domain.Review], error) {
	tourID = strings.TrimSpace(tourID)
	if tourID == "" {
		return pagination.Page[domain.Review]{}, fmt.Errorf("%w: tour id is required", ErrInvalidInput)
	}
	page, limit := pagination.NormalizePaging(page, pageSize)
	req := backend.NewRequest(http.MethodGet, "/tours/"+url.PathEscape(tourID)+"/reviews").
		WithQuery("page", strconv.Itoa(page)).
		WithQuery("limit", strconv.Itoa(limit))

	var out pagination.Page[domain.Review]
	if _, err := s.api.Do(ctx, req, &out); err != nil {
		return pagination.Page[domain.Review]{}, fmt.Errorf("list reviews for %s: %w", tourID, err)
	}
	if out.Items == nil {
		out.Items = []domain.Review{}
	}
	return out, nil
}

func (s *Service) Create(ctx context.Context, form domain.ReviewForm) (*domain.Review, error) {
	if _, err := s.store.Require(); err != nil {
		return nil, err
	}
	form = form.Normalize()
	if err := form.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	req, err := backend.NewJSONRequest(http.MethodPost, "/reviews", form)
	if err != nil {
		return nil, err
	}
	var review domain.Review
	if _, err := s.api.Do(ctx, req, &review); err != nil {
		if code := backend.StatusCode(err); code == http.StatusBadRequest || code == http.StatusUnprocessableEntity {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		return nil, err
	}
	return &review, nil
}

// Delete removes a review. Only administrators are offered the action.
func (s *Service) Delete(ctx context.Context, id string) error {
	user, err := s.store.Require()
	if err != nil {
		return err
	}
	if !user.IsAdmin() {
		return fmt.Errorf("%w: deleting reviews requires the %s role", ErrForbidden, session.RoleAdmin)
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: review id is required", ErrInvalidInput)
	}
	_, err = s.api.Do(ctx, backend.NewRequest(http.MethodDelete, "/reviews/"+url.PathEscape(id)), nil)
	switch backend.StatusCode(err) {
	case http.StatusForbidden:
		return fmt.Errorf("%w: %w", ErrForbidden, err)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}

var _ ports.Service = (*Service)(nil)
