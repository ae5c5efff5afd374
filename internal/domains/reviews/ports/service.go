package ports

import (
	"context"

	"github.com/Apurer/tourbook/internal/domains/reviews/domain"
	"github.com/Apurer/tourbook/internal/shared/pagination"
)

type Service interface {
	ListForTour(ctx context.Context, tourID string, page int) (pagination.Page[domain.Review], error)
	Create(ctx context.Context, form domain.ReviewForm) (*domain.Review, error)
	Delete(ctx context.Context, id string) error
}
