package ports

import (
	"context"

	"github.com/Apurer/tourbook/internal/domains/blog/domain"
	"github.com/Apurer/tourbook/internal/shared/pagination"
)

type Service interface {
	List(ctx context.Context, page, limit int) (pagination.Page[domain.Post], error)
	Get(ctx context.Context, slug string) (*domain.Post, error)
}
