package ports

import (
	"context"

	"github.com/Apurer/tourbook/internal/domains/tours/domain"
	"github.com/Apurer/tourbook/internal/shared/pagination"
)

// Query selects a page of the public catalog.
type Query struct {
	Page     int
	Limit    int
	Search   string
	Category string
}

// Service exposes catalog reads to the CLI.
type Service interface {
	List(ctx context.Context, q Query) (pagination.Page[domain.Tour], error)
	Get(ctx context.Context, slug string) (*domain.Tour, error)
}
