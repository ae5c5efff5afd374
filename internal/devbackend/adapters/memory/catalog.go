package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Apurer/tourbook/internal/devbackend/ports"
	toursdomain "github.com/Apurer/tourbook/internal/domains/tours/domain"
)

// Catalog is an in-memory tour catalog ordered by ID.
type Catalog struct {
	mu    sync.RWMutex
	tours map[string]toursdomain.Tour
}

func NewCatalog() *Catalog {
	return &Catalog{tours: map[string]toursdomain.Tour{}}
}

func (c *Catalog) Save(_ context.Context, tour toursdomain.Tour) error {
	if tour.ID == "" || tour.Slug == "" {
		return errors.New("tour id and slug are required")
	}
	tour.Images = append([]string(nil), tour.Images...)
	c.mu.Lock()
	c.tours[tour.ID] = tour
	c.mu.Unlock()
	return nil
}

func (c *Catalog) List(_ context.Context) ([]toursdomain.Tour, error) {
	c.mu.RLock()
	out := make([]toursdomain.Tour, 0, len(c.tours))
	for _, t := range c.tours {
		out = append(out, t)
	}
	c.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (c *Catalog) GetBySlug(_ context.Context, slug string) (*toursdomain.Tour, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, t := range c.tours {
		if t.Slug == slug {
			return &t, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (c *Catalog) GetByID(_ context.Context, id string) (*toursdomain.Tour, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tours[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return &t, nil
}

var _ ports.Catalog = (*Catalog)(nil)
