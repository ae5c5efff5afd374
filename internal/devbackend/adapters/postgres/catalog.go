package postgres

import (
	"context"
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/tourbook/internal/devbackend/ports"
	toursdomain "github.com/Apurer/tourbook/internal/domains/tours/domain"
)

// Catalog stores tours in PostgreSQL.
type Catalog struct {
	db *gorm.DB
}

func NewCatalog(db *gorm.DB) *Catalog {
	return &Catalog{db: db}
}

type tourRecord struct {
	ID           string         `gorm:"primaryKey;column:id"`
	Slug         string         `gorm:"column:slug;uniqueIndex"`
	Title        string         `gorm:"column:title"`
	Summary      string         `gorm:"column:summary"`
	Location     string         `gorm:"column:location"`
	Category     string         `gorm:"column:category;index"`
	Price        float64        `gorm:"column:price"`
	DurationDays int            `gorm:"column:duration_days"`
	Rating       float64        `gorm:"column:rating"`
	ReviewCount  int            `gorm:"column:review_count"`
	Images       pq.StringArray `gorm:"column:images;type:text[]"`
}

func (tourRecord) TableName() string { return "tours" }

func (c *Catalog) Save(ctx context.Context, tour toursdomain.Tour) error {
	if err := c.ensureDB(); err != nil {
		return err
	}
	if tour.ID == "" || tour.Slug == "" {
		return errors.New("tour id and slug are required")
	}
	rec := toRecord(tour)
	return c.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&rec).Error
}

func (c *Catalog) List(ctx context.Context) ([]toursdomain.Tour, error) {
	if err := c.ensureDB(); err != nil {
		return nil, err
	}
	var recs []tourRecord
	if err := c.db.WithContext(ctx).Order("id").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]toursdomain.Tour, 0, len(recs))
	for _, rec := range recs {
		out = append(out, fromRecord(rec))
	}
	return out, nil
}

func (c *Catalog) GetBySlug(ctx context.Context, slug string) (*toursdomain.Tour, error) {
	return c.first(ctx, "slug = ?", slug)
}

func (c *Catalog) GetByID(ctx context.Context, id string) (*toursdomain.Tour, error) {
	return c.first(ctx, "id = ?", id)
}

func (c *Catalog) first(ctx context.Context, query string, arg any) (*toursdomain.Tour, error) {
	if err := c.ensureDB(); err != nil {
		return nil, err
	}
	var rec tourRecord
	if err := c.db.WithContext(ctx).First(&rec, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	tour := fromRecord(rec)
	return &tour, nil
}

func (c *Catalog) ensureDB() error {
	if c == nil || c.db == nil {
		return errors.New("postgres catalog not configured")
	}
	return nil
}

func toRecord(t toursdomain.Tour) tourRecord {
	return tourRecord{
		ID:           t.ID,
		Slug:         t.Slug,
		Title:        t.Title,
		Summary:      t.Summary,
		Location:     t.Location,
		Category:     t.Category,
		Price:        t.Price,
		DurationDays: t.DurationDays,
		Rating:       t.Rating,
		ReviewCount:  t.ReviewCount,
		Images:       pq.StringArray(t.Images),
	}
}

func fromRecord(r tourRecord) toursdomain.Tour {
	return toursdomain.Tour{
		ID:           r.ID,
		Slug:         r.Slug,
		Title:        r.Title,
		Summary:      r.Summary,
		Location:     r.Location,
		Category:     r.Category,
		Price:        r.Price,
		DurationDays: r.DurationDays,
		Rating:       r.Rating,
		ReviewCount:  r.ReviewCount,
		Images:       []string(r.Images),
	}
}

var _ ports.Catalog = (*Catalog)(nil)
