// Package seed provides the dev backend's starting catalog and content.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Apurer/tourbook/internal/devbackend/accounts"
	"github.com/Apurer/tourbook/internal/devbackend/ports"
	blogdomain "github.com/Apurer/tourbook/internal/domains/blog/domain"
	reviewsdomain "github.com/Apurer/tourbook/internal/domains/reviews/domain"
	toursdomain "github.com/Apurer/tourbook/internal/domains/tours/domain"
)

// Admin credentials of the seeded administrator.
const (
	AdminEmail    = "admin@tourbook.local"
	AdminPassword = "admin123"
)

func Tours() []toursdomain.Tour {
	return []toursdomain.Tour{
		{ID: "1", Slug: "everest-base-camp", Title: "Everest Base Camp Trek", Location: "Solukhumbu", Category: "Trekking", Price: 1250, DurationDays: 14, Rating: 4.9, ReviewCount: 2, Images: []string{"/images/ebc-1.jpg"}, Summary: "Classic trek to the foot of the highest mountain."},
		{ID: "2", Slug: "annapurna-circuit", Title: "Annapurna Circuit", Location: "Manang", Category: "Trekking", Price: 980, DurationDays: 12, Rating: 4.7, ReviewCount: 1, Images: []string{"/images/abc-1.jpg"}, Summary: "Full loop over Thorong La pass."},
		{ID: "3", Slug: "chitwan-jungle-safari", Title: "Chitwan Jungle Safari", Location: "Chitwan", Category: "Wildlife", Price: 320, DurationDays: 3, Rating: 4.4, Images: []string{"/images/chitwan-1.jpg"}, Summary: "Jeep and canoe safari in the national park."},
		{ID: "4", Slug: "pokhara-paragliding", Title: "Pokhara Paragliding", Location: "Pokhara", Category: "Adventure", Price: 110, DurationDays: 1, Rating: 4.8, Summary: "Tandem flight above Phewa lake."},
		{ID: "5", Slug: "kathmandu-heritage-walk", Title: "Kathmandu Heritage Walk", Location: "Kathmandu", Category: "Culture", Price: 45, DurationDays: 1, Rating: 4.2, Summary: "Durbar squares and stupas in a day."},
		{ID: "6", Slug: "upper-mustang", Title: "Upper Mustang Expedition", Location: "Mustang", Category: "Trekking", Price: 2100, DurationDays: 16, Rating: 4.6, Summary: "Restricted-area trek to Lo Manthang."},
	}
}

func Posts() []blogdomain.Post {
	base := time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)
	return []blogdomain.Post{
		{ID: "1", Slug: "packing-for-high-altitude", Title: "Packing for high altitude", Author: "Tourbook Team", Excerpt: "What to bring above 4000 m.", Content: "Layers, a good sleeping bag and patience.", Tags: []string{"trekking", "gear"}, PublishedAt: base},
		{ID: "2", Slug: "best-season-to-visit", Title: "The best season to visit", Author: "Tourbook Team", Excerpt: "Autumn and spring compared.", Content: "October and April offer the clearest views.", Tags: []string{"planning"}, PublishedAt: base.AddDate(0, 0, 14)},
		{ID: "3", Slug: "responsible-wildlife-tourism", Title: "Responsible wildlife tourism", Author: "Guest Writer", Excerpt: "Seeing rhinos without harming them.", Content: "Keep distance and follow your guide.", Tags: []string{"wildlife"}, PublishedAt: base.AddDate(0, 1, 0)},
	}
}

func Reviews() []reviewsdomain.Review {
	base := time.Date(2025, 10, 5, 12, 0, 0, 0, time.UTC)
	return []reviewsdomain.Review{
		{ID: "1", TourID: "1", UserID: "0", UserName: "Sita", Rating: 5, Comment: "Unforgettable views.", CreatedAt: base},
		{ID: "2", TourID: "1", UserID: "0", UserName: "Ram", Rating: 5, Comment: "Great guides and food.", CreatedAt: base.AddDate(0, 0, 3)},
		{ID: "3", TourID: "2", UserID: "0", UserName: "Hari", Rating: 4, Comment: "Tough pass, worth it.", CreatedAt: base.AddDate(0, 0, 7)},
	}
}

// Load writes the catalog and creates the administrator account.
func Load(ctx context.Context, catalog ports.Catalog, registry *accounts.Registry) error {
	for _, tour := range Tours() {
		if err := catalog.Save(ctx, tour); err != nil {
			return fmt.Errorf("seed tour %s: %w", tour.Slug, err)
		}
	}
	if registry != nil {
		if _, err := registry.RegisterAdmin("Administrator", AdminEmail, AdminPassword); err != nil && !errors.Is(err, accounts.ErrEmailTaken) {
			return fmt.Errorf("seed admin: %w", err)
		}
	}
	return nil
}
