package domain

import (
	"strings"
	"time"

	"github.com/Apurer/tourbook/internal/platform/validation"
)

// Review is a rating left on a tour.
type Review struct {
	ID        string    `json:"id"`
	TourID    string    `json:"tourId"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

// ReviewForm is submitted from a tour page.
type ReviewForm struct {
	TourID  string `json:"tourId" validate:"required"`
	Rating  int    `json:"rating" validate:"gte=1,lte=5"`
	Comment string `json:"comment" validate:"required,min=3,max=1000"`
}

func (f ReviewForm) Normalize() ReviewForm {
	f.TourID = strings.TrimSpace(f.TourID)
	f.Comment = strings.TrimSpace(f.Comment)
	return f
}

func (f ReviewForm) Validate() error {
	return validation.Struct(f)
}

// Average returns the mean rating, or 0 for no reviews.
func Average(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(reviews))
}
