package migrations

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the dev backend schema.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&refreshSessionRecord{},
		&tourRecord{},
	)
}

// Refresh session schema mirrors the devbackend postgres adapter.
type refreshSessionRecord struct {
	TokenHash string    `gorm:"primaryKey;column:token_hash;size:64"`
	UserID    string    `gorm:"column:user_id;index"`
	ExpiresAt time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (refreshSessionRecord) TableName() string { return "refresh_sessions" }

// Tour schema mirrors the catalog adapter.
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
