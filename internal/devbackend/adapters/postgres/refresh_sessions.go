package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/tourbook/internal/devbackend/ports"
)

// RefreshSessions persists refresh sessions in PostgreSQL. Caller owns the DB
// lifecycle; the schema comes from platform/migrations.
type RefreshSessions struct {
	db *gorm.DB
}

func NewRefreshSessions(db *gorm.DB) *RefreshSessions {
	return &RefreshSessions{db: db}
}

type refreshSessionRecord struct {
	TokenHash string    `gorm:"primaryKey;column:token_hash;size:64"`
	UserID    string    `gorm:"column:user_id;index"`
	ExpiresAt time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (refreshSessionRecord) TableName() string { return "refresh_sessions" }

func (r refreshSessionRecord) toSession() *ports.RefreshSession {
	return &ports.RefreshSession{
		TokenHash: r.TokenHash,
		UserID:    r.UserID,
		ExpiresAt: r.ExpiresAt,
		CreatedAt: r.CreatedAt,
	}
}

// Save upserts a session keyed by token hash.
func (s *RefreshSessions) Save(ctx context.Context, sess ports.RefreshSession) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	if strings.TrimSpace(sess.TokenHash) == "" || strings.TrimSpace(sess.UserID) == "" {
		return errors.New("token hash and user id are required")
	}
	rec := refreshSessionRecord{
		TokenHash: sess.TokenHash,
		UserID:    sess.UserID,
		ExpiresAt: sess.ExpiresAt.UTC(),
		CreatedAt: sess.CreatedAt.UTC(),
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token_hash"}},
			DoUpdates: clause.AssignmentColumns([]string{"user_id", "expires_at"}),
		}).
		Create(&rec).Error
}

func (s *RefreshSessions) Get(ctx context.Context, tokenHash string) (*ports.RefreshSession, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var rec refreshSessionRecord
	if err := s.db.WithContext(ctx).First(&rec, "token_hash = ?", tokenHash).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return rec.toSession(), nil
}

// Take removes the row with DELETE ... RETURNING; of two concurrent callers
// only one sees the row.
func (s *RefreshSessions) Take(ctx context.Context, tokenHash string) (*ports.RefreshSession, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var recs []refreshSessionRecord
	res := s.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("token_hash = ?", tokenHash).
		Delete(&recs)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 || len(recs) == 0 {
		return nil, ports.ErrNotFound
	}
	return recs[0].toSession(), nil
}

func (s *RefreshSessions) Delete(ctx context.Context, tokenHash string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&refreshSessionRecord{}, "token_hash = ?", tokenHash).Error
}

// DeleteForUser revokes every session of a user, e.g. on account deletion.
func (s *RefreshSessions) DeleteForUser(ctx context.Context, userID string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil
	}
	return s.db.WithContext(ctx).Delete(&refreshSessionRecord{}, "user_id = ?", userID).Error
}

// PurgeExpired removes sessions that expired at or before now.
func (s *RefreshSessions) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	if err := s.ensureDB(); err != nil {
		return 0, err
	}
	res := s.db.WithContext(ctx).Where("expires_at <= ?", now.UTC()).Delete(&refreshSessionRecord{})
	return res.RowsAffected, res.Error
}

func (s *RefreshSessions) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres refresh session store not configured")
	}
	return nil
}

var _ ports.RefreshSessionStore = (*RefreshSessions)(nil)
