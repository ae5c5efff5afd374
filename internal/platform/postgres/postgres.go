// Package postgres opens the optional database behind the dev backend's
// refresh sessions and tour catalog.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Pool sizes the connection pool. Zero fields keep database/sql defaults.
type Pool struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultPool suits a single dev backend process.
var DefaultPool = Pool{MaxOpenConns: 10, MaxIdleConns: 5, ConnMaxLifetime: 30 * time.Minute}

// Connect opens dsn via GORM, applies pool and pings within five seconds.
func Connect(ctx context.Context, dsn string, pool Pool) (*gorm.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if pool.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(pool.ConnMaxLifetime)
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// Open connects when dsn is set and returns the DB plus a cleanup function.
// An empty dsn or a failed connection is logged and yields a nil DB, which
// callers treat as "use the in-memory stores".
func Open(ctx context.Context, dsn string, logger *slog.Logger) (*gorm.DB, func()) {
	noop := func() {}
	if strings.TrimSpace(dsn) == "" {
		logger.Warn("POSTGRES_DSN not set, keeping refresh sessions and catalog in memory")
		return nil, noop
	}
	db, err := Connect(ctx, dsn, DefaultPool)
	if err != nil {
		logger.Warn("postgres unavailable, keeping refresh sessions and catalog in memory", slog.String("error", err.Error()))
		return nil, noop
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("failed to unwrap postgres connection, keeping refresh sessions and catalog in memory", slog.String("error", err.Error()))
		return nil, noop
	}
	logger.Info("postgres connection established")
	return db, func() { _ = sqlDB.Close() }
}
