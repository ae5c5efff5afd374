package postgres

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConnect_EmptyDSN(t *testing.T) {
	_, err := Connect(context.Background(), "  ", DefaultPool)
	require.EqualError(t, err, "postgres DSN is empty")
}

func TestOpen_WithoutDSNFallsBack(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	db, cleanup := Open(context.Background(), "", logger)

	require.Nil(t, db)
	require.NotNil(t, cleanup)
	cleanup()
	require.Contains(t, buf.String(), "keeping refresh sessions and catalog in memory")
}
