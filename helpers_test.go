package auth_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-campus-auth"
	"github.com/goliatone/go-campus-auth/repository"
)

// newTestDB opens a private in-memory sqlite database with migrations applied
func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	ctx := context.Background()
	db, err := repository.Open(ctx, repository.Options{
		Driver:       repository.DriverSQLite,
		DSN:          fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		MaxOpenConns: 1,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, repository.Migrate(ctx, db, quietLogger()))
	return db
}

func quietLogger() auth.Logger {
	return auth.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// newServer returns a fiber backed router whose app falls back to the
// auth error handler
func newServer() router.Server[*fiber.App] {
	return router.NewFiberAdapter(func(*fiber.App) *fiber.App {
		return fiber.New(fiber.Config{ErrorHandler: auth.FiberErrorHandler(quietLogger())})
	})
}
