package database

import (
	"context"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to in-memory sqlite", func(t *testing.T) {
		db, err := New(ctx, WithMaxOpenConns(1))
		require.NoError(t, err)
		defer db.Close()

		assert.NoError(t, db.PingContext(ctx))
	})

	t.Run("applies migrations in order", func(t *testing.T) {
		db, err := New(ctx,
			WithMaxOpenConns(1),
			WithMigrations(
				`CREATE TABLE IF NOT EXISTS t (id INTEGER PRIMARY KEY, v TEXT)`,
				`INSERT INTO t (v) VALUES ('x')`,
			),
		)
		require.NoError(t, err)
		defer db.Close()

		var n int
		require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM t`).Scan(&n))
		assert.Equal(t, 1, n)
	})

	t.Run("broken migration fails", func(t *testing.T) {
		_, err := New(ctx, WithMaxOpenConns(1), WithMigrations(`CREATE NONSENSE`))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "apply migration 0")
	})

	t.Run("empty driver", func(t *testing.T) {
		_, err := New(ctx, WithDriver(""))
		assert.EqualError(t, err, "database driver cannot be empty")
	})

	t.Run("unknown driver exhausts retries", func(t *testing.T) {
		_, err := New(ctx, WithDriver("nope"), WithRetry(2, time.Millisecond))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "after 2 attempts")
	})
}
