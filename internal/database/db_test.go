package database

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDSN(t *testing.T) {
	got, err := NormalizeDSN("app:secret@tcp(db:3306)/store_rating")
	require.NoError(t, err)
	assert.Contains(t, got, "parseTime=true")
	assert.Contains(t, got, "charset=utf8mb4")
	assert.True(t, strings.HasPrefix(got, "app:secret@tcp(db:3306)/store_rating?"))

	_, err = NormalizeDSN("not a dsn")
	assert.Error(t, err)
}

func TestMigrationsEmbedded(t *testing.T) {
	names, err := fs.Glob(migrations, "migrations/*.sql")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"migrations/00001_create_users.sql",
		"migrations/00002_create_stores.sql",
		"migrations/00003_create_ratings.sql",
	}, names)

	body, err := fs.ReadFile(migrations, "migrations/00003_create_ratings.sql")
	require.NoError(t, err)
	assert.Contains(t, string(body), "UNIQUE KEY uq_ratings_user_store (user_id, store_id)")
	assert.Contains(t, string(body), "-- +goose Up")
}

func TestMigrate_WrapsGooseError(t *testing.T) {
	orig := gooseUp
	t.Cleanup(func() { gooseUp = orig })

	var gotDir string
	gooseUp = func(_ context.Context, _ *sql.DB, dir string, _ ...goose.OptionsFunc) error {
		gotDir = dir
		return errors.New("boom")
	}

	err := Migrate(context.Background(), nil)
	assert.EqualError(t, err, "apply migrations: boom")
	assert.Equal(t, "migrations", gotDir)
}
