package db

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blueberry/internal/xpkg/config"
)

func TestMigrateURL(t *testing.T) {
	cfg := config.Postgres{User: "app", Password: "pw", Host: "db", Port: "5432", Database: "menu"}
	assert.Equal(t, "pgx5://app:pw@db:5432/menu?sslmode=disable", migrateURL(cfg))
}

func TestMigrations_ArePaired(t *testing.T) {
	ups, err := fs.Glob(migrations, "migrations/*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(migrations, "migrations/*.down.sql")
	require.NoError(t, err)

	require.NotEmpty(t, ups)
	assert.Len(t, downs, len(ups))
}
