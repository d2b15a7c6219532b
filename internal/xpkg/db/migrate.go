package db

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"blueberry/internal/xpkg/config"
	"blueberry/internal/xpkg/logger"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies every pending migration, or rolls all of them back when
// down is set.
func Migrate(dbCfg config.Postgres, down bool, mylog logger.Logger) error {
	mylog = mylog.Action("migrate")

	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, migrateURL(dbCfg))
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil || dbErr != nil {
			mylog.Warn("Failed to close migrator", "source_error", srcErr, "db_error", dbErr)
		}
	}()

	if down {
		err = m.Down()
	} else {
		err = m.Up()
	}
	if errors.Is(err, migrate.ErrNoChange) {
		mylog.Info("Schema already up to date")
		return nil
	}
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, dirty, _ := m.Version()
	mylog.Info("Migrations applied", "version", version, "dirty", dirty, "down", down)
	return nil
}

func migrateURL(dbCfg config.Postgres) string {
	return strings.Replace(dbCfg.DSN(), "postgres://", "pgx5://", 1)
}
