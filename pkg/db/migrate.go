// pkg/db/migrate.go
package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// RunMigrations applies the embedded migrations for driver to the database at dsn.
func RunMigrations(driver, dsn string) error {
	// Use a separate connection so closing the migrator does not affect the main pool
	migrateDB, err := sql.Open(driver, dsn)
	if err != nil {
		return fmt.Errorf("open migration database: %w", err)
	}
	defer migrateDB.Close()

	var dbDriver database.Driver
	switch driver {
	case DriverPostgres:
		dbDriver, err = migratepg.WithInstance(migrateDB, &migratepg.Config{})
	case DriverSQLite:
		dbDriver, err = migratesqlite.WithInstance(migrateDB, &migratesqlite.Config{})
	default:
		return fmt.Errorf("no migrations for driver %q", driver)
	}
	if err != nil {
		return fmt.Errorf("create %s migration driver: %w", driver, err)
	}

	source, err := iofs.New(migrationsFS, "migrations/"+driver)
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, driver, dbDriver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}
