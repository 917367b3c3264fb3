// pkg/db/db.go
package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds database connection configuration.
type Config struct {
	Driver     string
	Host       string
	Port       int
	User       string
	Password   string
	DBName     string
	SSLMode    string
	SQLitePath string
}

// DSN returns the data source name for the configured driver.
func (c Config) DSN() string {
	if c.Driver == DriverSQLite {
		return sqliteDSN(c.SQLitePath)
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// Open connects to the configured database and brings its schema up to date.
func Open(cfg Config) (*sqlx.DB, error) {
	var (
		conn *sqlx.DB
		err  error
	)
	switch cfg.Driver {
	case DriverPostgres, "":
		cfg.Driver = DriverPostgres
		conn, err = NewPostgresDB(cfg)
	case DriverSQLite:
		conn, err = NewSQLiteDB(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(cfg.Driver, cfg.DSN()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return conn, nil
}
