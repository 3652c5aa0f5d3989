package datastore

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/postgres/*.sql migrations/mysql/*.sql
var migrationsFS embed.FS

// NewMigrator builds a migrate instance for the dialect's embedded migrations
// on top of db. Closing the migrator closes db.
func NewMigrator(db *sql.DB, dialect Dialect) (*migrate.Migrate, error) {
	source, err := iofs.New(migrationsFS, "migrations/"+dialect.Name)
	if err != nil {
		return nil, fmt.Errorf("create migration source: %w", err)
	}

	var driver database.Driver
	switch dialect.Name {
	case Postgres.Name:
		driver, err = migratepg.WithInstance(db, &migratepg.Config{})
	case MySQL.Name:
		driver, err = migratemysql.WithInstance(db, &migratemysql.Config{})
	default:
		err = fmt.Errorf("no migrations for dialect %q", dialect.Name)
	}
	if err != nil {
		return nil, fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, dialect.Name, driver)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return m, nil
}

// Migrate applies all pending migrations on a dedicated connection. It returns
// nil when the schema is already current.
func Migrate(driverName, dsn string) error {
	dialect, err := DialectFor(driverName)
	if err != nil {
		return err
	}

	dsn, err = DriverDSN(dialect, dsn)
	if err != nil {
		return err
	}

	db, err := sql.Open(dialect.DriverName, dsn)
	if err != nil {
		return fmt.Errorf("open database for migrations: %w", err)
	}

	m, err := NewMigrator(db, dialect)
	if err != nil {
		db.Close()
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
