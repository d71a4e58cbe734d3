package migration

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// Migrator applies versioned SQL files from the migrations directory
// against PostgreSQL, wrapping golang-migrate.
type Migrator struct {
	migrate *migrate.Migrate
	logger  *zap.Logger
}

// New creates a Migrator over an open database handle
func New(db *sql.DB, migrationsPath string, logger *zap.Logger) (*Migrator, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"postgres",
		driver,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	return &Migrator{migrate: m, logger: logger}, nil
}

// Up applies all pending migrations
func (m *Migrator) Up() error {
	m.logger.Info("Applying pending migrations")
	if done, err := m.finish(m.migrate.Up(), "migration up"); done || err != nil {
		return err
	}
	return m.logCurrentVersion("Migrations applied")
}

// Down rolls back every applied migration
func (m *Migrator) Down() error {
	m.logger.Info("Rolling back all migrations")
	if done, err := m.finish(m.migrate.Down(), "migration down"); done || err != nil {
		return err
	}
	m.logger.Info("All migrations rolled back")
	return nil
}

// Steps applies n migrations: positive runs forward, negative rolls back
func (m *Migrator) Steps(n int) error {
	m.logger.Info("Applying migration steps", zap.Int("steps", n))
	if done, err := m.finish(m.migrate.Steps(n), "migration steps"); done || err != nil {
		return err
	}
	return m.logCurrentVersion("Migration steps applied")
}

// GoTo migrates up or down to the given version
func (m *Migrator) GoTo(version uint) error {
	m.logger.Info("Migrating to version", zap.Uint("target_version", version))
	if done, err := m.finish(m.migrate.Migrate(version), fmt.Sprintf("migration to version %d", version)); done || err != nil {
		return err
	}
	m.logger.Info("Migration to version completed", zap.Uint("version", version))
	return nil
}

// Version returns the current schema version. A database with no applied
// migrations reports version 0.
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.migrate.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to get migration version: %w", err)
	}
	return version, dirty, nil
}

// Force overwrites the recorded version without running any SQL. Only for
// repairing a dirty schema_migrations row.
func (m *Migrator) Force(version int) error {
	m.logger.Warn("Forcing migration version", zap.Int("version", version))
	if err := m.migrate.Force(version); err != nil {
		return fmt.Errorf("failed to force version %d: %w", version, err)
	}
	return nil
}

// Drop destroys every object in the connected database
func (m *Migrator) Drop() error {
	m.logger.Warn("Dropping database, all data will be lost")
	if err := m.migrate.Drop(); err != nil {
		return fmt.Errorf("failed to drop database: %w", err)
	}
	return nil
}

// Close releases the migrator's source and database handles
func (m *Migrator) Close() error {
	sourceErr, dbErr := m.migrate.Close()
	if sourceErr != nil {
		return fmt.Errorf("failed to close source: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("failed to close database: %w", dbErr)
	}
	return nil
}

// finish handles the shared ErrNoChange case. The bool reports whether the
// caller should stop because nothing changed.
func (m *Migrator) finish(err error, op string) (bool, error) {
	if err == nil {
		return false, nil
	}
	if errors.Is(err, migrate.ErrNoChange) {
		m.logger.Info("Schema already up to date")
		return true, nil
	}
	return false, fmt.Errorf("%s failed: %w", op, err)
}

func (m *Migrator) logCurrentVersion(msg string) error {
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	m.logger.Info(msg, zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}
