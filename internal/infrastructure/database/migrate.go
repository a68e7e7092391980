package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	iofs "github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/janhq/image-storage-api/internal/config"
	"github.com/janhq/image-storage-api/internal/infrastructure/database/migrations"
)

const migrationsTable = "schema_migrations"

// Migrate applies all pending SQL migrations bundled with the service.
func Migrate(ctx context.Context, cfg Config, log zerolog.Logger) (err error) {
	migrator, err := newMigrator(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeMigrator(migrator, &err)

	version, dirty, verErr := migrator.Version()
	switch {
	case errors.Is(verErr, migrate.ErrNilVersion):
		log.Info().Msg("No migrations have been applied yet")
	case verErr != nil:
		log.Warn().Err(verErr).Msg("Error getting migration version")
	default:
		log.Info().Uint("version", version).Bool("dirty", dirty).Msg("Current migration state")
	}
	if dirty {
		return fmt.Errorf("database schema is dirty at version %d; repair it and run `imagectl migrate force %d`", version, version)
	}

	if err := migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info().Msg("No new migrations to apply")
			return nil
		}
		return fmt.Errorf("apply migrations: %w", err)
	}

	if finalVersion, _, err := migrator.Version(); err == nil {
		log.Info().Uint("version", finalVersion).Msg("Migrations applied successfully")
	}
	return nil
}

// Version reports the applied schema version. A fresh database has version 0.
func Version(ctx context.Context, cfg Config) (version uint, dirty bool, err error) {
	migrator, err := newMigrator(ctx, cfg)
	if err != nil {
		return 0, false, err
	}
	defer closeMigrator(migrator, &err)

	version, dirty, err = migrator.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

// Force records version as applied and clears the dirty flag.
func Force(ctx context.Context, cfg Config, version int) (err error) {
	migrator, err := newMigrator(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeMigrator(migrator, &err)

	return migrator.Force(version)
}

// newMigrator opens a dedicated connection, closed together with the migrator.
func newMigrator(ctx context.Context, cfg Config) (*migrate.Migrate, error) {
	var driverName string
	switch cfg.Driver {
	case config.DriverSQLite:
		driverName = "sqlite3"
		if err := ensureSQLiteDir(cfg.DSN); err != nil {
			return nil, err
		}
	case config.DriverPostgres:
		driverName = "postgres"
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	sqlDB, err := sql.Open(driverName, cfg.DataSource())
	if err != nil {
		return nil, fmt.Errorf("open migration connection: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	var driver migratedb.Driver
	if cfg.Driver == config.DriverSQLite {
		driver, err = sqlite3.WithInstance(sqlDB, &sqlite3.Config{MigrationsTable: migrationsTable})
	} else {
		driver, err = postgres.WithInstance(sqlDB, &postgres.Config{MigrationsTable: migrationsTable})
	}
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("initialize %s migration driver: %w", cfg.Driver, err)
	}

	source, err := iofs.New(migrations.FS, cfg.Driver)
	if err != nil {
		_ = driver.Close()
		return nil, fmt.Errorf("load migrations: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, driverName, driver)
	if err != nil {
		_ = source.Close()
		_ = driver.Close()
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return migrator, nil
}

func closeMigrator(migrator *migrate.Migrate, err *error) {
	sourceErr, dbErr := migrator.Close()
	if *err == nil && sourceErr != nil {
		*err = fmt.Errorf("close migration source: %w", sourceErr)
	}
	if *err == nil && dbErr != nil {
		*err = fmt.Errorf("close migration connection: %w", dbErr)
	}
}
