package database

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vancomm/mine-stalker/internal/config"
)

func Connect(ctx context.Context, cfg *config.Database) (*pgxpool.Pool, error) {
	poolConfig, err := cfg.PoolConfig()
	if err != nil {
		return nil, fmt.Errorf("unable to parse db config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}
	return pool, nil
}

// Migrate applies every pending migration found at the root of migrations.
func Migrate(url string, migrations fs.FS) (*migrate.Migrate, error) {
	source, err := iofs.New(migrations, ".")
	if err != nil {
		return nil, fmt.Errorf("unable to create migrations iofs: %w", err)
	}
	migrator, err := migrate.NewWithSourceInstance("iofs", source, url)
	if err != nil {
		return nil, fmt.Errorf("unable to create migrator: %w", err)
	}
	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return migrator, nil
}

func ConnectAndMigrate(
	ctx context.Context, cfg *config.Database, migrations fs.FS,
) (*pgxpool.Pool, *migrate.Migrate, error) {
	migrator, err := Migrate(cfg.URL(), migrations)
	if err != nil {
		return nil, nil, err
	}
	pool, err := Connect(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return pool, migrator, nil
}
