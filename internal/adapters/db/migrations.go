// internal/adapters/db/migrations.go
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// MigrationConfig holds migration configuration
type MigrationConfig struct {
	DatabaseURL string
	SourcePath  string
}

// RunMigrations applies all pending up migrations from the source path.
func RunMigrations(ctx context.Context, config *MigrationConfig, logger *slog.Logger) error {
	if config == nil || config.DatabaseURL == "" {
		return fmt.Errorf("migration config with database URL is required")
	}
	sourcePath := config.SourcePath
	if sourcePath == "" {
		sourcePath = "migrations"
	}

	m, err := migrate.New("file://"+sourcePath, config.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil || dbErr != nil {
			logger.Warn("failed to close migrator",
				slog.Any("source_error", srcErr),
				slog.Any("db_error", dbErr))
		}
	}()

	start := time.Now()
	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.InfoContext(ctx, "migrations up to date")
			return nil
		}
		return fmt.Errorf("migration failed: %w", err)
	}

	version, dirty, _ := m.Version()
	logger.InfoContext(ctx, "migrations applied",
		slog.Uint64("version", uint64(version)),
		slog.Bool("dirty", dirty),
		slog.Duration("took", time.Since(start)))
	return nil
}

// RunMigrationsWithRetry retries transient startup failures (store not
// accepting connections yet).
func RunMigrationsWithRetry(ctx context.Context, config *MigrationConfig, logger *slog.Logger, attempts int) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		if err = RunMigrations(ctx, config, logger); err == nil {
			return nil
		}

		logger.WarnContext(ctx, "migration attempt failed",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(i+1) * time.Second):
		}
	}
	return fmt.Errorf("migrations failed after %d attempts: %w", attempts, err)
}
