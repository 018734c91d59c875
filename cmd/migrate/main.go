package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/gorm"

	pgstore "github.com/dwarvesf/casper-bridge-relayer/internal/store/postgres"
	"github.com/dwarvesf/casper-bridge-relayer/internal/utils/config"
	"github.com/dwarvesf/casper-bridge-relayer/internal/utils/logger"
)

func runMigrations(db *gorm.DB, logger *logger.Logger, dir string, down bool) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}

	migrationPath := fmt.Sprintf("file://%s", dir)
	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create postgres driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(migrationPath, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if down {
		err = m.Down()
	} else {
		err = m.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}

	version, dirty, _ := m.Version()
	logger.Info("Migrations completed successfully", map[string]string{
		"version": fmt.Sprintf("%d", version),
		"dirty":   fmt.Sprintf("%t", dirty),
	})
	return nil
}

func main() {
	down := flag.Bool("down", false, "roll back all migrations")
	dir := flag.String("dir", filepath.Join("migrations", "schema"), "migrations directory")
	flag.Parse()

	appConfig := config.New()
	logger := logger.New(appConfig.Environment)

	db := pgstore.New(appConfig, logger)

	if err := runMigrations(db, logger, *dir, *down); err != nil {
		logger.Error("[main][runMigrations] failed to run migrations", map[string]string{
			"error": err.Error(),
		})
		os.Exit(1)
	}
}
