// The import command performs the one-off batch load of the plant dataset CSV
// into the catalog store. Setup failures (config, database, migrations, CSV)
// are fatal; individual row failures are logged and the run continues.
package main

import (
	"context"
	"fmt"
	"os"

	"plantstore/internal/config"
	"plantstore/internal/database"
	"plantstore/internal/importer"
	"plantstore/internal/logger"
	"plantstore/internal/repository"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Best effort; configuration falls back to the environment and defaults.
	_ = godotenv.Load()

	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Error("Import failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx := context.Background()

	dbService, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer dbService.Close()

	db := dbService.DB()
	if err := database.RunMigrations(db, "migrations", log); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	rows, err := importer.ReadRows(cfg.Import.CSVPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", cfg.Import.CSVPath, err)
	}
	log.Info("CSV file processed", zap.String("path", cfg.Import.CSVPath), zap.Int("plants", len(rows)))

	imp := importer.New(
		repository.NewProductRepository(db),
		repository.NewCategoryRepository(db),
		log,
	)

	if _, err := imp.Run(ctx, rows); err != nil {
		return err
	}
	return nil
}
