// Command loaddb is a hardened CLI for loading the historical box-score
// workbook into the database. Runs are idempotent: games and box scores
// upsert on their natural keys, so reloading the same workbook is safe.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"cfb_stats/rankings/internal/config"
	"cfb_stats/rankings/internal/ingest"
	"cfb_stats/rankings/internal/repository"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	workbook := flag.String("workbook", "", "path to the box-score workbook (defaults to WORKBOOK_PATH)")
	sheet := flag.String("sheet", "", "sheet name to load (defaults to WORKBOOK_SHEET)")
	flag.Parse()

	if os.Getenv("APP_ENV") == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	ctx := context.Background()
	cfg := config.MustLoad()

	path := cfg.WorkbookPath
	if *workbook != "" {
		path = *workbook
	}
	sheetName := cfg.WorkbookSheet
	if *sheet != "" {
		sheetName = *sheet
	}

	db, err := repository.NewDatabase(ctx, repository.Config{
		Host:     cfg.DatabaseHost,
		Port:     fmt.Sprintf("%d", cfg.DatabasePort),
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		Database: cfg.DatabaseName,
		SSLMode:  cfg.DatabaseSSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// 1. Validate database connectivity
	log.Info().Msg("Validating service health...")
	if err := db.Health(ctx); err != nil {
		log.Fatal().Err(err).Msg("Database health check failed")
	}

	// 2. Ensure schema exists
	if err := db.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to run schema migration")
	}

	// 3. Load the workbook
	log.Info().Str("workbook", path).Str("sheet", sheetName).Msg("Loading box-score workbook")

	start := time.Now()
	result, err := ingest.NewLoader(db).Load(ctx, path, sheetName)
	if err != nil {
		log.Fatal().Err(err).Msg("Workbook load failed")
	}

	log.Info().
		Int("loaded", result.Loaded).
		Int("skipped", result.Skipped).
		Int("teams", result.Teams).
		Dur("elapsed", time.Since(start)).
		Msg("Workbook load complete.")
}
