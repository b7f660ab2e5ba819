package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"cfb_stats/rankings/internal/cache"
	"cfb_stats/rankings/internal/config"
	"cfb_stats/rankings/internal/engine"
	"cfb_stats/rankings/internal/metrics"
	"cfb_stats/rankings/internal/repository"
	"cfb_stats/rankings/internal/scheduler"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Setup logger
	setupLogger()

	log.Info().Msg("Starting CFB Rolling Stats & Ratings Worker")

	// Load configuration
	cfg := config.MustLoad()
	log.Info().
		Str("env", cfg.AppEnv).
		Str("log_level", cfg.LogLevel).
		Msg("Configuration loaded")

	// Create context that listens for cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("Received shutdown signal, gracefully shutting down...")
		cancel()
	}()

	// Initialize database connection
	dbConfig := repository.Config{
		Host:     cfg.DatabaseHost,
		Port:     strconv.Itoa(cfg.DatabasePort),
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		Database: cfg.DatabaseName,
		SSLMode:  cfg.DatabaseSSLMode,
	}

	db, err := repository.NewDatabase(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()
	log.Info().Msg("Database connection established")

	// Ensure schema exists
	if err := db.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to run schema migration")
	}

	// Initialize Redis client
	redisCache, err := cache.NewRedisCache(cache.Config{
		Host:     cfg.RedisHost,
		Port:     strconv.Itoa(cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to connect to Redis - continuing without cache")
		redisCache = nil
	} else {
		defer redisCache.Close()
		log.Info().Msg("Redis cache connected")
	}

	// Start metrics HTTP server
	if cfg.EnableMetrics {
		go startMetricsServer(strconv.Itoa(cfg.MetricsPort))
	}

	// Update system uptime metric
	startTime := time.Now()
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.SystemUptime.Set(time.Since(startTime).Seconds())
			case <-ctx.Done():
				return
			}
		}
	}()

	// Build the recompute pipeline
	params := engine.RatingParams{
		BaseK:       cfg.EloBaseK,
		DecayFactor: cfg.EloDecayFactor,
		Seed:        cfg.RatingSeed,
	}
	pipeline := engine.NewPipeline(db.Games, db.GameStats, db.Teams, db.Rolling, params)

	// Run initial recompute if enabled
	if cfg.RunOnStart {
		log.Info().Msg("Running initial recompute...")
		if err := runRecompute(ctx, cfg, pipeline, db, redisCache); err != nil {
			log.Error().Err(err).Msg("Initial recompute failed")
		} else {
			log.Info().Msg("Initial recompute completed successfully")
		}
	}

	// Create and start scheduler
	if cfg.EnableScheduler {
		sched := scheduler.NewScheduler(cfg, db, pipeline)

		log.Info().Msg("Starting scheduler...")
		if err := sched.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to start scheduler")
		}

		// Keep running until context is cancelled
		<-ctx.Done()

		log.Info().Msg("Shutting down scheduler...")
		sched.Stop()
	}

	log.Info().Msg("Worker shutdown complete")
}

// runRecompute executes the full pipeline, records metrics and publishes
// the freshest rankings snapshot to Redis when a cache is available
func runRecompute(ctx context.Context, cfg *config.Config, pipeline *engine.Pipeline, db *repository.Database, redisCache *cache.RedisCache) error {
	result, err := pipeline.Run(ctx)
	if err != nil {
		metrics.RecordEngineRun("pipeline", "error", 0)
		metrics.RecordError("pipeline", "run_failed")
		return err
	}

	metrics.RecordEngineRun("aggregate", "success", result.AggregateElapsed.Seconds())
	metrics.RecordEngineRun("rating", "success", result.RatingElapsed.Seconds())
	metrics.RecordEngineRun("pipeline", "success", result.Elapsed.Seconds())
	metrics.RecordAggregateStats(result.Aggregate.RowsWritten, result.Aggregate.WeeksSkipped, result.Aggregate.TeamsSkipped)
	metrics.RecordRatingStats(result.Rating.Snapshots, result.Rating.NeutralModifiers)

	log.Info().
		Int("weeks_processed", result.Aggregate.WeeksProcessed).
		Int("rows_written", result.Aggregate.RowsWritten).
		Int("rating_snapshots", result.Rating.Snapshots).
		Dur("elapsed", result.Elapsed).
		Msg("Recompute pipeline complete")

	if redisCache != nil {
		if err := publishLatestRankings(ctx, cfg, db, redisCache); err != nil {
			log.Warn().Err(err).Msg("Failed to publish rankings snapshot to cache")
		}
	}

	return nil
}

// publishLatestRankings caches the most recent week's rolling stats
func publishLatestRankings(ctx context.Context, cfg *config.Config, db *repository.Database, redisCache *cache.RedisCache) error {
	season, week, err := db.Rolling.LatestWeek(ctx)
	if err != nil {
		return err
	}

	rows, err := db.Rolling.GetBySeasonWeek(ctx, season, week)
	if err != nil {
		return err
	}

	snap := &cache.RankingsSnapshot{
		Season:     season,
		Week:       week,
		ComputedAt: time.Now(),
		Rows:       rows,
	}

	ttl := time.Duration(cfg.CacheTTLRankings) * time.Second
	if err := redisCache.SetRankingsSnapshot(ctx, snap, ttl); err != nil {
		return err
	}

	log.Info().
		Int("season", season).
		Int("week", week).
		Int("teams", len(rows)).
		Msg("Rankings snapshot published to cache")

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger() {
	// Pretty console logging in development
	if os.Getenv("APP_ENV") == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	// Set log level
	level := zerolog.InfoLevel
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		parsedLevel, err := zerolog.ParseLevel(lvl)
		if err == nil {
			level = parsedLevel
		}
	}
	zerolog.SetGlobalLevel(level)

	log.Info().
		Str("level", level.String()).
		Msg("Logger initialized")
}

func startMetricsServer(port string) {
	http.Handle("/metrics", promhttp.Handler())

	// Health check endpoint
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	addr := fmt.Sprintf(":%s", port)
	log.Info().Str("port", port).Msg("Starting metrics server")

	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Error().Err(err).Msg("Metrics server failed")
	}
}
