package scheduler

import (
	"context"
	"fmt"
	"time"

	"cfb_stats/rankings/internal/config"
	"cfb_stats/rankings/internal/engine"
	"cfb_stats/rankings/internal/metrics"
	"cfb_stats/rankings/internal/repository"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Scheduler manages background work for the engine worker: the nightly full
// recompute cron and a ticker that refreshes the table-size gauges.
type Scheduler struct {
	cfg      *config.Config
	db       *repository.Database
	pipeline *engine.Pipeline
	cron     *cron.Cron
	ticker   *time.Ticker
	stopChan chan struct{}
}

// NewScheduler creates a new scheduler instance
func NewScheduler(cfg *config.Config, db *repository.Database, pipeline *engine.Pipeline) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		db:       db,
		pipeline: pipeline,
		cron:     cron.New(),
		stopChan: make(chan struct{}),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start(ctx context.Context) error {
	log.Info().Msg("Scheduler starting...")

	if _, err := s.cron.AddFunc(s.cfg.RecomputeCron, func() {
		log.Info().Msg("Running scheduled recompute...")
		if _, err := s.pipeline.Run(ctx); err != nil {
			log.Error().Err(err).Msg("Scheduled recompute failed")
			metrics.RecordError("scheduler", "recompute")
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule recompute: %w", err)
	}

	s.cron.Start()
	log.Info().
		Str("schedule", s.cfg.RecomputeCron).
		Msg("Nightly recompute scheduled")

	// Refresh table-size gauges once a minute
	s.ticker = time.NewTicker(time.Minute)
	go s.refreshGauges(ctx)

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping scheduler...")

	if s.cron != nil {
		s.cron.Stop()
	}

	if s.ticker != nil {
		s.ticker.Stop()
	}

	close(s.stopChan)
	log.Info().Msg("Scheduler stopped")
}

// refreshGauges keeps the table-size metrics current
func (s *Scheduler) refreshGauges(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopChan:
			return
		case <-s.ticker.C:
			if err := s.updateTableStats(ctx); err != nil {
				log.Warn().Err(err).Msg("Failed to refresh table stats")
			}
		}
	}
}

func (s *Scheduler) updateTableStats(ctx context.Context) error {
	teams, err := s.db.Teams.Count(ctx)
	if err != nil {
		return err
	}
	games, err := s.db.Games.Count(ctx)
	if err != nil {
		return err
	}
	gameStats, err := s.db.GameStats.Count(ctx)
	if err != nil {
		return err
	}
	rolling, err := s.db.Rolling.Count(ctx)
	if err != nil {
		return err
	}

	metrics.UpdateTableStats(teams, games, gameStats, rolling)

	stat := s.db.Pool.Stat()
	metrics.UpdateDBConnectionStats(stat.AcquiredConns(), stat.IdleConns())
	return nil
}
