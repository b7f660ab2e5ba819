package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Pipeline runs the two engine stages in their required order: the
// aggregator must fully commit before the rating updater reads the rank
// columns it produced.
type Pipeline struct {
	Aggregator *Aggregator
	Updater    *RatingUpdater
}

// NewPipeline wires both stages against the same store.
func NewPipeline(games GameSource, stats StatSource, teams TeamSource, store interface {
	RollingStore
	RatingStore
}, params RatingParams) *Pipeline {
	return &Pipeline{
		Aggregator: NewAggregator(games, stats, store, params.Seed),
		Updater:    NewRatingUpdater(games, teams, store, params),
	}
}

// Result combines both stages' summaries.
type Result struct {
	Aggregate        *AggregateResult
	Rating           *RatingResult
	AggregateElapsed time.Duration
	RatingElapsed    time.Duration
	Elapsed          time.Duration
}

// Run executes a full recompute. If aggregation fails the updater never
// starts; the previous table contents are already gone at that point and the
// next successful run rebuilds everything, so partial state is safe to leave.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	log.Info().Msg("Starting full recompute")

	agg, err := p.Aggregator.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("aggregation stage failed: %w", err)
	}
	aggElapsed := time.Since(start)

	rating, err := p.Updater.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("rating stage failed: %w", err)
	}

	result := &Result{
		Aggregate:        agg,
		Rating:           rating,
		AggregateElapsed: aggElapsed,
		RatingElapsed:    time.Since(start) - aggElapsed,
		Elapsed:          time.Since(start),
	}

	log.Info().
		Dur("elapsed", result.Elapsed).
		Int("rows", agg.RowsWritten).
		Int("snapshots", rating.Snapshots).
		Msg("Full recompute finished")

	return result, nil
}
