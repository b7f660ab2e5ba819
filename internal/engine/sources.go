// Package engine implements the rolling performance and rating engine: a
// two-stage batch pipeline that rebuilds the rolling_team_stats table from
// raw game history and then replays every season's games to compute a
// decayed, rank-adjusted Elo rating per team per week.
package engine

import (
	"context"

	"cfb_stats/rankings/internal/models"
)

// GameSource provides the raw game history, ordered by (season, week, game_id).
type GameSource interface {
	ListRegularSeason(ctx context.Context) ([]*models.Game, error)
}

// StatSource provides the per-game box scores.
type StatSource interface {
	ListAll(ctx context.Context) ([]*models.TeamGameStat, error)
}

// TeamSource provides the known team ids.
type TeamSource interface {
	ListIDs(ctx context.Context) ([]int, error)
}

// RollingStore is the aggregator's write interface to rolling_team_stats.
type RollingStore interface {
	Clear(ctx context.Context) error
	InsertWeek(ctx context.Context, stats []*models.RollingTeamStat) error
}

// RatingStore is the rating updater's interface to rolling_team_stats: it
// reads the rank columns the aggregator produced and writes back ratings.
type RatingStore interface {
	ListAll(ctx context.Context) ([]*models.RollingTeamStat, error)
	UpdateRatings(ctx context.Context, snapshots []models.RatingSnapshot) error
}
