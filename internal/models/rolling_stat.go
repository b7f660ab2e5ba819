package models

import (
	"time"
)

// RatingSeed is the baseline Elo rating. The aggregator writes it as a
// placeholder into every row; the rating updater resets every team to it at
// the start of each season.
const RatingSeed = 1500.0

// RollingTeamStat is the engine's sole output entity: one row per
// (team, season, week), holding the team's rolling offensive/defensive means
// over all prior completed regular-season games, the Elo rating, and the
// team's rank for each of the nine metrics among the teams that produced a
// row for the same week.
type RollingTeamStat struct {
	TeamID int `db:"team_id"`
	Season int `db:"season"`
	Week   int `db:"week"`

	// Offense ("for") rolling means
	RollingPassYardsFor  float64 `db:"rolling_pass_yards_for"`
	RollingRushYardsFor  float64 `db:"rolling_rush_yards_for"`
	RollingTotalYardsFor float64 `db:"rolling_total_yards_for"`
	RollingPointsScored  float64 `db:"rolling_points_scored"`

	// Defense ("against") rolling means
	RollingPassYardsAgainst  float64 `db:"rolling_pass_yards_against"`
	RollingRushYardsAgainst  float64 `db:"rolling_rush_yards_against"`
	RollingTotalYardsAgainst float64 `db:"rolling_total_yards_against"`
	RollingPointsAllowed     float64 `db:"rolling_points_allowed"`

	// Elo rating; seeded by the aggregator, overwritten by the rating updater
	RollingElo float64 `db:"rolling_elo"`

	// Per-week peer ranks (descending, competition/min-rank tie semantics).
	// Ranks are computed once by the aggregator and are not refreshed when
	// the rating updater overwrites RollingElo.
	PassYardsForRank      int `db:"pass_yards_for_rank"`
	RushYardsForRank      int `db:"rush_yards_for_rank"`
	TotalYardsForRank     int `db:"total_yards_for_rank"`
	PointsScoredRank      int `db:"points_scored_rank"`
	PassYardsAgainstRank  int `db:"pass_yards_against_rank"`
	RushYardsAgainstRank  int `db:"rush_yards_against_rank"`
	TotalYardsAgainstRank int `db:"total_yards_against_rank"`
	PointsAllowedRank     int `db:"points_allowed_rank"`
	EloRank               int `db:"elo_rank"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// RatingSnapshot is one team's rating immediately after one of its games was
// replayed. Snapshots are written back into RollingTeamStat.RollingElo in
// order; if a team has several games in one week the last snapshot wins.
type RatingSnapshot struct {
	TeamID int
	Season int
	Week   int
	Rating float64
}
