package models

import (
	"database/sql"
	"time"
)

// Game types as stored in the games.game_type column.
const (
	GameTypeRegular    = "regular"
	GameTypePostseason = "postseason"
)

// Game represents a single college football game.
// A game is unique on (season, week, home_team_id, away_team_id) and is
// immutable once ingested. A game with a null score on either side is
// "incomplete" and is excluded from all aggregation and rating logic.
type Game struct {
	GameID     int    `db:"game_id"`
	Season     int    `db:"season"`
	Week       int    `db:"week"`
	GameType   string `db:"game_type"`
	HomeTeamID int    `db:"home_team_id"`
	AwayTeamID int    `db:"away_team_id"`

	// Final scores; null while the game is incomplete
	ScoreHome sql.NullInt32 `db:"score_home"`
	ScoreAway sql.NullInt32 `db:"score_away"`

	// Per-quarter and overtime scores
	Q1Home sql.NullInt32 `db:"q1_home"`
	Q2Home sql.NullInt32 `db:"q2_home"`
	Q3Home sql.NullInt32 `db:"q3_home"`
	Q4Home sql.NullInt32 `db:"q4_home"`
	OTHome sql.NullInt32 `db:"ot_home"`

	Q1Away sql.NullInt32 `db:"q1_away"`
	Q2Away sql.NullInt32 `db:"q2_away"`
	Q3Away sql.NullInt32 `db:"q3_away"`
	Q4Away sql.NullInt32 `db:"q4_away"`
	OTAway sql.NullInt32 `db:"ot_away"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// IsRegularSeason returns true if the game counts toward rolling stats and ratings.
func (g *Game) IsRegularSeason() bool {
	return g.GameType == GameTypeRegular
}

// IsComplete returns true if both final scores are present.
func (g *Game) IsComplete() bool {
	return g.ScoreHome.Valid && g.ScoreAway.Valid
}

// Involves returns true if the given team played in this game.
func (g *Game) Involves(teamID int) bool {
	return g.HomeTeamID == teamID || g.AwayTeamID == teamID
}

// OpponentOf returns the opposing team's id, or 0 if the team did not play.
func (g *Game) OpponentOf(teamID int) int {
	switch teamID {
	case g.HomeTeamID:
		return g.AwayTeamID
	case g.AwayTeamID:
		return g.HomeTeamID
	}
	return 0
}

// PointsFor returns the points scored by the given team.
// Only meaningful for complete games.
func (g *Game) PointsFor(teamID int) int {
	if teamID == g.HomeTeamID {
		return int(g.ScoreHome.Int32)
	}
	return int(g.ScoreAway.Int32)
}

// PointsAgainst returns the points allowed by the given team.
// Only meaningful for complete games.
func (g *Game) PointsAgainst(teamID int) int {
	if teamID == g.HomeTeamID {
		return int(g.ScoreAway.Int32)
	}
	return int(g.ScoreHome.Int32)
}
