package repository

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// schema contains the complete DDL for the engine's tables.
//
// teams, games and team_game_stats are write-once from ingestion.
// rolling_team_stats is fully rebuilt by every aggregator run and then
// point-updated (rating column only) by the rating updater.
const schema = `
CREATE TABLE IF NOT EXISTS teams (
    team_id     BIGSERIAL PRIMARY KEY,
    team_name   TEXT NOT NULL UNIQUE,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS games (
    game_id       BIGSERIAL PRIMARY KEY,
    season        INTEGER NOT NULL,
    week          INTEGER NOT NULL,
    game_type     TEXT NOT NULL,
    home_team_id  BIGINT NOT NULL REFERENCES teams(team_id),
    away_team_id  BIGINT NOT NULL REFERENCES teams(team_id),
    score_home    INTEGER,
    score_away    INTEGER,
    q1_home INTEGER, q2_home INTEGER, q3_home INTEGER, q4_home INTEGER, ot_home INTEGER,
    q1_away INTEGER, q2_away INTEGER, q3_away INTEGER, q4_away INTEGER, ot_away INTEGER,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE(season, week, home_team_id, away_team_id)
);
CREATE INDEX IF NOT EXISTS idx_games_type_season_week ON games(game_type, season, week);
CREATE INDEX IF NOT EXISTS idx_games_home_team ON games(home_team_id);
CREATE INDEX IF NOT EXISTS idx_games_away_team ON games(away_team_id);

CREATE TABLE IF NOT EXISTS team_game_stats (
    game_id          BIGINT NOT NULL REFERENCES games(game_id),
    team_id          BIGINT NOT NULL REFERENCES teams(team_id),
    is_home          BOOLEAN NOT NULL,
    first_downs      INTEGER NOT NULL DEFAULT 0,
    third_down_comp  INTEGER NOT NULL DEFAULT 0,
    third_down_att   INTEGER NOT NULL DEFAULT 0,
    fourth_down_comp INTEGER NOT NULL DEFAULT 0,
    fourth_down_att  INTEGER NOT NULL DEFAULT 0,
    pass_comp        INTEGER NOT NULL DEFAULT 0,
    pass_att         INTEGER NOT NULL DEFAULT 0,
    pass_yards       INTEGER NOT NULL DEFAULT 0,
    rush_att         INTEGER NOT NULL DEFAULT 0,
    rush_yards       INTEGER NOT NULL DEFAULT 0,
    total_yards      INTEGER NOT NULL DEFAULT 0,
    fumbles          INTEGER NOT NULL DEFAULT 0,
    interceptions    INTEGER NOT NULL DEFAULT 0,
    pen_num          INTEGER NOT NULL DEFAULT 0,
    pen_yards        INTEGER NOT NULL DEFAULT 0,
    possession_time  DOUBLE PRECISION NOT NULL DEFAULT 0,
    created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (game_id, team_id)
);

CREATE TABLE IF NOT EXISTS rolling_team_stats (
    team_id  BIGINT NOT NULL REFERENCES teams(team_id),
    season   INTEGER NOT NULL,
    week     INTEGER NOT NULL,
    rolling_pass_yards_for      DOUBLE PRECISION NOT NULL,
    rolling_rush_yards_for      DOUBLE PRECISION NOT NULL,
    rolling_total_yards_for     DOUBLE PRECISION NOT NULL,
    rolling_points_scored       DOUBLE PRECISION NOT NULL,
    rolling_pass_yards_against  DOUBLE PRECISION NOT NULL,
    rolling_rush_yards_against  DOUBLE PRECISION NOT NULL,
    rolling_total_yards_against DOUBLE PRECISION NOT NULL,
    rolling_points_allowed      DOUBLE PRECISION NOT NULL,
    rolling_elo                 DOUBLE PRECISION NOT NULL,
    pass_yards_for_rank      INTEGER NOT NULL,
    rush_yards_for_rank      INTEGER NOT NULL,
    total_yards_for_rank     INTEGER NOT NULL,
    points_scored_rank       INTEGER NOT NULL,
    pass_yards_against_rank  INTEGER NOT NULL,
    rush_yards_against_rank  INTEGER NOT NULL,
    total_yards_against_rank INTEGER NOT NULL,
    points_allowed_rank      INTEGER NOT NULL,
    elo_rank                 INTEGER NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (team_id, season, week)
);
CREATE INDEX IF NOT EXISTS idx_rolling_season_week ON rolling_team_stats(season, week);
`

// Migrate applies the schema. All statements are idempotent.
func (db *Database) Migrate(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	log.Info().Msg("Database schema applied")
	return nil
}
