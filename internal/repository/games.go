package repository

import (
	"context"
	"fmt"

	"cfb_stats/rankings/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// GameRepository handles game database operations
type GameRepository struct {
	db *Database
}

// Upsert inserts or updates a game, keyed on its natural key
// (season, week, home_team_id, away_team_id). The generated game_id is
// written back into the model.
func (r *GameRepository) Upsert(ctx context.Context, game *models.Game) error {
	query := `
		INSERT INTO games (
			season, week, game_type, home_team_id, away_team_id,
			score_home, score_away,
			q1_home, q2_home, q3_home, q4_home, ot_home,
			q1_away, q2_away, q3_away, q4_away, ot_away
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (season, week, home_team_id, away_team_id) DO UPDATE SET
			game_type = EXCLUDED.game_type,
			score_home = EXCLUDED.score_home,
			score_away = EXCLUDED.score_away,
			q1_home = EXCLUDED.q1_home,
			q2_home = EXCLUDED.q2_home,
			q3_home = EXCLUDED.q3_home,
			q4_home = EXCLUDED.q4_home,
			ot_home = EXCLUDED.ot_home,
			q1_away = EXCLUDED.q1_away,
			q2_away = EXCLUDED.q2_away,
			q3_away = EXCLUDED.q3_away,
			q4_away = EXCLUDED.q4_away,
			ot_away = EXCLUDED.ot_away,
			updated_at = NOW()
		RETURNING game_id, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(
		ctx, query,
		game.Season, game.Week, game.GameType, game.HomeTeamID, game.AwayTeamID,
		game.ScoreHome, game.ScoreAway,
		game.Q1Home, game.Q2Home, game.Q3Home, game.Q4Home, game.OTHome,
		game.Q1Away, game.Q2Away, game.Q3Away, game.Q4Away, game.OTAway,
	).Scan(&game.GameID, &game.CreatedAt, &game.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert game: %w", err)
	}

	log.Debug().
		Int("game_id", game.GameID).
		Int("season", game.Season).
		Int("week", game.Week).
		Int("home", game.HomeTeamID).
		Int("away", game.AwayTeamID).
		Msg("Game upserted")

	return nil
}

// GetByID retrieves a game by its database ID
func (r *GameRepository) GetByID(ctx context.Context, gameID int) (*models.Game, error) {
	query := `
		SELECT game_id, season, week, game_type, home_team_id, away_team_id,
		       score_home, score_away,
		       q1_home, q2_home, q3_home, q4_home, ot_home,
		       q1_away, q2_away, q3_away, q4_away, ot_away,
		       created_at, updated_at
		FROM games
		WHERE game_id = $1
	`

	var game models.Game
	err := r.db.Pool.QueryRow(ctx, query, gameID).Scan(
		&game.GameID, &game.Season, &game.Week, &game.GameType, &game.HomeTeamID, &game.AwayTeamID,
		&game.ScoreHome, &game.ScoreAway,
		&game.Q1Home, &game.Q2Home, &game.Q3Home, &game.Q4Home, &game.OTHome,
		&game.Q1Away, &game.Q2Away, &game.Q3Away, &game.Q4Away, &game.OTAway,
		&game.CreatedAt, &game.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("game not found: game_id=%d", gameID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return &game, nil
}

// ListRegularSeason retrieves all regular-season games in global
// chronological order. Week ordering inside a season and game_id ordering
// inside a week are both part of the engine's replay contract.
func (r *GameRepository) ListRegularSeason(ctx context.Context) ([]*models.Game, error) {
	query := `
		SELECT game_id, season, week, game_type, home_team_id, away_team_id,
		       score_home, score_away,
		       q1_home, q2_home, q3_home, q4_home, ot_home,
		       q1_away, q2_away, q3_away, q4_away, ot_away,
		       created_at, updated_at
		FROM games
		WHERE game_type = $1
		ORDER BY season, week, game_id
	`

	rows, err := r.db.Pool.Query(ctx, query, models.GameTypeRegular)
	if err != nil {
		return nil, fmt.Errorf("failed to list regular season games: %w", err)
	}
	defer rows.Close()

	var games []*models.Game
	for rows.Next() {
		var game models.Game
		err := rows.Scan(
			&game.GameID, &game.Season, &game.Week, &game.GameType, &game.HomeTeamID, &game.AwayTeamID,
			&game.ScoreHome, &game.ScoreAway,
			&game.Q1Home, &game.Q2Home, &game.Q3Home, &game.Q4Home, &game.OTHome,
			&game.Q1Away, &game.Q2Away, &game.Q3Away, &game.Q4Away, &game.OTAway,
			&game.CreatedAt, &game.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, &game)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating games: %w", err)
	}

	log.Debug().Int("count", len(games)).Msg("Retrieved regular season games")
	return games, nil
}

// Count returns the total number of games
func (r *GameRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM games`

	var count int
	err := r.db.Pool.QueryRow(ctx, query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count games: %w", err)
	}

	return count, nil
}
