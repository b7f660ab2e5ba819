package repository

import (
	"context"
	"fmt"

	"cfb_stats/rankings/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// GameStatRepository handles per-game team box-score database operations
type GameStatRepository struct {
	db *Database
}

// Upsert inserts or updates one team's box score for one game
func (r *GameStatRepository) Upsert(ctx context.Context, stat *models.TeamGameStat) error {
	query := `
		INSERT INTO team_game_stats (
			game_id, team_id, is_home,
			first_downs, third_down_comp, third_down_att, fourth_down_comp, fourth_down_att,
			pass_comp, pass_att, pass_yards, rush_att, rush_yards, total_yards,
			fumbles, interceptions, pen_num, pen_yards, possession_time
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		ON CONFLICT (game_id, team_id) DO UPDATE SET
			is_home = EXCLUDED.is_home,
			first_downs = EXCLUDED.first_downs,
			third_down_comp = EXCLUDED.third_down_comp,
			third_down_att = EXCLUDED.third_down_att,
			fourth_down_comp = EXCLUDED.fourth_down_comp,
			fourth_down_att = EXCLUDED.fourth_down_att,
			pass_comp = EXCLUDED.pass_comp,
			pass_att = EXCLUDED.pass_att,
			pass_yards = EXCLUDED.pass_yards,
			rush_att = EXCLUDED.rush_att,
			rush_yards = EXCLUDED.rush_yards,
			total_yards = EXCLUDED.total_yards,
			fumbles = EXCLUDED.fumbles,
			interceptions = EXCLUDED.interceptions,
			pen_num = EXCLUDED.pen_num,
			pen_yards = EXCLUDED.pen_yards,
			possession_time = EXCLUDED.possession_time,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(
		ctx, query,
		stat.GameID, stat.TeamID, stat.IsHome,
		stat.FirstDowns, stat.ThirdDownComp, stat.ThirdDownAtt, stat.FourthDownComp, stat.FourthDownAtt,
		stat.PassComp, stat.PassAtt, stat.PassYards, stat.RushAtt, stat.RushYards, stat.TotalYards,
		stat.Fumbles, stat.Interceptions, stat.PenNum, stat.PenYards, stat.PossessionTime,
	).Scan(&stat.CreatedAt, &stat.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert team game stats: %w", err)
	}

	log.Debug().
		Int("game_id", stat.GameID).
		Int("team_id", stat.TeamID).
		Msg("Team game stats upserted")

	return nil
}

// GetByGameAndTeam retrieves one team's box score for one game
func (r *GameStatRepository) GetByGameAndTeam(ctx context.Context, gameID, teamID int) (*models.TeamGameStat, error) {
	query := `
		SELECT game_id, team_id, is_home,
		       first_downs, third_down_comp, third_down_att, fourth_down_comp, fourth_down_att,
		       pass_comp, pass_att, pass_yards, rush_att, rush_yards, total_yards,
		       fumbles, interceptions, pen_num, pen_yards, possession_time,
		       created_at, updated_at
		FROM team_game_stats
		WHERE game_id = $1 AND team_id = $2
	`

	var stat models.TeamGameStat
	err := r.db.Pool.QueryRow(ctx, query, gameID, teamID).Scan(
		&stat.GameID, &stat.TeamID, &stat.IsHome,
		&stat.FirstDowns, &stat.ThirdDownComp, &stat.ThirdDownAtt, &stat.FourthDownComp, &stat.FourthDownAtt,
		&stat.PassComp, &stat.PassAtt, &stat.PassYards, &stat.RushAtt, &stat.RushYards, &stat.TotalYards,
		&stat.Fumbles, &stat.Interceptions, &stat.PenNum, &stat.PenYards, &stat.PossessionTime,
		&stat.CreatedAt, &stat.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("stats not found: game_id=%d, team_id=%d", gameID, teamID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team game stats: %w", err)
	}

	return &stat, nil
}

// ListAll retrieves every box-score row. The aggregator bulk-loads these and
// indexes them in memory by (game_id, team_id).
func (r *GameStatRepository) ListAll(ctx context.Context) ([]*models.TeamGameStat, error) {
	query := `
		SELECT game_id, team_id, is_home,
		       first_downs, third_down_comp, third_down_att, fourth_down_comp, fourth_down_att,
		       pass_comp, pass_att, pass_yards, rush_att, rush_yards, total_yards,
		       fumbles, interceptions, pen_num, pen_yards, possession_time,
		       created_at, updated_at
		FROM team_game_stats
		ORDER BY game_id, team_id
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list team game stats: %w", err)
	}
	defer rows.Close()

	var stats []*models.TeamGameStat
	for rows.Next() {
		var stat models.TeamGameStat
		err := rows.Scan(
			&stat.GameID, &stat.TeamID, &stat.IsHome,
			&stat.FirstDowns, &stat.ThirdDownComp, &stat.ThirdDownAtt, &stat.FourthDownComp, &stat.FourthDownAtt,
			&stat.PassComp, &stat.PassAtt, &stat.PassYards, &stat.RushAtt, &stat.RushYards, &stat.TotalYards,
			&stat.Fumbles, &stat.Interceptions, &stat.PenNum, &stat.PenYards, &stat.PossessionTime,
			&stat.CreatedAt, &stat.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team game stats: %w", err)
		}
		stats = append(stats, &stat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team game stats: %w", err)
	}

	log.Debug().Int("count", len(stats)).Msg("Retrieved team game stats")
	return stats, nil
}

// Count returns the total number of box-score rows
func (r *GameStatRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM team_game_stats`

	var count int
	err := r.db.Pool.QueryRow(ctx, query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count team game stats: %w", err)
	}

	return count, nil
}
