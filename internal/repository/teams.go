package repository

import (
	"context"
	"fmt"

	"cfb_stats/rankings/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// TeamRepository handles team database operations
type TeamRepository struct {
	db *Database
}

// GetOrCreateByName returns the team with the given name, creating it if it
// does not exist yet. Ingestion uses this to resolve spreadsheet team names
// to stable ids; repeated calls with the same name return the same team.
func (r *TeamRepository) GetOrCreateByName(ctx context.Context, name string) (*models.Team, error) {
	// The no-op update makes the insert return the existing row on conflict.
	query := `
		INSERT INTO teams (team_name)
		VALUES ($1)
		ON CONFLICT (team_name) DO UPDATE SET team_name = EXCLUDED.team_name
		RETURNING team_id, team_name, created_at, updated_at
	`

	var team models.Team
	err := r.db.Pool.QueryRow(ctx, query, name).Scan(
		&team.TeamID, &team.TeamName, &team.CreatedAt, &team.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create team: %w", err)
	}

	log.Debug().
		Int("team_id", team.TeamID).
		Str("name", team.TeamName).
		Msg("Team resolved")

	return &team, nil
}

// GetByID retrieves a team by its database ID
func (r *TeamRepository) GetByID(ctx context.Context, teamID int) (*models.Team, error) {
	query := `
		SELECT team_id, team_name, created_at, updated_at
		FROM teams
		WHERE team_id = $1
	`

	var team models.Team
	err := r.db.Pool.QueryRow(ctx, query, teamID).Scan(
		&team.TeamID, &team.TeamName, &team.CreatedAt, &team.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("team not found: team_id=%d", teamID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	return &team, nil
}

// GetByName retrieves a team by its unique name
func (r *TeamRepository) GetByName(ctx context.Context, name string) (*models.Team, error) {
	query := `
		SELECT team_id, team_name, created_at, updated_at
		FROM teams
		WHERE team_name = $1
	`

	var team models.Team
	err := r.db.Pool.QueryRow(ctx, query, name).Scan(
		&team.TeamID, &team.TeamName, &team.CreatedAt, &team.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("team not found: name=%s", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	return &team, nil
}

// List retrieves all teams ordered by name
func (r *TeamRepository) List(ctx context.Context) ([]*models.Team, error) {
	query := `
		SELECT team_id, team_name, created_at, updated_at
		FROM teams
		ORDER BY team_name
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	var teams []*models.Team
	for rows.Next() {
		var team models.Team
		if err := rows.Scan(&team.TeamID, &team.TeamName, &team.CreatedAt, &team.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, &team)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating teams: %w", err)
	}

	return teams, nil
}

// ListIDs retrieves all team ids in ascending order. The rating updater uses
// this to seed its per-season rating map.
func (r *TeamRepository) ListIDs(ctx context.Context) ([]int, error) {
	query := `SELECT team_id FROM teams ORDER BY team_id`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list team ids: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan team id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team ids: %w", err)
	}

	return ids, nil
}

// Count returns the total number of teams
func (r *TeamRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM teams`

	var count int
	err := r.db.Pool.QueryRow(ctx, query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count teams: %w", err)
	}

	return count, nil
}
