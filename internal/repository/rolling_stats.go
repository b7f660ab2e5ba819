package repository

import (
	"context"
	"fmt"

	"cfb_stats/rankings/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// RollingStatRepository handles rolling_team_stats database operations.
// The aggregator clears and rebuilds the table week by week; the rating
// updater then overwrites the rolling_elo column for the rows it touches.
type RollingStatRepository struct {
	db *Database
}

const rollingStatColumns = `
	team_id, season, week,
	rolling_pass_yards_for, rolling_rush_yards_for, rolling_total_yards_for, rolling_points_scored,
	rolling_pass_yards_against, rolling_rush_yards_against, rolling_total_yards_against, rolling_points_allowed,
	rolling_elo,
	pass_yards_for_rank, rush_yards_for_rank, total_yards_for_rank, points_scored_rank,
	pass_yards_against_rank, rush_yards_against_rank, total_yards_against_rank, points_allowed_rank,
	elo_rank`

// Clear removes every rolling stat row ahead of a full rebuild
func (r *RollingStatRepository) Clear(ctx context.Context) error {
	if _, err := r.db.Pool.Exec(ctx, `DELETE FROM rolling_team_stats`); err != nil {
		return fmt.Errorf("failed to clear rolling team stats: %w", err)
	}

	log.Info().Msg("Rolling team stats cleared")
	return nil
}

// InsertWeek inserts one week's cohort of rows in a single transaction.
// A week's batch either commits whole or not at all.
func (r *RollingStatRepository) InsertWeek(ctx context.Context, stats []*models.RollingTeamStat) error {
	if len(stats) == 0 {
		return nil
	}

	query := `
		INSERT INTO rolling_team_stats (` + rollingStatColumns + `
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	`

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, s := range stats {
		batch.Queue(query,
			s.TeamID, s.Season, s.Week,
			s.RollingPassYardsFor, s.RollingRushYardsFor, s.RollingTotalYardsFor, s.RollingPointsScored,
			s.RollingPassYardsAgainst, s.RollingRushYardsAgainst, s.RollingTotalYardsAgainst, s.RollingPointsAllowed,
			s.RollingElo,
			s.PassYardsForRank, s.RushYardsForRank, s.TotalYardsForRank, s.PointsScoredRank,
			s.PassYardsAgainstRank, s.RushYardsAgainstRank, s.TotalYardsAgainstRank, s.PointsAllowedRank,
			s.EloRank,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for range stats {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("failed to insert rolling stat row: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close insert batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit week insert: %w", err)
	}

	log.Debug().
		Int("season", stats[0].Season).
		Int("week", stats[0].Week).
		Int("rows", len(stats)).
		Msg("Weekly rolling stats inserted")

	return nil
}

// scanRollingStat scans one full rolling_team_stats row
func scanRollingStat(row pgx.Row) (*models.RollingTeamStat, error) {
	var s models.RollingTeamStat
	err := row.Scan(
		&s.TeamID, &s.Season, &s.Week,
		&s.RollingPassYardsFor, &s.RollingRushYardsFor, &s.RollingTotalYardsFor, &s.RollingPointsScored,
		&s.RollingPassYardsAgainst, &s.RollingRushYardsAgainst, &s.RollingTotalYardsAgainst, &s.RollingPointsAllowed,
		&s.RollingElo,
		&s.PassYardsForRank, &s.RushYardsForRank, &s.TotalYardsForRank, &s.PointsScoredRank,
		&s.PassYardsAgainstRank, &s.RushYardsAgainstRank, &s.TotalYardsAgainstRank, &s.PointsAllowedRank,
		&s.EloRank,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListAll retrieves every rolling stat row ordered by (season, week, team_id)
func (r *RollingStatRepository) ListAll(ctx context.Context) ([]*models.RollingTeamStat, error) {
	query := `
		SELECT ` + rollingStatColumns + `, created_at, updated_at
		FROM rolling_team_stats
		ORDER BY season, week, team_id
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list rolling team stats: %w", err)
	}
	defer rows.Close()

	var stats []*models.RollingTeamStat
	for rows.Next() {
		s, err := scanRollingStat(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rolling stat: %w", err)
		}
		stats = append(stats, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rolling stats: %w", err)
	}

	return stats, nil
}

// GetBySeasonWeek retrieves one week's cohort ordered by team_id
func (r *RollingStatRepository) GetBySeasonWeek(ctx context.Context, season, week int) ([]*models.RollingTeamStat, error) {
	query := `
		SELECT ` + rollingStatColumns + `, created_at, updated_at
		FROM rolling_team_stats
		WHERE season = $1 AND week = $2
		ORDER BY team_id
	`

	rows, err := r.db.Pool.Query(ctx, query, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to get rolling stats by week: %w", err)
	}
	defer rows.Close()

	var stats []*models.RollingTeamStat
	for rows.Next() {
		s, err := scanRollingStat(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rolling stat: %w", err)
		}
		stats = append(stats, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rolling stats: %w", err)
	}

	return stats, nil
}

// GetByTeamWeek retrieves a single (team, season, week) row
func (r *RollingStatRepository) GetByTeamWeek(ctx context.Context, teamID, season, week int) (*models.RollingTeamStat, error) {
	query := `
		SELECT ` + rollingStatColumns + `, created_at, updated_at
		FROM rolling_team_stats
		WHERE team_id = $1 AND season = $2 AND week = $3
	`

	s, err := scanRollingStat(r.db.Pool.QueryRow(ctx, query, teamID, season, week))
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("rolling stats not found: team_id=%d, season=%d, week=%d", teamID, season, week)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rolling stats: %w", err)
	}

	return s, nil
}

// LatestWeek returns the most recent (season, week) present in the table
func (r *RollingStatRepository) LatestWeek(ctx context.Context) (season, week int, err error) {
	query := `
		SELECT season, week
		FROM rolling_team_stats
		ORDER BY season DESC, week DESC
		LIMIT 1
	`

	err = r.db.Pool.QueryRow(ctx, query).Scan(&season, &week)
	if err == pgx.ErrNoRows {
		return 0, 0, fmt.Errorf("rolling team stats table is empty")
	}
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get latest week: %w", err)
	}

	return season, week, nil
}

// UpdateRatings overwrites the rolling_elo column for each snapshot's
// (team_id, season, week) row, in snapshot order, in one transaction.
// Duplicate keys within the snapshots resolve to the last write. Snapshots
// for weeks where a team has no row update nothing; that is expected.
func (r *RollingStatRepository) UpdateRatings(ctx context.Context, snapshots []models.RatingSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	query := `
		UPDATE rolling_team_stats
		SET rolling_elo = $1, updated_at = NOW()
		WHERE team_id = $2 AND season = $3 AND week = $4
	`

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, snap := range snapshots {
		batch.Queue(query, snap.Rating, snap.TeamID, snap.Season, snap.Week)
	}

	br := tx.SendBatch(ctx, batch)
	updated := 0
	for range snapshots {
		tag, err := br.Exec()
		if err != nil {
			br.Close()
			return fmt.Errorf("failed to update rating: %w", err)
		}
		updated += int(tag.RowsAffected())
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close rating update batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit rating updates: %w", err)
	}

	log.Info().
		Int("snapshots", len(snapshots)).
		Int("rows_updated", updated).
		Msg("Ratings written back to rolling team stats")

	return nil
}

// Count returns the total number of rolling stat rows
func (r *RollingStatRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM rolling_team_stats`

	var count int
	err := r.db.Pool.QueryRow(ctx, query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count rolling team stats: %w", err)
	}

	return count, nil
}
