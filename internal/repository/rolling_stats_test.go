package repository

import (
	"testing"

	"cfb_stats/rankings/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rollingRow(teamID, season, week int, elo float64) *models.RollingTeamStat {
	return &models.RollingTeamStat{
		TeamID: teamID,
		Season: season,
		Week:   week,

		RollingPassYardsFor:      250,
		RollingRushYardsFor:      150,
		RollingTotalYardsFor:     400,
		RollingPointsScored:      28,
		RollingPassYardsAgainst:  200,
		RollingRushYardsAgainst:  120,
		RollingTotalYardsAgainst: 320,
		RollingPointsAllowed:     17,
		RollingElo:               elo,

		PassYardsForRank: 1, RushYardsForRank: 1, TotalYardsForRank: 1,
		PointsScoredRank: 1, PassYardsAgainstRank: 1, RushYardsAgainstRank: 1,
		TotalYardsAgainstRank: 1, PointsAllowedRank: 1, EloRank: 1,
	}
}

func TestRollingStatRepository_InsertWeekAndGet(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	ids := createTestTeams(t, ctx, db, "Georgia", "Alabama")

	week := []*models.RollingTeamStat{
		rollingRow(ids[0], 2024, 3, models.RatingSeed),
		rollingRow(ids[1], 2024, 3, models.RatingSeed),
	}
	require.NoError(t, db.Rolling.InsertWeek(ctx, week))

	rows, err := db.Rolling.GetBySeasonWeek(ctx, 2024, 3)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	row, err := db.Rolling.GetByTeamWeek(ctx, ids[0], 2024, 3)
	require.NoError(t, err)
	assert.Equal(t, 250.0, row.RollingPassYardsFor)
	assert.Equal(t, 28.0, row.RollingPointsScored)
	assert.Equal(t, models.RatingSeed, row.RollingElo)
	assert.Equal(t, 1, row.PointsScoredRank)

	count, err := db.Rolling.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRollingStatRepository_Clear(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	ids := createTestTeams(t, ctx, db, "Texas")
	require.NoError(t, db.Rolling.InsertWeek(ctx, []*models.RollingTeamStat{
		rollingRow(ids[0], 2024, 2, models.RatingSeed),
	}))

	require.NoError(t, db.Rolling.Clear(ctx))

	count, err := db.Rolling.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestRollingStatRepository_ListAllOrdering(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	ids := createTestTeams(t, ctx, db, "Michigan", "Ohio State")

	// Insert weeks out of order across seasons
	require.NoError(t, db.Rolling.InsertWeek(ctx, []*models.RollingTeamStat{
		rollingRow(ids[0], 2024, 2, models.RatingSeed),
		rollingRow(ids[1], 2024, 2, models.RatingSeed),
	}))
	require.NoError(t, db.Rolling.InsertWeek(ctx, []*models.RollingTeamStat{
		rollingRow(ids[0], 2023, 10, models.RatingSeed),
	}))

	rows, err := db.Rolling.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, 2023, rows[0].Season)
	assert.Equal(t, 2024, rows[1].Season)
	assert.Less(t, rows[1].TeamID, rows[2].TeamID)
}

func TestRollingStatRepository_LatestWeek(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	ids := createTestTeams(t, ctx, db, "LSU")

	_, _, err := db.Rolling.LatestWeek(ctx)
	assert.Error(t, err, "Empty table has no latest week")

	require.NoError(t, db.Rolling.InsertWeek(ctx, []*models.RollingTeamStat{
		rollingRow(ids[0], 2023, 12, models.RatingSeed),
	}))
	require.NoError(t, db.Rolling.InsertWeek(ctx, []*models.RollingTeamStat{
		rollingRow(ids[0], 2024, 4, models.RatingSeed),
	}))

	season, week, err := db.Rolling.LatestWeek(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2024, season)
	assert.Equal(t, 4, week)
}

func TestRollingStatRepository_UpdateRatings(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	ids := createTestTeams(t, ctx, db, "Navy", "Army")
	require.NoError(t, db.Rolling.InsertWeek(ctx, []*models.RollingTeamStat{
		rollingRow(ids[0], 2024, 6, models.RatingSeed),
		rollingRow(ids[1], 2024, 6, models.RatingSeed),
	}))

	// Two snapshots for the same row: the later one wins
	snapshots := []models.RatingSnapshot{
		{TeamID: ids[0], Season: 2024, Week: 6, Rating: 1512.5},
		{TeamID: ids[1], Season: 2024, Week: 6, Rating: 1487.5},
		{TeamID: ids[0], Season: 2024, Week: 6, Rating: 1520.0},
	}
	require.NoError(t, db.Rolling.UpdateRatings(ctx, snapshots))

	row, err := db.Rolling.GetByTeamWeek(ctx, ids[0], 2024, 6)
	require.NoError(t, err)
	assert.Equal(t, 1520.0, row.RollingElo)

	// The rating rank column is untouched by rating writes
	assert.Equal(t, 1, row.EloRank)

	other, err := db.Rolling.GetByTeamWeek(ctx, ids[1], 2024, 6)
	require.NoError(t, err)
	assert.Equal(t, 1487.5, other.RollingElo)
}

func TestRollingStatRepository_InsertWeekEmpty(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	// An empty batch is a no-op, not an error
	assert.NoError(t, db.Rolling.InsertWeek(ctx, nil))
}
