package repository

import (
	"context"
	"database/sql"
	"testing"

	"cfb_stats/rankings/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nullScore(v int) sql.NullInt32 {
	return sql.NullInt32{Int32: int32(v), Valid: true}
}

func createTestTeams(t *testing.T, ctx context.Context, db *Database, names ...string) []int {
	ids := make([]int, 0, len(names))
	for _, name := range names {
		team, err := db.Teams.GetOrCreateByName(ctx, name)
		require.NoError(t, err)
		ids = append(ids, team.TeamID)
	}
	return ids
}

func TestGameRepository_Upsert(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	ids := createTestTeams(t, ctx, db, "Georgia", "Alabama")

	game := &models.Game{
		Season:     2024,
		Week:       5,
		GameType:   models.GameTypeRegular,
		HomeTeamID: ids[0],
		AwayTeamID: ids[1],
	}

	require.NoError(t, db.Games.Upsert(ctx, game), "Should insert scheduled game")
	assert.Greater(t, game.GameID, 0)
	firstID := game.GameID

	// Same natural key with scores filled in: the game completes in place
	game.ScoreHome = nullScore(27)
	game.ScoreAway = nullScore(24)
	require.NoError(t, db.Games.Upsert(ctx, game))
	assert.Equal(t, firstID, game.GameID, "Upsert should keep the same game id")

	retrieved, err := db.Games.GetByID(ctx, firstID)
	require.NoError(t, err)
	assert.True(t, retrieved.IsComplete())
	assert.Equal(t, int32(27), retrieved.ScoreHome.Int32)
	assert.Equal(t, int32(24), retrieved.ScoreAway.Int32)
}

func TestGameRepository_ListRegularSeason(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	ids := createTestTeams(t, ctx, db, "Texas", "Oklahoma")

	// Inserted out of order, plus a postseason game that must not appear
	games := []*models.Game{
		{Season: 2024, Week: 3, GameType: models.GameTypeRegular, HomeTeamID: ids[0], AwayTeamID: ids[1], ScoreHome: nullScore(21), ScoreAway: nullScore(14)},
		{Season: 2023, Week: 9, GameType: models.GameTypeRegular, HomeTeamID: ids[1], AwayTeamID: ids[0], ScoreHome: nullScore(35), ScoreAway: nullScore(31)},
		{Season: 2024, Week: 1, GameType: models.GameTypeRegular, HomeTeamID: ids[1], AwayTeamID: ids[0], ScoreHome: nullScore(10), ScoreAway: nullScore(7)},
		{Season: 2024, Week: 15, GameType: models.GameTypePostseason, HomeTeamID: ids[0], AwayTeamID: ids[1], ScoreHome: nullScore(28), ScoreAway: nullScore(3)},
	}
	for _, g := range games {
		require.NoError(t, db.Games.Upsert(ctx, g))
	}

	listed, err := db.Games.ListRegularSeason(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 3, "Postseason games are excluded")

	// Chronological: season, then week
	assert.Equal(t, 2023, listed[0].Season)
	assert.Equal(t, 2024, listed[1].Season)
	assert.Equal(t, 1, listed[1].Week)
	assert.Equal(t, 3, listed[2].Week)
}

func TestGameStatRepository_Upsert(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	ids := createTestTeams(t, ctx, db, "LSU", "Auburn")

	game := &models.Game{
		Season: 2024, Week: 2, GameType: models.GameTypeRegular,
		HomeTeamID: ids[0], AwayTeamID: ids[1],
		ScoreHome: nullScore(17), ScoreAway: nullScore(13),
	}
	require.NoError(t, db.Games.Upsert(ctx, game))

	stat := &models.TeamGameStat{
		GameID: game.GameID, TeamID: ids[0], IsHome: true,
		PassYards: 240, RushYards: 110, TotalYards: 350,
		PossessionTime: 32.5,
	}
	require.NoError(t, db.GameStats.Upsert(ctx, stat))

	// Re-upsert with corrected yardage
	stat.TotalYards = 355
	require.NoError(t, db.GameStats.Upsert(ctx, stat))

	retrieved, err := db.GameStats.GetByGameAndTeam(ctx, game.GameID, ids[0])
	require.NoError(t, err)
	assert.Equal(t, 355, retrieved.TotalYards)
	assert.Equal(t, 240, retrieved.PassYards)
	assert.Equal(t, 32.5, retrieved.PossessionTime)
	assert.True(t, retrieved.IsHome)

	count, err := db.GameStats.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
