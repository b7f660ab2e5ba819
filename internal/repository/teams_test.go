package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeamRepository_GetOrCreateByName(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	team, err := db.Teams.GetOrCreateByName(ctx, "Georgia")
	require.NoError(t, err, "Should create team on first sight")
	assert.Greater(t, team.TeamID, 0)
	assert.Equal(t, "Georgia", team.TeamName)

	// Same name resolves to the same id
	again, err := db.Teams.GetOrCreateByName(ctx, "Georgia")
	require.NoError(t, err)
	assert.Equal(t, team.TeamID, again.TeamID)

	count, err := db.Teams.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestTeamRepository_GetByID(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	created, err := db.Teams.GetOrCreateByName(ctx, "Alabama")
	require.NoError(t, err)

	team, err := db.Teams.GetByID(ctx, created.TeamID)
	require.NoError(t, err)
	assert.Equal(t, "Alabama", team.TeamName)

	_, err = db.Teams.GetByID(ctx, 999999)
	assert.Error(t, err, "Unknown id should return an error")
}

func TestTeamRepository_GetByName(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	_, err := db.Teams.GetOrCreateByName(ctx, "Michigan")
	require.NoError(t, err)

	team, err := db.Teams.GetByName(ctx, "Michigan")
	require.NoError(t, err)
	assert.Equal(t, "Michigan", team.TeamName)

	_, err = db.Teams.GetByName(ctx, "Not A School")
	assert.Error(t, err)
}

func TestTeamRepository_ListAndListIDs(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	for _, name := range []string{"Texas", "Oklahoma", "Baylor"} {
		_, err := db.Teams.GetOrCreateByName(ctx, name)
		require.NoError(t, err)
	}

	teams, err := db.Teams.List(ctx)
	require.NoError(t, err)
	assert.Len(t, teams, 3)

	ids, err := db.Teams.ListIDs(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 3)

	// Ids come back ascending
	for i := 1; i < len(ids); i++ {
		assert.Less(t, ids[i-1], ids[i])
	}
}
