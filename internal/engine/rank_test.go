package engine

import (
	"testing"

	"cfb_stats/rankings/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCompetitionRanks_Descending(t *testing.T) {
	values := []float64{300, 450, 120, 410}

	ranks := competitionRanks(values)

	assert.Equal(t, []int{3, 1, 4, 2}, ranks)
}

func TestCompetitionRanks_TiesShareMinRank(t *testing.T) {
	// Two teams tied for first: both rank 1, next team ranks 3 (not 2)
	values := []float64{28.5, 28.5, 21.0, 14.0}

	ranks := competitionRanks(values)

	assert.Equal(t, []int{1, 1, 3, 4}, ranks)
}

func TestCompetitionRanks_AllTied(t *testing.T) {
	values := []float64{1500, 1500, 1500}

	ranks := competitionRanks(values)

	assert.Equal(t, []int{1, 1, 1}, ranks)
}

func TestCompetitionRanks_Empty(t *testing.T) {
	assert.Empty(t, competitionRanks(nil))
}

func TestAssignRanks_CoversAllMetrics(t *testing.T) {
	rows := []*models.RollingTeamStat{
		{
			TeamID:                   1,
			RollingPassYardsFor:      250,
			RollingRushYardsFor:      180,
			RollingTotalYardsFor:     430,
			RollingPointsScored:      31,
			RollingPassYardsAgainst:  200,
			RollingRushYardsAgainst:  120,
			RollingTotalYardsAgainst: 320,
			RollingPointsAllowed:     17,
			RollingElo:               1500,
		},
		{
			TeamID:                   2,
			RollingPassYardsFor:      310,
			RollingRushYardsFor:      90,
			RollingTotalYardsFor:     400,
			RollingPointsScored:      24,
			RollingPassYardsAgainst:  260,
			RollingRushYardsAgainst:  150,
			RollingTotalYardsAgainst: 410,
			RollingPointsAllowed:     28,
			RollingElo:               1500,
		},
	}

	assignRanks(rows)

	// Offensive metrics rank descending
	assert.Equal(t, 2, rows[0].PassYardsForRank)
	assert.Equal(t, 1, rows[1].PassYardsForRank)
	assert.Equal(t, 1, rows[0].RushYardsForRank)
	assert.Equal(t, 1, rows[0].TotalYardsForRank)
	assert.Equal(t, 1, rows[0].PointsScoredRank)

	// "Against" metrics rank descending too: giving up more yards or points
	// yields a better (lower) rank number
	assert.Equal(t, 2, rows[0].PassYardsAgainstRank)
	assert.Equal(t, 1, rows[1].PassYardsAgainstRank)
	assert.Equal(t, 2, rows[0].RushYardsAgainstRank)
	assert.Equal(t, 2, rows[0].TotalYardsAgainstRank)
	assert.Equal(t, 2, rows[0].PointsAllowedRank)
	assert.Equal(t, 1, rows[1].PointsAllowedRank)

	// Both carry the seed rating, so the rating rank is a shared tie
	assert.Equal(t, 1, rows[0].EloRank)
	assert.Equal(t, 1, rows[1].EloRank)
}
