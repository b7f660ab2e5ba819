package engine

import (
	"sort"

	"cfb_stats/rankings/internal/models"
)

// competitionRanks assigns descending competition ranks: rank 1 is the
// highest value, tied values share the lowest rank number of their group,
// and the next distinct value's rank skips past the tie (min-rank, not
// dense rank).
func competitionRanks(values []float64) []int {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return values[idx[a]] > values[idx[b]]
	})

	ranks := make([]int, len(values))
	for pos, i := range idx {
		if pos > 0 && values[i] == values[idx[pos-1]] {
			ranks[i] = ranks[idx[pos-1]]
		} else {
			ranks[i] = pos + 1
		}
	}
	return ranks
}

// rankedMetric pairs a rolling metric with its rank column.
type rankedMetric struct {
	value func(*models.RollingTeamStat) float64
	set   func(*models.RollingTeamStat, int)
}

// All nine metrics rank descending, the "against"/"allowed" columns
// included. That direction is questionable for defensive stats but it is
// the table's established contract, so downstream consumers rely on it.
var rankedMetrics = []rankedMetric{
	{
		value: func(s *models.RollingTeamStat) float64 { return s.RollingPassYardsFor },
		set:   func(s *models.RollingTeamStat, r int) { s.PassYardsForRank = r },
	},
	{
		value: func(s *models.RollingTeamStat) float64 { return s.RollingRushYardsFor },
		set:   func(s *models.RollingTeamStat, r int) { s.RushYardsForRank = r },
	},
	{
		value: func(s *models.RollingTeamStat) float64 { return s.RollingTotalYardsFor },
		set:   func(s *models.RollingTeamStat, r int) { s.TotalYardsForRank = r },
	},
	{
		value: func(s *models.RollingTeamStat) float64 { return s.RollingPointsScored },
		set:   func(s *models.RollingTeamStat, r int) { s.PointsScoredRank = r },
	},
	{
		value: func(s *models.RollingTeamStat) float64 { return s.RollingPassYardsAgainst },
		set:   func(s *models.RollingTeamStat, r int) { s.PassYardsAgainstRank = r },
	},
	{
		value: func(s *models.RollingTeamStat) float64 { return s.RollingRushYardsAgainst },
		set:   func(s *models.RollingTeamStat, r int) { s.RushYardsAgainstRank = r },
	},
	{
		value: func(s *models.RollingTeamStat) float64 { return s.RollingTotalYardsAgainst },
		set:   func(s *models.RollingTeamStat, r int) { s.TotalYardsAgainstRank = r },
	},
	{
		value: func(s *models.RollingTeamStat) float64 { return s.RollingPointsAllowed },
		set:   func(s *models.RollingTeamStat, r int) { s.PointsAllowedRank = r },
	},
	{
		value: func(s *models.RollingTeamStat) float64 { return s.RollingElo },
		set:   func(s *models.RollingTeamStat, r int) { s.EloRank = r },
	},
}

// assignRanks ranks one week's cohort in place across all nine metrics.
func assignRanks(rows []*models.RollingTeamStat) {
	values := make([]float64, len(rows))
	for _, m := range rankedMetrics {
		for i, row := range rows {
			values[i] = m.value(row)
		}
		for i, rank := range competitionRanks(values) {
			m.set(rows[i], rank)
		}
	}
}
