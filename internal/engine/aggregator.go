package engine

import (
	"context"
	"fmt"
	"sort"

	"cfb_stats/rankings/internal/models"

	"github.com/rs/zerolog/log"
)

// Aggregator rebuilds the rolling_team_stats table from scratch: for every
// (team, season, week) with at least one prior completed regular-season game
// it produces rolling means over the team's entire recorded history and
// per-week peer ranks. The prior-game window deliberately accumulates across
// season boundaries; only the rating resets per season, and that happens in
// the RatingUpdater, not here.
type Aggregator struct {
	games GameSource
	stats StatSource
	store RollingStore
	seed  float64
}

// NewAggregator creates an aggregator writing the given rating seed into
// every row as a placeholder.
func NewAggregator(games GameSource, stats StatSource, store RollingStore, seed float64) *Aggregator {
	return &Aggregator{games: games, stats: stats, store: store, seed: seed}
}

// AggregateResult summarizes one aggregator run.
type AggregateResult struct {
	WeeksProcessed int
	WeeksSkipped   int // weeks with no rankable cohort
	TeamsSkipped   int // team-weeks without prior history or box scores
	RowsWritten    int
}

// statKey indexes box-score rows by their primary key.
type statKey struct {
	GameID int
	TeamID int
}

// accumulator carries one team's running totals over all completed
// regular-season games strictly before the week being built.
type accumulator struct {
	games         int
	pointsScored  int
	pointsAllowed int

	// Own box-score totals; ownGames counts only prior games where the
	// team's stat row exists.
	ownGames      int
	passYardsFor  int
	rushYardsFor  int
	totalYardsFor int

	// Opponent box-score totals, same caveat for oppGames.
	oppGames          int
	passYardsAgainst  int
	rushYardsAgainst  int
	totalYardsAgainst int
}

// weekGroup is one (season, week)'s completed games in input order.
type weekGroup struct {
	season int
	week   int
	games  []*models.Game
}

// Run performs a full rebuild. The existing table contents are cleared
// first; each week's rows are committed before the next week is computed.
func (a *Aggregator) Run(ctx context.Context) (*AggregateResult, error) {
	games, err := a.games.ListRegularSeason(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load game history: %w", err)
	}

	stats, err := a.stats.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load box scores: %w", err)
	}

	statIndex := make(map[statKey]*models.TeamGameStat, len(stats))
	for _, s := range stats {
		statIndex[statKey{GameID: s.GameID, TeamID: s.TeamID}] = s
	}

	if err := a.store.Clear(ctx); err != nil {
		return nil, fmt.Errorf("failed to clear rolling stats: %w", err)
	}

	weeks := groupByWeek(games)
	history := make(map[int]*accumulator)
	result := &AggregateResult{}

	for _, wk := range weeks {
		rows := a.buildWeekRows(wk, history, result)

		if len(rows) == 0 {
			log.Warn().
				Int("season", wk.season).
				Int("week", wk.week).
				Msg("No teams with prior history this week, skipping ranking")
			result.WeeksSkipped++
		} else {
			assignRanks(rows)
			if err := a.store.InsertWeek(ctx, rows); err != nil {
				return nil, fmt.Errorf("failed to persist week %d/%d: %w", wk.season, wk.week, err)
			}
			result.WeeksProcessed++
			result.RowsWritten += len(rows)

			log.Debug().
				Int("season", wk.season).
				Int("week", wk.week).
				Int("teams", len(rows)).
				Msg("Weekly rolling stats computed")
		}

		// This week's games become prior history for every later week.
		foldWeek(wk, history, statIndex)
	}

	log.Info().
		Int("weeks", result.WeeksProcessed).
		Int("weeks_skipped", result.WeeksSkipped).
		Int("rows", result.RowsWritten).
		Int("team_weeks_skipped", result.TeamsSkipped).
		Msg("Rolling stats rebuild complete")

	return result, nil
}

// buildWeekRows computes the rolling-mean rows for every team playing in the
// given week. Teams without prior history, or whose history is missing box
// scores entirely, are skipped without error.
func (a *Aggregator) buildWeekRows(wk weekGroup, history map[int]*accumulator, result *AggregateResult) []*models.RollingTeamStat {
	teamIDs := weekTeamIDs(wk.games)

	rows := make([]*models.RollingTeamStat, 0, len(teamIDs))
	for _, teamID := range teamIDs {
		acc := history[teamID]
		if acc == nil || acc.games == 0 {
			log.Debug().
				Int("team_id", teamID).
				Int("season", wk.season).
				Int("week", wk.week).
				Msg("No prior games, skipping team")
			result.TeamsSkipped++
			continue
		}
		if acc.ownGames == 0 || acc.oppGames == 0 {
			log.Debug().
				Int("team_id", teamID).
				Int("season", wk.season).
				Int("week", wk.week).
				Msg("Missing box scores for prior games, skipping team")
			result.TeamsSkipped++
			continue
		}

		rows = append(rows, &models.RollingTeamStat{
			TeamID: teamID,
			Season: wk.season,
			Week:   wk.week,

			RollingPassYardsFor:  float64(acc.passYardsFor) / float64(acc.ownGames),
			RollingRushYardsFor:  float64(acc.rushYardsFor) / float64(acc.ownGames),
			RollingTotalYardsFor: float64(acc.totalYardsFor) / float64(acc.ownGames),
			RollingPointsScored:  float64(acc.pointsScored) / float64(acc.games),

			RollingPassYardsAgainst:  float64(acc.passYardsAgainst) / float64(acc.oppGames),
			RollingRushYardsAgainst:  float64(acc.rushYardsAgainst) / float64(acc.oppGames),
			RollingTotalYardsAgainst: float64(acc.totalYardsAgainst) / float64(acc.oppGames),
			RollingPointsAllowed:     float64(acc.pointsAllowed) / float64(acc.games),

			RollingElo: a.seed,
		})
	}

	return rows
}

// groupByWeek splits the chronologically ordered game list into consecutive
// (season, week) groups, keeping only completed games.
func groupByWeek(games []*models.Game) []weekGroup {
	var weeks []weekGroup
	for _, g := range games {
		if !g.IsComplete() {
			continue
		}
		n := len(weeks)
		if n == 0 || weeks[n-1].season != g.Season || weeks[n-1].week != g.Week {
			weeks = append(weeks, weekGroup{season: g.Season, week: g.Week})
			n++
		}
		weeks[n-1].games = append(weeks[n-1].games, g)
	}
	return weeks
}

// weekTeamIDs returns the distinct teams playing in the week, ascending.
// The stable order keeps rebuilds byte-identical.
func weekTeamIDs(games []*models.Game) []int {
	seen := make(map[int]struct{}, 2*len(games))
	ids := make([]int, 0, 2*len(games))
	for _, g := range games {
		for _, id := range []int{g.HomeTeamID, g.AwayTeamID} {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}
	sort.Ints(ids)
	return ids
}

// foldWeek adds one week's completed games into the running accumulators.
func foldWeek(wk weekGroup, history map[int]*accumulator, statIndex map[statKey]*models.TeamGameStat) {
	for _, g := range wk.games {
		for _, teamID := range []int{g.HomeTeamID, g.AwayTeamID} {
			acc := history[teamID]
			if acc == nil {
				acc = &accumulator{}
				history[teamID] = acc
			}

			acc.games++
			acc.pointsScored += g.PointsFor(teamID)
			acc.pointsAllowed += g.PointsAgainst(teamID)

			if own := statIndex[statKey{GameID: g.GameID, TeamID: teamID}]; own != nil {
				acc.ownGames++
				acc.passYardsFor += own.PassYards
				acc.rushYardsFor += own.RushYards
				acc.totalYardsFor += own.TotalYards
			}
			if opp := statIndex[statKey{GameID: g.GameID, TeamID: g.OpponentOf(teamID)}]; opp != nil {
				acc.oppGames++
				acc.passYardsAgainst += opp.PassYards
				acc.rushYardsAgainst += opp.RushYards
				acc.totalYardsAgainst += opp.TotalYards
			}
		}
	}
}
