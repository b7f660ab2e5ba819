package engine

import (
	"context"
	"fmt"
	"math"

	"cfb_stats/rankings/internal/models"

	"github.com/rs/zerolog/log"
)

// RatingParams are the rating updater's construction-time parameters.
type RatingParams struct {
	// BaseK is the maximum rating swing for a single game before decay and
	// rank adjustment.
	BaseK float64
	// DecayFactor shrinks volatility across a season: the effective K at
	// week w is BaseK * DecayFactor^(w-1). Must be in (0, 1].
	DecayFactor float64
	// Seed is the baseline every team's rating resets to at the start of
	// each season.
	Seed float64
}

// DefaultRatingParams mirror the parameters the production runs use.
func DefaultRatingParams() RatingParams {
	return RatingParams{BaseK: 25, DecayFactor: 0.97, Seed: models.RatingSeed}
}

// RatingUpdater replays completed regular-season games season by season and
// overwrites the rating column of rolling_team_stats with a decayed,
// rank-adjusted Elo. It must run strictly after the Aggregator: the rank
// modifier reads the rank columns the aggregator produced. The rank columns
// themselves (including elo_rank, computed against the seed placeholder) are
// left untouched.
type RatingUpdater struct {
	games  GameSource
	teams  TeamSource
	store  RatingStore
	params RatingParams
}

// NewRatingUpdater creates a rating updater.
func NewRatingUpdater(games GameSource, teams TeamSource, store RatingStore, params RatingParams) *RatingUpdater {
	return &RatingUpdater{games: games, teams: teams, store: store, params: params}
}

// RatingResult summarizes one rating updater run.
type RatingResult struct {
	Seasons          int
	GamesProcessed   int
	GamesSkipped     int // incomplete games
	NeutralModifiers int // games where a rank lookup was missing
	Snapshots        int
}

// rankKey addresses one week's rank row for one team.
type rankKey struct {
	Season int
	Week   int
	TeamID int
}

// Run replays the full game history and writes the rating snapshots back.
func (u *RatingUpdater) Run(ctx context.Context) (*RatingResult, error) {
	games, err := u.games.ListRegularSeason(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load game history: %w", err)
	}

	rankRows, err := u.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load rank rows: %w", err)
	}
	ranks := make(map[rankKey]*models.RollingTeamStat, len(rankRows))
	for _, row := range rankRows {
		ranks[rankKey{Season: row.Season, Week: row.Week, TeamID: row.TeamID}] = row
	}

	teamIDs, err := u.teams.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load team ids: %w", err)
	}

	result := &RatingResult{}
	var snapshots []models.RatingSnapshot

	for _, season := range seasonGroups(games) {
		// Ratings do not carry over: every team starts the season at the
		// seed, whatever it finished the previous season with.
		ratings := make(map[int]float64, len(teamIDs))
		for _, id := range teamIDs {
			ratings[id] = u.params.Seed
		}
		result.Seasons++

		for _, g := range season.games {
			if !g.IsComplete() {
				result.GamesSkipped++
				continue
			}

			snapshots = u.applyGame(g, ratings, ranks, result, snapshots)
		}

		log.Debug().
			Int("season", season.season).
			Msg("Season ratings replay complete")
	}

	result.Snapshots = len(snapshots)

	if err := u.store.UpdateRatings(ctx, snapshots); err != nil {
		return nil, fmt.Errorf("failed to write ratings: %w", err)
	}

	log.Info().
		Int("seasons", result.Seasons).
		Int("games", result.GamesProcessed).
		Int("games_skipped", result.GamesSkipped).
		Int("neutral_modifiers", result.NeutralModifiers).
		Int("snapshots", result.Snapshots).
		Msg("Rating update complete")

	return result, nil
}

// applyGame updates both teams' in-memory ratings for one game and appends
// the resulting snapshots.
func (u *RatingUpdater) applyGame(
	g *models.Game,
	ratings map[int]float64,
	ranks map[rankKey]*models.RollingTeamStat,
	result *RatingResult,
	snapshots []models.RatingSnapshot,
) []models.RatingSnapshot {
	home, away := g.HomeTeamID, g.AwayTeamID

	ratingHome := ratingFor(ratings, home, u.params.Seed)
	ratingAway := ratingFor(ratings, away, u.params.Seed)

	expectedHome := expectedScore(ratingHome, ratingAway)

	actualHome := 0.0
	if int(g.ScoreHome.Int32) > int(g.ScoreAway.Int32) {
		actualHome = 1.0
	}

	modifier, ok := rankModifier(ranks, g)
	if !ok {
		// Missing rank rows are routine early in a season; the modifier
		// degrades to neutral rather than aborting the replay.
		result.NeutralModifiers++
	}

	weekDecay := math.Pow(u.params.DecayFactor, float64(g.Week-1))
	k := u.params.BaseK * weekDecay * (1 + modifier)

	deltaHome := k * (actualHome - expectedHome)

	ratings[home] = ratingHome + deltaHome
	ratings[away] = ratingAway - deltaHome
	result.GamesProcessed++

	return append(snapshots,
		models.RatingSnapshot{TeamID: home, Season: g.Season, Week: g.Week, Rating: ratings[home]},
		models.RatingSnapshot{TeamID: away, Season: g.Season, Week: g.Week, Rating: ratings[away]},
	)
}

// expectedScore is the standard logistic Elo expectation for the first team.
func expectedScore(rating, opponent float64) float64 {
	return 1 / (1 + math.Pow(10, (opponent-rating)/400))
}

// rankModifier computes the K adjustment from the home offense's
// points-scored rank and the away defense's points-allowed rank for the
// game's exact week. Lower rank numbers are better, so a strong offense
// meeting a weak defense yields a positive modifier. Returns (0, false) if
// either rank row is absent.
func rankModifier(ranks map[rankKey]*models.RollingTeamStat, g *models.Game) (float64, bool) {
	homeRow := ranks[rankKey{Season: g.Season, Week: g.Week, TeamID: g.HomeTeamID}]
	awayRow := ranks[rankKey{Season: g.Season, Week: g.Week, TeamID: g.AwayTeamID}]
	if homeRow == nil || awayRow == nil {
		return 0, false
	}
	return float64(awayRow.PointsAllowedRank-homeRow.PointsScoredRank) / 25, true
}

// ratingFor reads a team's current rating, lazily seeding teams the roster
// query did not know about.
func ratingFor(ratings map[int]float64, teamID int, seed float64) float64 {
	if r, ok := ratings[teamID]; ok {
		return r
	}
	ratings[teamID] = seed
	return seed
}

// seasonGroup is one season's games in replay order.
type seasonGroup struct {
	season int
	games  []*models.Game
}

// seasonGroups splits the ordered game list into consecutive seasons.
func seasonGroups(games []*models.Game) []seasonGroup {
	var seasons []seasonGroup
	for _, g := range games {
		n := len(seasons)
		if n == 0 || seasons[n-1].season != g.Season {
			seasons = append(seasons, seasonGroup{season: g.Season})
			n++
		}
		seasons[n-1].games = append(seasons[n-1].games, g)
	}
	return seasons
}
