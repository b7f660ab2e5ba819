package engine

import (
	"context"
	"database/sql"

	"cfb_stats/rankings/internal/models"
)

// In-memory sources and store used by the engine tests.

type fakeGames struct {
	games []*models.Game
}

func (f *fakeGames) ListRegularSeason(ctx context.Context) ([]*models.Game, error) {
	return f.games, nil
}

type fakeStats struct {
	stats []*models.TeamGameStat
}

func (f *fakeStats) ListAll(ctx context.Context) ([]*models.TeamGameStat, error) {
	return f.stats, nil
}

type fakeTeams struct {
	ids []int
}

func (f *fakeTeams) ListIDs(ctx context.Context) ([]int, error) {
	return f.ids, nil
}

// fakeStore implements both RollingStore and RatingStore over an in-memory
// table, mimicking the repository's last-write-wins rating updates.
type fakeStore struct {
	clears    int
	weeks     [][]*models.RollingTeamStat
	snapshots []models.RatingSnapshot
}

func (f *fakeStore) Clear(ctx context.Context) error {
	f.clears++
	f.weeks = nil
	f.snapshots = nil
	return nil
}

func (f *fakeStore) InsertWeek(ctx context.Context, stats []*models.RollingTeamStat) error {
	week := make([]*models.RollingTeamStat, len(stats))
	copy(week, stats)
	f.weeks = append(f.weeks, week)
	return nil
}

func (f *fakeStore) ListAll(ctx context.Context) ([]*models.RollingTeamStat, error) {
	return f.rows(), nil
}

func (f *fakeStore) UpdateRatings(ctx context.Context, snapshots []models.RatingSnapshot) error {
	f.snapshots = append([]models.RatingSnapshot(nil), snapshots...)
	for _, snap := range snapshots {
		if row := f.find(snap.TeamID, snap.Season, snap.Week); row != nil {
			row.RollingElo = snap.Rating
		}
	}
	return nil
}

func (f *fakeStore) rows() []*models.RollingTeamStat {
	var all []*models.RollingTeamStat
	for _, week := range f.weeks {
		all = append(all, week...)
	}
	return all
}

func (f *fakeStore) find(teamID, season, week int) *models.RollingTeamStat {
	for _, row := range f.rows() {
		if row.TeamID == teamID && row.Season == season && row.Week == week {
			return row
		}
	}
	return nil
}

// game builds a completed regular-season game.
func game(id, season, week, home, away, scoreHome, scoreAway int) *models.Game {
	return &models.Game{
		GameID:     id,
		Season:     season,
		Week:       week,
		GameType:   models.GameTypeRegular,
		HomeTeamID: home,
		AwayTeamID: away,
		ScoreHome:  sql.NullInt32{Int32: int32(scoreHome), Valid: true},
		ScoreAway:  sql.NullInt32{Int32: int32(scoreAway), Valid: true},
	}
}

// incompleteGame builds a scheduled game with no scores yet.
func incompleteGame(id, season, week, home, away int) *models.Game {
	return &models.Game{
		GameID:     id,
		Season:     season,
		Week:       week,
		GameType:   models.GameTypeRegular,
		HomeTeamID: home,
		AwayTeamID: away,
	}
}

// boxScore builds one team's yardage line for a game.
func boxScore(gameID, teamID, passYards, rushYards, totalYards int) *models.TeamGameStat {
	return &models.TeamGameStat{
		GameID:     gameID,
		TeamID:     teamID,
		PassYards:  passYards,
		RushYards:  rushYards,
		TotalYards: totalYards,
	}
}
