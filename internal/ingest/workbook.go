// Package ingest loads the historical box-score workbook into the raw
// tables. One spreadsheet row describes one game from both perspectives;
// it becomes one games row plus two team_game_stats rows.
package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"cfb_stats/rankings/internal/metrics"
	"cfb_stats/rankings/internal/models"
	"cfb_stats/rankings/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// Loader ingests workbook rows into the database
type Loader struct {
	db *repository.Database
}

// NewLoader creates a workbook loader
func NewLoader(db *repository.Database) *Loader {
	return &Loader{db: db}
}

// Result summarizes one load run
type Result struct {
	Loaded  int
	Skipped int
	Teams   int
}

// requiredColumns must be present in the header row
var requiredColumns = []string{"season", "week", "game_type", "home", "away"}

// Load reads the given sheet and upserts teams, games and box scores.
// Malformed rows are skipped with a warning; storage errors abort the run.
func (l *Loader) Load(ctx context.Context, path, sheet string) (*Result, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %q has no data rows", sheet)
	}

	header := headerIndex(rows[0])
	for _, col := range requiredColumns {
		if _, ok := header[col]; !ok {
			return nil, fmt.Errorf("sheet %q is missing required column %q", sheet, col)
		}
	}

	teamIDs := make(map[string]int)
	result := &Result{}

	for i, row := range rows[1:] {
		rec, err := buildRecord(header, row)
		if err != nil {
			log.Warn().Err(err).Int("row", i+2).Msg("Skipping malformed workbook row")
			result.Skipped++
			metrics.RecordIngestedRow("skipped")
			continue
		}

		homeID, err := l.resolveTeam(ctx, rec.Home, teamIDs)
		if err != nil {
			return nil, err
		}
		awayID, err := l.resolveTeam(ctx, rec.Away, teamIDs)
		if err != nil {
			return nil, err
		}

		game := &models.Game{
			Season:     rec.Season,
			Week:       rec.Week,
			GameType:   rec.GameType,
			HomeTeamID: homeID,
			AwayTeamID: awayID,
			ScoreHome:  rec.ScoreHome,
			ScoreAway:  rec.ScoreAway,

			Q1Home: rec.Q1Home, Q2Home: rec.Q2Home, Q3Home: rec.Q3Home, Q4Home: rec.Q4Home, OTHome: rec.OTHome,
			Q1Away: rec.Q1Away, Q2Away: rec.Q2Away, Q3Away: rec.Q3Away, Q4Away: rec.Q4Away, OTAway: rec.OTAway,
		}
		if err := l.db.Games.Upsert(ctx, game); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}

		rec.HomeStats.GameID = game.GameID
		rec.HomeStats.TeamID = homeID
		rec.HomeStats.IsHome = true
		if err := l.db.GameStats.Upsert(ctx, &rec.HomeStats); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}

		rec.AwayStats.GameID = game.GameID
		rec.AwayStats.TeamID = awayID
		rec.AwayStats.IsHome = false
		if err := l.db.GameStats.Upsert(ctx, &rec.AwayStats); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}

		result.Loaded++
		metrics.RecordIngestedRow("loaded")
	}

	result.Teams = len(teamIDs)

	log.Info().
		Int("loaded", result.Loaded).
		Int("skipped", result.Skipped).
		Int("teams", result.Teams).
		Str("sheet", sheet).
		Msg("Workbook ingestion complete")

	return result, nil
}

// resolveTeam maps a team name to its id, creating the team on first sight
func (l *Loader) resolveTeam(ctx context.Context, name string, memo map[string]int) (int, error) {
	if id, ok := memo[name]; ok {
		return id, nil
	}

	team, err := l.db.Teams.GetOrCreateByName(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve team %q: %w", name, err)
	}

	memo[name] = team.TeamID
	return team.TeamID, nil
}

// gameRecord is one parsed workbook row
type gameRecord struct {
	Season   int
	Week     int
	GameType string
	Home     string
	Away     string

	ScoreHome sql.NullInt32
	ScoreAway sql.NullInt32

	Q1Home, Q2Home, Q3Home, Q4Home, OTHome sql.NullInt32
	Q1Away, Q2Away, Q3Away, Q4Away, OTAway sql.NullInt32

	HomeStats models.TeamGameStat
	AwayStats models.TeamGameStat
}

// headerIndex maps lower-cased column names to their position
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return idx
}

// buildRecord parses one data row. Scores stay null when the cell is blank
// or unparsable (an incomplete game); stat counters default to zero, the
// convention the historical workbook already follows for missing cells.
func buildRecord(header map[string]int, row []string) (*gameRecord, error) {
	cell := func(name string) string {
		i, ok := header[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	season, ok := parseInt(cell("season"))
	if !ok {
		return nil, fmt.Errorf("invalid season %q", cell("season"))
	}
	week, ok := parseInt(cell("week"))
	if !ok {
		return nil, fmt.Errorf("invalid week %q", cell("week"))
	}

	home := cell("home")
	away := cell("away")
	if home == "" || away == "" {
		return nil, fmt.Errorf("missing team name (home=%q, away=%q)", home, away)
	}

	gameType := cell("game_type")
	if gameType == "" {
		gameType = models.GameTypeRegular
	}

	rec := &gameRecord{
		Season:   season,
		Week:     week,
		GameType: gameType,
		Home:     home,
		Away:     away,

		ScoreHome: nullableInt(cell("score_home")),
		ScoreAway: nullableInt(cell("score_away")),

		Q1Home: nullableInt(cell("q1_home")),
		Q2Home: nullableInt(cell("q2_home")),
		Q3Home: nullableInt(cell("q3_home")),
		Q4Home: nullableInt(cell("q4_home")),
		OTHome: nullableInt(cell("ot_home")),
		Q1Away: nullableInt(cell("q1_away")),
		Q2Away: nullableInt(cell("q2_away")),
		Q3Away: nullableInt(cell("q3_away")),
		Q4Away: nullableInt(cell("q4_away")),
		OTAway: nullableInt(cell("ot_away")),

		HomeStats: buildStats(cell, "home"),
		AwayStats: buildStats(cell, "away"),
	}

	return rec, nil
}

// buildStats parses one side's box-score counters
func buildStats(cell func(string) string, side string) models.TeamGameStat {
	col := func(name string) string {
		return cell(name + "_" + side)
	}
	return models.TeamGameStat{
		FirstDowns:     safeInt(col("first_downs")),
		ThirdDownComp:  safeInt(col("third_down_comp")),
		ThirdDownAtt:   safeInt(col("third_down_att")),
		FourthDownComp: safeInt(col("fourth_down_comp")),
		FourthDownAtt:  safeInt(col("fourth_down_att")),
		PassComp:       safeInt(col("pass_comp")),
		PassAtt:        safeInt(col("pass_att")),
		PassYards:      safeInt(col("pass_yards")),
		RushAtt:        safeInt(col("rush_att")),
		RushYards:      safeInt(col("rush_yards")),
		TotalYards:     safeInt(col("total_yards")),
		Fumbles:        safeInt(col("fum")),
		Interceptions:  safeInt(col("int")),
		PenNum:         safeInt(col("pen_num")),
		PenYards:       safeInt(col("pen_yards")),
		PossessionTime: safeFloat(cell("possession_" + side)),
	}
}

// parseInt parses an integer cell, tolerating the float formatting Excel
// applies to numeric columns ("12" and "12.0" both parse to 12).
func parseInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f), true
	}
	return 0, false
}

// nullableInt parses a score cell; blank or unparsable means null
func nullableInt(s string) sql.NullInt32 {
	if n, ok := parseInt(s); ok {
		return sql.NullInt32{Int32: int32(n), Valid: true}
	}
	return sql.NullInt32{}
}

// safeInt parses a counter cell, defaulting to zero
func safeInt(s string) int {
	n, _ := parseInt(s)
	return n
}

// safeFloat parses a float cell, defaulting to zero
func safeFloat(s string) float64 {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
