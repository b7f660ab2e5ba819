// Command standings prints the rolling rankings table for a given week.
// It reads the cached snapshot from Redis when one exists and falls back
// to the database otherwise.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"text/tabwriter"
	"time"

	"cfb_stats/rankings/internal/cache"
	"cfb_stats/rankings/internal/config"
	"cfb_stats/rankings/internal/models"
	"cfb_stats/rankings/internal/repository"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	season := flag.Int("season", 0, "season to display (0 = latest computed week)")
	week := flag.Int("week", 0, "week to display (0 = latest computed week)")
	limit := flag.Int("limit", 25, "number of teams to display (0 = all)")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	ctx := context.Background()
	cfg := config.MustLoad()

	db, err := repository.NewDatabase(ctx, repository.Config{
		Host:     cfg.DatabaseHost,
		Port:     strconv.Itoa(cfg.DatabasePort),
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		Database: cfg.DatabaseName,
		SSLMode:  cfg.DatabaseSSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	rows, snapSeason, snapWeek, err := loadRankings(ctx, cfg, db, *season, *week)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load rankings")
	}
	if len(rows) == 0 {
		fmt.Println("No rolling stats computed yet. Run the worker first.")
		return
	}

	names, err := teamNames(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load team names")
	}

	// Rankings table orders by rating, best first
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].RollingElo > rows[j].RollingElo
	})
	if *limit > 0 && len(rows) > *limit {
		rows = rows[:*limit]
	}

	printTable(rows, names, snapSeason, snapWeek)
}

// loadRankings is cache-first: a populated Redis snapshot short-circuits
// the database query
func loadRankings(ctx context.Context, cfg *config.Config, db *repository.Database, season, week int) ([]*models.RollingTeamStat, int, int, error) {
	redisCache, err := cache.NewRedisCache(cache.Config{
		Host:     cfg.RedisHost,
		Port:     strconv.Itoa(cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err == nil {
		defer redisCache.Close()

		var snap *cache.RankingsSnapshot
		if season > 0 && week > 0 {
			snap, err = redisCache.GetRankingsSnapshot(ctx, season, week)
		} else {
			snap, err = redisCache.GetLatestRankings(ctx)
		}
		if err == nil && snap != nil {
			return snap.Rows, snap.Season, snap.Week, nil
		}
	}

	if season == 0 || week == 0 {
		season, week, err = db.Rolling.LatestWeek(ctx)
		if err != nil {
			return nil, 0, 0, err
		}
	}

	rows, err := db.Rolling.GetBySeasonWeek(ctx, season, week)
	if err != nil {
		return nil, 0, 0, err
	}
	return rows, season, week, nil
}

func teamNames(ctx context.Context, db *repository.Database) (map[int]string, error) {
	teams, err := db.Teams.List(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[int]string, len(teams))
	for _, t := range teams {
		names[t.TeamID] = t.TeamName
	}
	return names, nil
}

func printTable(rows []*models.RollingTeamStat, names map[int]string, season, week int) {
	fmt.Printf("Rolling rankings through season %d, week %d\n\n", season, week)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tTEAM\tELO\tPTS/G\tPTS ALLOW/G\tTOT YDS/G\tYDS RANK\tDEF RANK")

	for i, row := range rows {
		name := names[row.TeamID]
		if name == "" {
			name = fmt.Sprintf("team %d", row.TeamID)
		}

		fmt.Fprintf(w, "%d\t%s\t%.1f\t%.1f\t%.1f\t%.1f\t%d\t%d\n",
			i+1, name, row.RollingElo,
			row.RollingPointsScored, row.RollingPointsAllowed, row.RollingTotalYardsFor,
			row.TotalYardsForRank, row.PointsAllowedRank,
		)
	}

	w.Flush()
}
