package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the rolling stats and rating engine

var (
	// Engine run metrics
	EngineRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cfb_engine_runs_total",
			Help: "Total number of engine stage runs",
		},
		[]string{"stage", "status"},
	)

	EngineRunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cfb_engine_run_duration_seconds",
			Help:    "Duration of engine stage runs in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"stage"},
	)

	RollingRowsWritten = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cfb_rolling_rows_written",
			Help: "Rolling stat rows written by the last aggregator run",
		},
	)

	WeeksSkipped = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cfb_weeks_skipped",
			Help: "Weeks with an empty ranking cohort in the last aggregator run",
		},
	)

	TeamWeeksSkipped = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cfb_team_weeks_skipped",
			Help: "Team-weeks skipped for missing history in the last aggregator run",
		},
	)

	RatingSnapshots = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cfb_rating_snapshots_written",
			Help: "Rating snapshots written by the last updater run",
		},
	)

	NeutralModifiers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cfb_rating_neutral_modifiers",
			Help: "Games rated with a neutral modifier because a rank row was missing",
		},
	)

	// Table size gauges, refreshed periodically by the scheduler
	TeamsStored = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cfb_teams_total",
			Help: "Total number of teams in database",
		},
	)

	GamesStored = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cfb_games_total",
			Help: "Total number of games in database",
		},
	)

	GameStatsStored = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cfb_team_game_stats_total",
			Help: "Total number of box-score rows in database",
		},
	)

	RollingStatsStored = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cfb_rolling_team_stats_total",
			Help: "Total number of rolling stat rows in database",
		},
	)

	// Ingestion metrics
	RowsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cfb_workbook_rows_ingested_total",
			Help: "Workbook rows processed by the loader",
		},
		[]string{"status"},
	)

	// Error metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cfb_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)

	// Database connection pool metrics
	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cfb_db_connections_active",
			Help: "Number of active database connections",
		},
	)

	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cfb_db_connections_idle",
			Help: "Number of idle database connections",
		},
	)

	// System metrics
	SystemUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cfb_system_uptime_seconds",
			Help: "System uptime in seconds",
		},
	)

	LastSuccessfulRun = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cfb_last_successful_run_timestamp",
			Help: "Timestamp of last successful full recompute",
		},
	)
)

// RecordEngineRun records one engine stage run
func RecordEngineRun(stage, status string, duration float64) {
	EngineRunsTotal.WithLabelValues(stage, status).Inc()
	EngineRunDuration.WithLabelValues(stage).Observe(duration)

	if status == "success" {
		LastSuccessfulRun.SetToCurrentTime()
	}
}

// RecordAggregateStats publishes the last aggregator run's summary
func RecordAggregateStats(rows, weeksSkipped, teamWeeksSkipped int) {
	RollingRowsWritten.Set(float64(rows))
	WeeksSkipped.Set(float64(weeksSkipped))
	TeamWeeksSkipped.Set(float64(teamWeeksSkipped))
}

// RecordRatingStats publishes the last rating updater run's summary
func RecordRatingStats(snapshots, neutralModifiers int) {
	RatingSnapshots.Set(float64(snapshots))
	NeutralModifiers.Set(float64(neutralModifiers))
}

// RecordError records an error
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

// RecordIngestedRow records one workbook row outcome
func RecordIngestedRow(status string) {
	RowsIngested.WithLabelValues(status).Inc()
}

// UpdateDBConnectionStats updates the connection pool gauges
func UpdateDBConnectionStats(active, idle int32) {
	DBConnectionsActive.Set(float64(active))
	DBConnectionsIdle.Set(float64(idle))
}

// UpdateTableStats updates the table-size gauges
func UpdateTableStats(teams, games, gameStats, rollingStats int) {
	TeamsStored.Set(float64(teams))
	GamesStored.Set(float64(games))
	GameStatsStored.Set(float64(gameStats))
	RollingStatsStored.Set(float64(rollingStats))
}
