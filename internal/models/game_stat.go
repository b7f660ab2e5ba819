package models

import (
	"time"
)

// TeamGameStat holds one team's box-score counters for one game.
// Exactly two rows exist per completed game: the home and the away
// perspective. Counters are non-null; ingestion coerces missing workbook
// cells to zero, so the rolling means are plain sums over row counts.
type TeamGameStat struct {
	GameID int  `db:"game_id"`
	TeamID int  `db:"team_id"`
	IsHome bool `db:"is_home"`

	FirstDowns     int `db:"first_downs"`
	ThirdDownComp  int `db:"third_down_comp"`
	ThirdDownAtt   int `db:"third_down_att"`
	FourthDownComp int `db:"fourth_down_comp"`
	FourthDownAtt  int `db:"fourth_down_att"`

	PassComp  int `db:"pass_comp"`
	PassAtt   int `db:"pass_att"`
	PassYards int `db:"pass_yards"`

	RushAtt   int `db:"rush_att"`
	RushYards int `db:"rush_yards"`

	TotalYards int `db:"total_yards"`

	Fumbles       int `db:"fumbles"`
	Interceptions int `db:"interceptions"`

	PenNum   int `db:"pen_num"`
	PenYards int `db:"pen_yards"`

	// Possession time in minutes (fractional)
	PossessionTime float64 `db:"possession_time"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
