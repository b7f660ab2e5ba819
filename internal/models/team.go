package models

import (
	"time"
)

// Team represents a college football team.
// Teams are created once per unique name seen during ingestion and are never
// renamed or deleted afterwards.
type Team struct {
	TeamID    int       `db:"team_id"`
	TeamName  string    `db:"team_name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
