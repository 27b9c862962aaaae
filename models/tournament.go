package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tournament groups matches for standings purposes. Owned by the
// administrative surface; read-only for the wagering core.
type Tournament struct {
	ID        uuid.UUID       `db:"id"`
	Name      string          `db:"name"`
	GameID    uuid.UUID       `db:"game_id"`
	Location  string          `db:"location"`
	PrizePool decimal.Decimal `db:"prize_pool"`
	StartTime *time.Time      `db:"start_time"`
	EndTime   *time.Time      `db:"end_time"`
	Status    string          `db:"status"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}

// Standing is one row of a tournament ranking, derived from completed
// matches only.
type Standing struct {
	TeamID      uuid.UUID `db:"team_id"`
	TeamName    string    `db:"team_name"`
	TeamLogoURL string    `db:"team_logo_url"`
	Wins        int       `db:"wins"`
	Losses      int       `db:"losses"`
	Points      int       `db:"points"`
}
