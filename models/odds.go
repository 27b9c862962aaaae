package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OddsQuote represents the currently advertised decimal odds for one
// team within one match. Placed bets snapshot the value; editing a
// quote never changes an existing bet's terms.
type OddsQuote struct {
	MatchID   uuid.UUID       `db:"match_id"`
	TeamID    uuid.UUID       `db:"team_id"`
	Odds      decimal.Decimal `db:"odds"`
	UpdatedAt time.Time       `db:"updated_at"`
}
