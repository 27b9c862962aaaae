package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account represents a user's wagering wallet
type Account struct {
	ID           uuid.UUID       `db:"id"`
	Username     string          `db:"username"`
	Balance      decimal.Decimal `db:"balance"`
	TotalWagered decimal.Decimal `db:"total_wagered"`
	TotalWon     decimal.Decimal `db:"total_won"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

// CanCover reports whether the account balance covers the given amount
func (a *Account) CanCover(amount decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(amount)
}
