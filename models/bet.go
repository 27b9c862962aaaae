package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BetStatus represents the settlement state of a bet
type BetStatus string

const (
	BetStatusPending BetStatus = "pending"
	BetStatusSettled BetStatus = "settled"
)

// BetResult represents the outcome assigned to a settled bet
type BetResult string

const (
	BetResultWon  BetResult = "won"
	BetResultLost BetResult = "lost"
	BetResultVoid BetResult = "void"
)

// Bet represents a stake placed on a team at frozen odds
type Bet struct {
	ID              uuid.UUID       `db:"id"`
	AccountID       uuid.UUID       `db:"account_id"`
	MatchID         uuid.UUID       `db:"match_id"`
	TeamID          uuid.UUID       `db:"team_id"`
	Stake           decimal.Decimal `db:"stake"`
	Odds            decimal.Decimal `db:"odds"`
	PotentialPayout decimal.Decimal `db:"potential_payout"`
	Status          BetStatus       `db:"status"`
	Result          *BetResult      `db:"result"`
	CreatedAt       time.Time       `db:"created_at"`
	SettledAt       *time.Time      `db:"settled_at"`
}

// IsPending checks whether the bet still awaits settlement
func (b *Bet) IsPending() bool {
	return b.Status == BetStatusPending
}

// BetReceipt represents the outcome of a successful placement (returned to the caller)
type BetReceipt struct {
	BetID           uuid.UUID
	Odds            decimal.Decimal
	PotentialPayout decimal.Decimal
	NewBalance      decimal.Decimal
}

// SettlementReport summarizes one settlement pass over a match
type SettlementReport struct {
	MatchID      uuid.UUID
	WinnerTeamID *uuid.UUID
	SettledBets  int
	WonBets      int
	TotalPaidOut decimal.Decimal
}
