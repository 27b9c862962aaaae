package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryType represents the type of balance change
type EntryType string

const (
	EntryTypeInitial   EntryType = "initial"
	EntryTypeBetStake  EntryType = "bet_stake"
	EntryTypeBetPayout EntryType = "bet_payout"
	EntryTypeBetRefund EntryType = "bet_refund"
)

// BalanceEntry represents a historical balance change. One row is
// written inside the same transaction as every balance mutation.
type BalanceEntry struct {
	ID            int64           `db:"id"`
	AccountID     uuid.UUID       `db:"account_id"`
	BalanceBefore decimal.Decimal `db:"balance_before"`
	BalanceAfter  decimal.Decimal `db:"balance_after"`
	ChangeAmount  decimal.Decimal `db:"change_amount"`
	EntryType     EntryType       `db:"entry_type"`
	RelatedBetID  *uuid.UUID      `db:"related_bet_id"`
	Metadata      map[string]any  `db:"metadata"`
	CreatedAt     time.Time       `db:"created_at"`
}
