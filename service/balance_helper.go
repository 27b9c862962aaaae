package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bookie/events"
	"bookie/models"
)

// recordBalanceChange writes one audit trail row for a balance mutation
// and stashes the matching event on the unit of work's bus. It must be
// called inside the same transaction as the mutation itself.
func recordBalanceChange(
	ctx context.Context,
	uow UnitOfWork,
	accountID uuid.UUID,
	balanceBefore, balanceAfter decimal.Decimal,
	entryType models.EntryType,
	relatedBetID *uuid.UUID,
	metadata map[string]any,
) error {
	entry := &models.BalanceEntry{
		AccountID:     accountID,
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceAfter,
		ChangeAmount:  balanceAfter.Sub(balanceBefore),
		EntryType:     entryType,
		RelatedBetID:  relatedBetID,
		Metadata:      metadata,
	}

	if err := uow.BalanceHistoryRepository().Record(ctx, entry); err != nil {
		return fmt.Errorf("failed to record balance history: %w", err)
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		AccountID:    accountID,
		OldBalance:   balanceBefore,
		NewBalance:   balanceAfter,
		ChangeAmount: entry.ChangeAmount,
		EntryType:    entryType,
	})

	return nil
}
