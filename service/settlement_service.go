package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"bookie/events"
	"bookie/models"
)

// settlementService implements the SettlementService interface
type settlementService struct {
	uowFactory UnitOfWorkFactory
}

// NewSettlementService creates a new settlement service
func NewSettlementService(uowFactory UnitOfWorkFactory) SettlementService {
	return &settlementService{uowFactory: uowFactory}
}

// SettleMatch completes a match and resolves every pending bet on it in
// one transaction. The match row lock is taken first, so a concurrent
// placement either commits before the pending sweep runs or fails its
// own bettable check.
func (s *settlementService) SettleMatch(ctx context.Context, matchID, winnerTeamID uuid.UUID, team1Score, team2Score int) (*models.SettlementReport, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	match, err := uow.MatchRepository().GetByIDForUpdate(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	if match == nil {
		return nil, ErrNotFound
	}
	if match.IsTerminal() {
		return nil, ErrAlreadySettled
	}
	if !match.HasTeam(winnerTeamID) {
		return nil, ErrInvalidTeam
	}

	if err := uow.MatchRepository().MarkCompleted(ctx, matchID, winnerTeamID, team1Score, team2Score); err != nil {
		return nil, fmt.Errorf("failed to complete match: %w", err)
	}

	pending, err := uow.BetRepository().PendingByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending bets: %w", err)
	}

	now := time.Now()
	report := &models.SettlementReport{
		MatchID:      matchID,
		WinnerTeamID: &winnerTeamID,
		TotalPaidOut: decimal.Zero,
	}

	for _, bet := range pending {
		if bet.TeamID == winnerTeamID {
			if err := s.payoutBet(ctx, uow, bet, now); err != nil {
				return nil, err
			}
			report.WonBets++
			report.TotalPaidOut = report.TotalPaidOut.Add(bet.PotentialPayout)
		} else {
			if err := uow.BetRepository().Settle(ctx, bet.ID, models.BetResultLost, now); err != nil {
				return nil, fmt.Errorf("failed to settle bet %s: %w", bet.ID, err)
			}
		}
		report.SettledBets++
	}

	uow.EventBus().Publish(events.MatchSettledEvent{
		MatchID:      matchID,
		Team1ID:      match.Team1ID,
		Team2ID:      match.Team2ID,
		WinnerTeamID: winnerTeamID,
		SettledBets:  report.SettledBets,
		WonBets:      report.WonBets,
		TotalPaidOut: report.TotalPaidOut,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"matchID":      matchID,
		"winnerTeamID": winnerTeamID,
		"settledBets":  report.SettledBets,
		"wonBets":      report.WonBets,
		"totalPaidOut": report.TotalPaidOut.String(),
	}).Info("Match settled")

	return report, nil
}

// payoutBet marks one winning bet settled and credits its payout
func (s *settlementService) payoutBet(ctx context.Context, uow UnitOfWork, bet *models.Bet, now time.Time) error {
	if err := uow.BetRepository().Settle(ctx, bet.ID, models.BetResultWon, now); err != nil {
		return fmt.Errorf("failed to settle bet %s: %w", bet.ID, err)
	}

	account, err := uow.AccountRepository().GetByIDForUpdate(ctx, bet.AccountID)
	if err != nil {
		return fmt.Errorf("failed to get account %s: %w", bet.AccountID, err)
	}
	if account == nil {
		return fmt.Errorf("account %s of bet %s: %w", bet.AccountID, bet.ID, ErrNotFound)
	}

	if err := uow.AccountRepository().CreditPayout(ctx, bet.AccountID, bet.PotentialPayout); err != nil {
		return fmt.Errorf("failed to credit payout for bet %s: %w", bet.ID, err)
	}

	newBalance := account.Balance.Add(bet.PotentialPayout)
	return recordBalanceChange(ctx, uow, bet.AccountID, account.Balance, newBalance,
		models.EntryTypeBetPayout, &bet.ID, map[string]any{
			"match_id": bet.MatchID.String(),
		})
}

// CancelMatch cancels a match, void-settling every pending bet and
// refunding its stake. The potential winnings are never paid.
func (s *settlementService) CancelMatch(ctx context.Context, matchID uuid.UUID) (*models.SettlementReport, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	match, err := uow.MatchRepository().GetByIDForUpdate(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	if match == nil {
		return nil, ErrNotFound
	}
	if match.IsTerminal() {
		return nil, ErrAlreadySettled
	}

	if err := uow.MatchRepository().MarkCancelled(ctx, matchID); err != nil {
		return nil, fmt.Errorf("failed to cancel match: %w", err)
	}

	pending, err := uow.BetRepository().PendingByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending bets: %w", err)
	}

	now := time.Now()
	report := &models.SettlementReport{
		MatchID:      matchID,
		TotalPaidOut: decimal.Zero,
	}

	for _, bet := range pending {
		if err := s.refundBet(ctx, uow, bet, now); err != nil {
			return nil, err
		}
		report.SettledBets++
		report.TotalPaidOut = report.TotalPaidOut.Add(bet.Stake)
	}

	uow.EventBus().Publish(events.MatchCancelledEvent{
		MatchID:       matchID,
		Team1ID:       match.Team1ID,
		Team2ID:       match.Team2ID,
		RefundedBets:  report.SettledBets,
		TotalRefunded: report.TotalPaidOut,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"matchID":       matchID,
		"refundedBets":  report.SettledBets,
		"totalRefunded": report.TotalPaidOut.String(),
	}).Info("Match cancelled")

	return report, nil
}

// refundBet marks one bet void and returns its stake to the account
func (s *settlementService) refundBet(ctx context.Context, uow UnitOfWork, bet *models.Bet, now time.Time) error {
	if err := uow.BetRepository().Settle(ctx, bet.ID, models.BetResultVoid, now); err != nil {
		return fmt.Errorf("failed to void bet %s: %w", bet.ID, err)
	}

	account, err := uow.AccountRepository().GetByIDForUpdate(ctx, bet.AccountID)
	if err != nil {
		return fmt.Errorf("failed to get account %s: %w", bet.AccountID, err)
	}
	if account == nil {
		return fmt.Errorf("account %s of bet %s: %w", bet.AccountID, bet.ID, ErrNotFound)
	}

	if err := uow.AccountRepository().CreditRefund(ctx, bet.AccountID, bet.Stake); err != nil {
		return fmt.Errorf("failed to refund bet %s: %w", bet.ID, err)
	}

	newBalance := account.Balance.Add(bet.Stake)
	return recordBalanceChange(ctx, uow, bet.AccountID, account.Balance, newBalance,
		models.EntryTypeBetRefund, &bet.ID, map[string]any{
			"match_id": bet.MatchID.String(),
		})
}
