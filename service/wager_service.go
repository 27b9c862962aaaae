package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"bookie/config"
	"bookie/events"
	"bookie/models"
)

// wagerService implements the WagerService interface
type wagerService struct {
	uowFactory UnitOfWorkFactory
	cfg        *config.Config
}

// NewWagerService creates a new wager service
func NewWagerService(uowFactory UnitOfWorkFactory, cfg *config.Config) WagerService {
	return &wagerService{
		uowFactory: uowFactory,
		cfg:        cfg,
	}
}

// PlaceBet validates and executes a bet placement in a single
// transaction. Validation order is fixed: match state, team, stake,
// odds availability, then balance. The share lock on the match row
// conflicts with settlement's exclusive lock, so a placement either
// commits before the pending sweep runs or observes the terminal
// status here and is rejected. The account row lock plus the guarded
// debit make placement safe under concurrent requests.
func (s *wagerService) PlaceBet(ctx context.Context, accountID, matchID, teamID uuid.UUID, stake decimal.Decimal) (*models.BetReceipt, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	match, err := uow.MatchRepository().GetByIDForShare(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	if match == nil || !match.IsBettable() {
		return nil, ErrMatchNotBettable
	}

	if !match.HasTeam(teamID) {
		return nil, ErrInvalidTeam
	}

	if !stake.IsPositive() {
		return nil, ErrInvalidStake
	}

	quote, err := uow.OddsRepository().GetQuote(ctx, matchID, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to get odds quote: %w", err)
	}
	if quote == nil || quote.Odds.LessThan(s.cfg.MinOdds) {
		return nil, ErrOddsUnavailable
	}

	account, err := uow.AccountRepository().GetByIDForUpdate(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, ErrNotFound
	}

	if !account.CanCover(stake) {
		return nil, ErrInsufficientBalance
	}

	if err := uow.AccountRepository().DebitStake(ctx, accountID, stake); err != nil {
		return nil, fmt.Errorf("failed to debit stake: %w", err)
	}

	bet := &models.Bet{
		ID:              uuid.New(),
		AccountID:       accountID,
		MatchID:         matchID,
		TeamID:          teamID,
		Stake:           stake,
		Odds:            quote.Odds,
		PotentialPayout: stake.Mul(quote.Odds),
		Status:          models.BetStatusPending,
	}
	if err := uow.BetRepository().Create(ctx, bet); err != nil {
		return nil, fmt.Errorf("failed to create bet: %w", err)
	}

	newBalance := account.Balance.Sub(stake)
	err = recordBalanceChange(ctx, uow, accountID, account.Balance, newBalance,
		models.EntryTypeBetStake, &bet.ID, map[string]any{
			"match_id": matchID.String(),
			"team_id":  teamID.String(),
		})
	if err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.BetPlacedEvent{
		BetID:           bet.ID,
		AccountID:       accountID,
		MatchID:         matchID,
		TeamID:          teamID,
		Stake:           stake,
		Odds:            bet.Odds,
		PotentialPayout: bet.PotentialPayout,
		PlacedAt:        bet.CreatedAt,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"betID":     bet.ID,
		"accountID": accountID,
		"matchID":   matchID,
		"teamID":    teamID,
		"stake":     stake.String(),
		"odds":      bet.Odds.String(),
	}).Info("Bet placed")

	return &models.BetReceipt{
		BetID:           bet.ID,
		Odds:            bet.Odds,
		PotentialPayout: bet.PotentialPayout,
		NewBalance:      newBalance,
	}, nil
}

// BetsForAccount returns the most recent bets of an account
func (s *wagerService) BetsForAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]*models.Bet, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if limit <= 0 {
		limit = s.cfg.PageSize
	}

	bets, err := uow.BetRepository().GetByAccount(ctx, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list bets: %w", err)
	}

	return bets, nil
}
