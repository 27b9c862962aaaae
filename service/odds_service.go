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

// QuoteCache is an optional read-through cache in front of the odds
// book's display reads
type QuoteCache interface {
	Get(ctx context.Context, matchID, teamID uuid.UUID) (decimal.Decimal, bool)
	Set(ctx context.Context, matchID, teamID uuid.UUID, odds decimal.Decimal)
	Invalidate(ctx context.Context, matchID, teamID uuid.UUID)
}

// oddsService implements the OddsService interface
type oddsService struct {
	uowFactory UnitOfWorkFactory
	cfg        *config.Config
	cache      QuoteCache // nil disables caching
}

// NewOddsService creates a new odds service. The cache may be nil.
func NewOddsService(uowFactory UnitOfWorkFactory, cfg *config.Config, cache QuoteCache) OddsService {
	return &oddsService{
		uowFactory: uowFactory,
		cfg:        cfg,
		cache:      cache,
	}
}

// GetQuote returns the current odds for a bettable (match, team) pair.
// Display reads go through the cache; bet placement reads the book
// inside its own transaction and never sees cached values.
func (s *oddsService) GetQuote(ctx context.Context, matchID, teamID uuid.UUID) (decimal.Decimal, error) {
	if s.cache != nil {
		if odds, ok := s.cache.Get(ctx, matchID, teamID); ok {
			return odds, nil
		}
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return decimal.Zero, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	match, err := uow.MatchRepository().GetByID(ctx, matchID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get match: %w", err)
	}
	if match == nil || !match.IsBettable() {
		return decimal.Zero, ErrMatchNotBettable
	}
	if !match.HasTeam(teamID) {
		return decimal.Zero, ErrInvalidTeam
	}

	quote, err := uow.OddsRepository().GetQuote(ctx, matchID, teamID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get odds quote: %w", err)
	}
	if quote == nil {
		return decimal.Zero, ErrOddsUnavailable
	}

	if s.cache != nil {
		s.cache.Set(ctx, matchID, teamID, quote.Odds)
	}

	return quote.Odds, nil
}

// SetQuote overwrites the advertised odds for a (match, team) pair.
// Bets already placed keep the odds they snapshotted.
func (s *oddsService) SetQuote(ctx context.Context, matchID, teamID uuid.UUID, value decimal.Decimal) error {
	if value.LessThan(s.cfg.MinOdds) {
		return ErrInvalidOdds
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	match, err := uow.MatchRepository().GetByID(ctx, matchID)
	if err != nil {
		return fmt.Errorf("failed to get match: %w", err)
	}
	if match == nil {
		return ErrNotFound
	}
	if match.IsTerminal() {
		return ErrMatchNotBettable
	}
	if !match.HasTeam(teamID) {
		return ErrInvalidTeam
	}

	quote := &models.OddsQuote{
		MatchID: matchID,
		TeamID:  teamID,
		Odds:    value,
	}
	if err := uow.OddsRepository().Upsert(ctx, quote); err != nil {
		return fmt.Errorf("failed to upsert odds quote: %w", err)
	}

	uow.EventBus().Publish(events.OddsUpdatedEvent{
		MatchID: matchID,
		TeamID:  teamID,
		Odds:    value,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	if s.cache != nil {
		s.cache.Set(ctx, matchID, teamID, value)
	}

	log.WithFields(log.Fields{
		"matchID": matchID,
		"teamID":  teamID,
		"odds":    value.String(),
	}).Info("Odds quote updated")

	return nil
}

// QuotesForMatch returns both sides' quotes of a match
func (s *oddsService) QuotesForMatch(ctx context.Context, matchID uuid.UUID) ([]*models.OddsQuote, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	match, err := uow.MatchRepository().GetByID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	if match == nil {
		return nil, ErrNotFound
	}

	quotes, err := uow.OddsRepository().ForMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list odds quotes: %w", err)
	}

	return quotes, nil
}
