package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"bookie/config"
	"bookie/events"
	"bookie/models"
)

// matchService implements the MatchService interface
type matchService struct {
	uowFactory UnitOfWorkFactory
	cfg        *config.Config
}

// NewMatchService creates a new match service
func NewMatchService(uowFactory UnitOfWorkFactory, cfg *config.Config) MatchService {
	return &matchService{
		uowFactory: uowFactory,
		cfg:        cfg,
	}
}

// CreateMatch creates a scheduled match between two distinct existing
// teams and seeds both odds quotes, falling back to the configured
// default where no opening odds were given
func (s *matchService) CreateMatch(ctx context.Context, params CreateMatchParams) (*models.Match, error) {
	if params.Team1ID == params.Team2ID {
		return nil, ErrInvalidTeam
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	for _, teamID := range []uuid.UUID{params.Team1ID, params.Team2ID} {
		team, err := uow.TeamRepository().GetByID(ctx, teamID)
		if err != nil {
			return nil, fmt.Errorf("failed to get team: %w", err)
		}
		if team == nil {
			return nil, ErrInvalidTeam
		}
	}

	odds1 := params.OddsTeam1
	if odds1.IsZero() {
		odds1 = s.cfg.DefaultOdds
	}
	odds2 := params.OddsTeam2
	if odds2.IsZero() {
		odds2 = s.cfg.DefaultOdds
	}
	if odds1.LessThan(s.cfg.MinOdds) || odds2.LessThan(s.cfg.MinOdds) {
		return nil, ErrInvalidOdds
	}

	match := &models.Match{
		ID:           uuid.New(),
		Team1ID:      params.Team1ID,
		Team2ID:      params.Team2ID,
		GameID:       params.GameID,
		TournamentID: params.TournamentID,
		ScheduledAt:  params.ScheduledAt,
		Status:       models.MatchStatusScheduled,
		Format:       params.Format,
	}
	if err := uow.MatchRepository().Create(ctx, match); err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	quotes := []*models.OddsQuote{
		{MatchID: match.ID, TeamID: params.Team1ID, Odds: odds1},
		{MatchID: match.ID, TeamID: params.Team2ID, Odds: odds2},
	}
	for _, quote := range quotes {
		if err := uow.OddsRepository().Upsert(ctx, quote); err != nil {
			return nil, fmt.Errorf("failed to seed odds quote: %w", err)
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"matchID":     match.ID,
		"team1ID":     params.Team1ID,
		"team2ID":     params.Team2ID,
		"scheduledAt": params.ScheduledAt,
	}).Info("Match created")

	return match, nil
}

// UpdateMatch edits match metadata. Terminal matches are immutable and
// the guarded update rejects edits to them.
func (s *matchService) UpdateMatch(ctx context.Context, match *models.Match) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	existing, err := uow.MatchRepository().GetByID(ctx, match.ID)
	if err != nil {
		return fmt.Errorf("failed to get match: %w", err)
	}
	if existing == nil {
		return ErrNotFound
	}
	if existing.IsTerminal() {
		return ErrAlreadySettled
	}

	if err := uow.MatchRepository().Update(ctx, match); err != nil {
		return fmt.Errorf("failed to update match: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetMatch retrieves a single match
func (s *matchService) GetMatch(ctx context.Context, id uuid.UUID) (*models.Match, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	match, err := uow.MatchRepository().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	if match == nil {
		return nil, ErrNotFound
	}

	return match, nil
}

// ListMatches returns one page of matches (newest scheduled first) plus
// the total match count. Pages are 1-based; out-of-range pages return
// an empty slice, not an error.
func (s *matchService) ListMatches(ctx context.Context, page int) ([]*models.Match, int, error) {
	if page < 1 {
		page = 1
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	offset := (page - 1) * s.cfg.PageSize
	matches, total, err := uow.MatchRepository().List(ctx, s.cfg.PageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list matches: %w", err)
	}

	return matches, total, nil
}

// BettableMatches returns the matches currently open for betting
func (s *matchService) BettableMatches(ctx context.Context) ([]*models.Match, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	matches, err := uow.MatchRepository().ListBettable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list bettable matches: %w", err)
	}

	return matches, nil
}

// MarkLiveDue transitions scheduled matches past their start time to
// live. Each transition closes that match's betting window.
func (s *matchService) MarkLiveDue(ctx context.Context, now time.Time) (int, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	due, err := uow.MatchRepository().ListScheduledBefore(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to list due matches: %w", err)
	}

	transitioned := 0
	for _, match := range due {
		if err := uow.MatchRepository().MarkLive(ctx, match.ID); err != nil {
			return 0, fmt.Errorf("failed to mark match %s live: %w", match.ID, err)
		}
		uow.EventBus().Publish(events.MatchWentLiveEvent{
			MatchID: match.ID,
			Team1ID: match.Team1ID,
			Team2ID: match.Team2ID,
		})
		transitioned++
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if transitioned > 0 {
		log.WithField("count", transitioned).Info("Transitioned scheduled matches to live")
	}

	return transitioned, nil
}
