package service

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"bookie/models"
)

// adminService implements the AdminService interface
type adminService struct {
	uowFactory UnitOfWorkFactory
}

// NewAdminService creates a new admin service
func NewAdminService(uowFactory UnitOfWorkFactory) AdminService {
	return &adminService{uowFactory: uowFactory}
}

// CreateTeam registers a new team
func (s *adminService) CreateTeam(ctx context.Context, params CreateTeamParams) (*models.Team, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	team := &models.Team{
		Name:        params.Name,
		Tag:         params.Tag,
		LogoURL:     params.LogoURL,
		FoundedYear: params.FoundedYear,
	}
	if err := uow.TeamRepository().Create(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"teamID": team.ID,
		"name":   team.Name,
	}).Info("Team created")

	return team, nil
}

// ListTeams returns all registered teams ordered by name
func (s *adminService) ListTeams(ctx context.Context) ([]*models.Team, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	teams, err := uow.TeamRepository().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}

	return teams, nil
}

// CreateGame registers a new game title
func (s *adminService) CreateGame(ctx context.Context, name, category string) (*models.Game, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	game := &models.Game{Name: name, Category: category}
	if err := uow.GameRepository().Create(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"gameID": game.ID,
		"name":   game.Name,
	}).Info("Game created")

	return game, nil
}

// ListGames returns all registered games ordered by name
func (s *adminService) ListGames(ctx context.Context) ([]*models.Game, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	games, err := uow.GameRepository().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	return games, nil
}

// CreateTournament registers a new tournament under an existing game
func (s *adminService) CreateTournament(ctx context.Context, params CreateTournamentParams) (*models.Tournament, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	game, err := uow.GameRepository().GetByID(ctx, params.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	if game == nil {
		return nil, ErrNotFound
	}

	tournament := &models.Tournament{
		Name:      params.Name,
		GameID:    params.GameID,
		Location:  params.Location,
		PrizePool: params.PrizePool,
		StartTime: params.StartTime,
		EndTime:   params.EndTime,
	}
	if err := uow.TournamentRepository().Create(ctx, tournament); err != nil {
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"tournamentID": tournament.ID,
		"name":         tournament.Name,
		"gameID":       tournament.GameID,
	}).Info("Tournament created")

	return tournament, nil
}
