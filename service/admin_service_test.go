package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"bookie/models"
)

func TestAdminService_CreateTeam(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockTeamRepo := new(MockTeamRepository)

	mockUoW.SetRepositories(nil, nil, nil, nil, nil, mockTeamRepo, nil, nil)

	service := NewAdminService(mockFactory)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockTeamRepo.On("Create", ctx, mock.MatchedBy(func(team *models.Team) bool {
		return team.Name == "Astralis" && team.Tag == "AST"
	})).Return(nil)

	team, err := service.CreateTeam(ctx, CreateTeamParams{Name: "Astralis", Tag: "AST"})

	assert.NoError(t, err)
	assert.Equal(t, "Astralis", team.Name)
	mockTeamRepo.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
}

func TestAdminService_CreateGame(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockGameRepo := new(MockGameRepository)

	mockUoW.SetRepositories(nil, nil, nil, nil, nil, nil, nil, nil)
	mockUoW.SetGameRepository(mockGameRepo)

	service := NewAdminService(mockFactory)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockGameRepo.On("Create", ctx, mock.MatchedBy(func(game *models.Game) bool {
		return game.Name == "CS2" && game.Category == "fps"
	})).Return(nil)

	game, err := service.CreateGame(ctx, "CS2", "fps")

	assert.NoError(t, err)
	assert.Equal(t, "CS2", game.Name)
	mockGameRepo.AssertExpectations(t)
}

func TestAdminService_CreateTournament_UnknownGame(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockGameRepo := new(MockGameRepository)
	mockTournamentRepo := new(MockTournamentRepository)

	mockUoW.SetRepositories(nil, nil, nil, nil, nil, nil, mockTournamentRepo, nil)
	mockUoW.SetGameRepository(mockGameRepo)

	service := NewAdminService(mockFactory)

	gameID := uuid.New()
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockGameRepo.On("GetByID", ctx, gameID).Return(nil, nil)

	_, err := service.CreateTournament(ctx, CreateTournamentParams{Name: "Major", GameID: gameID})

	assert.ErrorIs(t, err, ErrNotFound)
	mockTournamentRepo.AssertNotCalled(t, "Create")
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestAdminService_CreateTournament(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockGameRepo := new(MockGameRepository)
	mockTournamentRepo := new(MockTournamentRepository)

	mockUoW.SetRepositories(nil, nil, nil, nil, nil, nil, mockTournamentRepo, nil)
	mockUoW.SetGameRepository(mockGameRepo)

	service := NewAdminService(mockFactory)

	gameID := uuid.New()
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockGameRepo.On("GetByID", ctx, gameID).Return(&models.Game{ID: gameID, Name: "CS2"}, nil)
	mockTournamentRepo.On("Create", ctx, mock.MatchedBy(func(tr *models.Tournament) bool {
		return tr.Name == "Major" && tr.GameID == gameID &&
			tr.PrizePool.Equal(decimal.NewFromInt(500000))
	})).Return(nil)

	tournament, err := service.CreateTournament(ctx, CreateTournamentParams{
		Name:      "Major",
		GameID:    gameID,
		Location:  "Cologne",
		PrizePool: decimal.NewFromInt(500000),
	})

	assert.NoError(t, err)
	assert.Equal(t, "Major", tournament.Name)
	mockTournamentRepo.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
}

func TestAdminService_ListTeams(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockTeamRepo := new(MockTeamRepository)

	mockUoW.SetRepositories(nil, nil, nil, nil, nil, mockTeamRepo, nil, nil)

	service := NewAdminService(mockFactory)

	teams := []*models.Team{
		{ID: uuid.New(), Name: "Astralis"},
		{ID: uuid.New(), Name: "Vitality"},
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockTeamRepo.On("List", ctx).Return(teams, nil)

	got, err := service.ListTeams(ctx)

	assert.NoError(t, err)
	assert.Equal(t, teams, got)
	mockUoW.AssertNotCalled(t, "Commit")
}
