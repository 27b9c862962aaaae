package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"bookie/config"
	"bookie/events"
	"bookie/models"
)

func testConfig() *config.Config {
	return &config.Config{
		StartingBalance: decimal.NewFromInt(1000),
		MinOdds:         decimal.RequireFromString("1.01"),
		DefaultOdds:     decimal.RequireFromString("2.00"),
		PointsPerWin:    3,
		PageSize:        10,
	}
}

func scheduledMatch(team1, team2 uuid.UUID) *models.Match {
	return &models.Match{
		ID:          uuid.New(),
		Team1ID:     team1,
		Team2ID:     team2,
		GameID:      uuid.New(),
		ScheduledAt: time.Now().Add(time.Hour),
		Status:      models.MatchStatusScheduled,
		Format:      "bo3",
	}
}

func TestWagerService_PlaceBet_Success(t *testing.T) {
	ctx := context.Background()

	// Setup mocks
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockBalanceRepo := new(MockBalanceHistoryRepository)
	mockBetRepo := new(MockBetRepository)
	mockMatchRepo := new(MockMatchRepository)
	mockOddsRepo := new(MockOddsRepository)
	mockPublisher := new(MockEventPublisher)

	mockUoW.SetRepositories(mockAccountRepo, mockBalanceRepo, mockBetRepo, mockMatchRepo, mockOddsRepo, nil, nil, mockPublisher)

	service := NewWagerService(mockFactory, testConfig())

	accountID := uuid.New()
	team1 := uuid.New()
	team2 := uuid.New()
	match := scheduledMatch(team1, team2)
	stake := decimal.NewFromInt(100)
	odds := decimal.RequireFromString("1.85")

	account := &models.Account{
		ID:       accountID,
		Username: "tester",
		Balance:  decimal.NewFromInt(500),
	}

	// Mock expectations
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockMatchRepo.On("GetByIDForShare", ctx, match.ID).Return(match, nil)
	mockOddsRepo.On("GetQuote", ctx, match.ID, team1).Return(&models.OddsQuote{
		MatchID: match.ID,
		TeamID:  team1,
		Odds:    odds,
	}, nil)
	mockAccountRepo.On("GetByIDForUpdate", ctx, accountID).Return(account, nil)
	mockAccountRepo.On("DebitStake", ctx, accountID, stake).Return(nil)

	mockBetRepo.On("Create", ctx, mock.MatchedBy(func(b *models.Bet) bool {
		return b.AccountID == accountID &&
			b.MatchID == match.ID &&
			b.TeamID == team1 &&
			b.Stake.Equal(stake) &&
			b.Odds.Equal(odds) &&
			b.PotentialPayout.Equal(decimal.RequireFromString("185")) &&
			b.Status == models.BetStatusPending
	})).Return(nil)

	mockBalanceRepo.On("Record", ctx, mock.MatchedBy(func(e *models.BalanceEntry) bool {
		return e.AccountID == accountID &&
			e.BalanceBefore.Equal(decimal.NewFromInt(500)) &&
			e.BalanceAfter.Equal(decimal.NewFromInt(400)) &&
			e.ChangeAmount.Equal(decimal.NewFromInt(-100)) &&
			e.EntryType == models.EntryTypeBetStake
	})).Return(nil)

	mockPublisher.On("Publish", mock.AnythingOfType("events.BalanceChangeEvent")).Return()
	mockPublisher.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		placed, ok := e.(events.BetPlacedEvent)
		return ok && placed.AccountID == accountID && placed.Stake.Equal(stake)
	})).Return()

	receipt, err := service.PlaceBet(ctx, accountID, match.ID, team1, stake)

	assert.NoError(t, err)
	assert.NotNil(t, receipt)
	assert.True(t, receipt.Odds.Equal(odds))
	assert.True(t, receipt.PotentialPayout.Equal(decimal.RequireFromString("185")))
	assert.True(t, receipt.NewBalance.Equal(decimal.NewFromInt(400)))

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockAccountRepo.AssertExpectations(t)
	mockBetRepo.AssertExpectations(t)
	mockBalanceRepo.AssertExpectations(t)
}

func TestWagerService_PlaceBet_MatchNotBettable(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockMatchRepo := new(MockMatchRepository)

	mockUoW.SetRepositories(nil, nil, nil, mockMatchRepo, nil, nil, nil, nil)

	service := NewWagerService(mockFactory, testConfig())

	team1 := uuid.New()
	match := scheduledMatch(team1, uuid.New())
	match.Status = models.MatchStatusLive

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockMatchRepo.On("GetByIDForShare", ctx, match.ID).Return(match, nil)

	receipt, err := service.PlaceBet(ctx, uuid.New(), match.ID, team1, decimal.NewFromInt(50))

	assert.ErrorIs(t, err, ErrMatchNotBettable)
	assert.Nil(t, receipt)
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestWagerService_PlaceBet_UnknownMatch(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockMatchRepo := new(MockMatchRepository)

	mockUoW.SetRepositories(nil, nil, nil, mockMatchRepo, nil, nil, nil, nil)

	service := NewWagerService(mockFactory, testConfig())

	matchID := uuid.New()
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockMatchRepo.On("GetByIDForShare", ctx, matchID).Return(nil, nil)

	_, err := service.PlaceBet(ctx, uuid.New(), matchID, uuid.New(), decimal.NewFromInt(50))

	assert.ErrorIs(t, err, ErrMatchNotBettable)
}

func TestWagerService_PlaceBet_TeamNotInMatch(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockMatchRepo := new(MockMatchRepository)

	mockUoW.SetRepositories(nil, nil, nil, mockMatchRepo, nil, nil, nil, nil)

	service := NewWagerService(mockFactory, testConfig())

	match := scheduledMatch(uuid.New(), uuid.New())

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockMatchRepo.On("GetByIDForShare", ctx, match.ID).Return(match, nil)

	_, err := service.PlaceBet(ctx, uuid.New(), match.ID, uuid.New(), decimal.NewFromInt(50))

	assert.ErrorIs(t, err, ErrInvalidTeam)
}

func TestWagerService_PlaceBet_NonPositiveStake(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockMatchRepo := new(MockMatchRepository)

	mockUoW.SetRepositories(nil, nil, nil, mockMatchRepo, nil, nil, nil, nil)

	service := NewWagerService(mockFactory, testConfig())

	team1 := uuid.New()
	match := scheduledMatch(team1, uuid.New())

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockMatchRepo.On("GetByIDForShare", ctx, match.ID).Return(match, nil)

	_, err := service.PlaceBet(ctx, uuid.New(), match.ID, team1, decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidStake)

	_, err = service.PlaceBet(ctx, uuid.New(), match.ID, team1, decimal.NewFromInt(-10))
	assert.ErrorIs(t, err, ErrInvalidStake)
}

func TestWagerService_PlaceBet_NoOddsQuote(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockMatchRepo := new(MockMatchRepository)
	mockOddsRepo := new(MockOddsRepository)

	mockUoW.SetRepositories(nil, nil, nil, mockMatchRepo, mockOddsRepo, nil, nil, nil)

	service := NewWagerService(mockFactory, testConfig())

	team1 := uuid.New()
	match := scheduledMatch(team1, uuid.New())

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockMatchRepo.On("GetByIDForShare", ctx, match.ID).Return(match, nil)
	mockOddsRepo.On("GetQuote", ctx, match.ID, team1).Return(nil, nil)

	_, err := service.PlaceBet(ctx, uuid.New(), match.ID, team1, decimal.NewFromInt(50))

	assert.ErrorIs(t, err, ErrOddsUnavailable)
}

func TestWagerService_PlaceBet_InsufficientBalance(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockMatchRepo := new(MockMatchRepository)
	mockOddsRepo := new(MockOddsRepository)

	mockUoW.SetRepositories(mockAccountRepo, nil, nil, mockMatchRepo, mockOddsRepo, nil, nil, nil)

	service := NewWagerService(mockFactory, testConfig())

	accountID := uuid.New()
	team1 := uuid.New()
	match := scheduledMatch(team1, uuid.New())

	account := &models.Account{
		ID:      accountID,
		Balance: decimal.NewFromInt(25),
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockMatchRepo.On("GetByIDForShare", ctx, match.ID).Return(match, nil)
	mockOddsRepo.On("GetQuote", ctx, match.ID, team1).Return(&models.OddsQuote{
		MatchID: match.ID,
		TeamID:  team1,
		Odds:    decimal.RequireFromString("2.10"),
	}, nil)
	mockAccountRepo.On("GetByIDForUpdate", ctx, accountID).Return(account, nil)

	_, err := service.PlaceBet(ctx, accountID, match.ID, team1, decimal.NewFromInt(50))

	assert.ErrorIs(t, err, ErrInsufficientBalance)
	mockAccountRepo.AssertNotCalled(t, "DebitStake")
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestWagerService_PlaceBet_DebitFailsUnderRace(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockMatchRepo := new(MockMatchRepository)
	mockOddsRepo := new(MockOddsRepository)

	mockUoW.SetRepositories(mockAccountRepo, nil, nil, mockMatchRepo, mockOddsRepo, nil, nil, nil)

	service := NewWagerService(mockFactory, testConfig())

	accountID := uuid.New()
	team1 := uuid.New()
	match := scheduledMatch(team1, uuid.New())

	account := &models.Account{
		ID:      accountID,
		Balance: decimal.NewFromInt(100),
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockMatchRepo.On("GetByIDForShare", ctx, match.ID).Return(match, nil)
	mockOddsRepo.On("GetQuote", ctx, match.ID, team1).Return(&models.OddsQuote{
		MatchID: match.ID,
		TeamID:  team1,
		Odds:    decimal.RequireFromString("2.00"),
	}, nil)
	mockAccountRepo.On("GetByIDForUpdate", ctx, accountID).Return(account, nil)
	mockAccountRepo.On("DebitStake", ctx, accountID, decimal.NewFromInt(100)).Return(ErrInsufficientBalance)

	_, err := service.PlaceBet(ctx, accountID, match.ID, team1, decimal.NewFromInt(100))

	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestWagerService_PlaceBet_CommitError(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockBalanceRepo := new(MockBalanceHistoryRepository)
	mockBetRepo := new(MockBetRepository)
	mockMatchRepo := new(MockMatchRepository)
	mockOddsRepo := new(MockOddsRepository)
	mockPublisher := new(MockEventPublisher)

	mockUoW.SetRepositories(mockAccountRepo, mockBalanceRepo, mockBetRepo, mockMatchRepo, mockOddsRepo, nil, nil, mockPublisher)

	service := NewWagerService(mockFactory, testConfig())

	accountID := uuid.New()
	team1 := uuid.New()
	match := scheduledMatch(team1, uuid.New())

	account := &models.Account{
		ID:      accountID,
		Balance: decimal.NewFromInt(500),
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(errors.New("connection lost"))
	mockUoW.On("Rollback").Return(nil)
	mockMatchRepo.On("GetByIDForShare", ctx, match.ID).Return(match, nil)
	mockOddsRepo.On("GetQuote", ctx, match.ID, team1).Return(&models.OddsQuote{
		MatchID: match.ID,
		TeamID:  team1,
		Odds:    decimal.RequireFromString("2.00"),
	}, nil)
	mockAccountRepo.On("GetByIDForUpdate", ctx, accountID).Return(account, nil)
	mockAccountRepo.On("DebitStake", ctx, accountID, mock.Anything).Return(nil)
	mockBetRepo.On("Create", ctx, mock.Anything).Return(nil)
	mockBalanceRepo.On("Record", ctx, mock.Anything).Return(nil)
	mockPublisher.On("Publish", mock.Anything).Return()

	receipt, err := service.PlaceBet(ctx, accountID, match.ID, team1, decimal.NewFromInt(50))

	assert.Error(t, err)
	assert.Nil(t, receipt)
}

func TestWagerService_BetsForAccount(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockBetRepo := new(MockBetRepository)

	mockUoW.SetRepositories(nil, nil, mockBetRepo, nil, nil, nil, nil, nil)

	service := NewWagerService(mockFactory, testConfig())

	accountID := uuid.New()
	bets := []*models.Bet{
		{ID: uuid.New(), AccountID: accountID},
		{ID: uuid.New(), AccountID: accountID},
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	// Zero limit falls back to the configured page size
	mockBetRepo.On("GetByAccount", ctx, accountID, 10).Return(bets, nil)

	result, err := service.BetsForAccount(ctx, accountID, 0)

	assert.NoError(t, err)
	assert.Len(t, result, 2)
	mockBetRepo.AssertExpectations(t)
}
