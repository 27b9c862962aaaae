package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"bookie/events"
	"bookie/models"
)

func pendingBet(accountID, matchID, teamID uuid.UUID, stake, odds string) *models.Bet {
	stakeDec := decimal.RequireFromString(stake)
	oddsDec := decimal.RequireFromString(odds)
	return &models.Bet{
		ID:              uuid.New(),
		AccountID:       accountID,
		MatchID:         matchID,
		TeamID:          teamID,
		Stake:           stakeDec,
		Odds:            oddsDec,
		PotentialPayout: stakeDec.Mul(oddsDec),
		Status:          models.BetStatusPending,
		CreatedAt:       time.Now(),
	}
}

func TestSettlementService_SettleMatch_WinnersAndLosers(t *testing.T) {
	ctx := context.Background()

	// Setup mocks
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockBalanceRepo := new(MockBalanceHistoryRepository)
	mockBetRepo := new(MockBetRepository)
	mockMatchRepo := new(MockMatchRepository)
	mockPublisher := new(MockEventPublisher)

	mockUoW.SetRepositories(mockAccountRepo, mockBalanceRepo, mockBetRepo, mockMatchRepo, nil, nil, nil, mockPublisher)

	service := NewSettlementService(mockFactory)

	team1 := uuid.New()
	team2 := uuid.New()
	match := scheduledMatch(team1, team2)
	match.Status = models.MatchStatusLive

	winner := uuid.New()
	loser := uuid.New()
	winningBet := pendingBet(winner, match.ID, team1, "100", "1.50")
	losingBet := pendingBet(loser, match.ID, team2, "40", "2.50")

	winnerAccount := &models.Account{ID: winner, Balance: decimal.NewFromInt(200)}

	// Mock expectations
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockMatchRepo.On("GetByIDForUpdate", ctx, match.ID).Return(match, nil)
	mockMatchRepo.On("MarkCompleted", ctx, match.ID, team1, 2, 1).Return(nil)
	mockBetRepo.On("PendingByMatch", ctx, match.ID).Return([]*models.Bet{winningBet, losingBet}, nil)

	mockBetRepo.On("Settle", ctx, winningBet.ID, models.BetResultWon, mock.AnythingOfType("time.Time")).Return(nil)
	mockBetRepo.On("Settle", ctx, losingBet.ID, models.BetResultLost, mock.AnythingOfType("time.Time")).Return(nil)

	mockAccountRepo.On("GetByIDForUpdate", ctx, winner).Return(winnerAccount, nil)
	mockAccountRepo.On("CreditPayout", ctx, winner, decimal.RequireFromString("150")).Return(nil)

	mockBalanceRepo.On("Record", ctx, mock.MatchedBy(func(e *models.BalanceEntry) bool {
		return e.AccountID == winner &&
			e.BalanceBefore.Equal(decimal.NewFromInt(200)) &&
			e.BalanceAfter.Equal(decimal.NewFromInt(350)) &&
			e.EntryType == models.EntryTypeBetPayout
	})).Return(nil)

	mockPublisher.On("Publish", mock.AnythingOfType("events.BalanceChangeEvent")).Return()
	mockPublisher.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		settled, ok := e.(events.MatchSettledEvent)
		return ok && settled.MatchID == match.ID &&
			settled.SettledBets == 2 &&
			settled.WonBets == 1 &&
			settled.TotalPaidOut.Equal(decimal.RequireFromString("150"))
	})).Return()

	report, err := service.SettleMatch(ctx, match.ID, team1, 2, 1)

	assert.NoError(t, err)
	assert.NotNil(t, report)
	assert.Equal(t, 2, report.SettledBets)
	assert.Equal(t, 1, report.WonBets)
	assert.True(t, report.TotalPaidOut.Equal(decimal.RequireFromString("150")))

	// The losing account is never touched
	mockAccountRepo.AssertNotCalled(t, "GetByIDForUpdate", ctx, loser)
	mockAccountRepo.AssertNotCalled(t, "CreditPayout", ctx, loser, mock.Anything)

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockMatchRepo.AssertExpectations(t)
	mockBetRepo.AssertExpectations(t)
	mockBalanceRepo.AssertExpectations(t)
}

func TestSettlementService_SettleMatch_AlreadySettled(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockMatchRepo := new(MockMatchRepository)
	mockBetRepo := new(MockBetRepository)

	mockUoW.SetRepositories(nil, nil, mockBetRepo, mockMatchRepo, nil, nil, nil, nil)

	service := NewSettlementService(mockFactory)

	team1 := uuid.New()
	match := scheduledMatch(team1, uuid.New())
	match.Status = models.MatchStatusCompleted

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockMatchRepo.On("GetByIDForUpdate", ctx, match.ID).Return(match, nil)

	report, err := service.SettleMatch(ctx, match.ID, team1, 2, 0)

	assert.ErrorIs(t, err, ErrAlreadySettled)
	assert.Nil(t, report)
	mockBetRepo.AssertNotCalled(t, "PendingByMatch")
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestSettlementService_SettleMatch_UnknownMatch(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockMatchRepo := new(MockMatchRepository)

	mockUoW.SetRepositories(nil, nil, nil, mockMatchRepo, nil, nil, nil, nil)

	service := NewSettlementService(mockFactory)

	matchID := uuid.New()
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockMatchRepo.On("GetByIDForUpdate", ctx, matchID).Return(nil, nil)

	_, err := service.SettleMatch(ctx, matchID, uuid.New(), 1, 0)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSettlementService_SettleMatch_WinnerNotParticipant(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockMatchRepo := new(MockMatchRepository)

	mockUoW.SetRepositories(nil, nil, nil, mockMatchRepo, nil, nil, nil, nil)

	service := NewSettlementService(mockFactory)

	match := scheduledMatch(uuid.New(), uuid.New())
	match.Status = models.MatchStatusLive

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockMatchRepo.On("GetByIDForUpdate", ctx, match.ID).Return(match, nil)

	_, err := service.SettleMatch(ctx, match.ID, uuid.New(), 2, 1)

	assert.ErrorIs(t, err, ErrInvalidTeam)
	mockMatchRepo.AssertNotCalled(t, "MarkCompleted")
}

func TestSettlementService_SettleMatch_NoPendingBets(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockBetRepo := new(MockBetRepository)
	mockMatchRepo := new(MockMatchRepository)
	mockPublisher := new(MockEventPublisher)

	mockUoW.SetRepositories(nil, nil, mockBetRepo, mockMatchRepo, nil, nil, nil, mockPublisher)

	service := NewSettlementService(mockFactory)

	team1 := uuid.New()
	match := scheduledMatch(team1, uuid.New())

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockMatchRepo.On("GetByIDForUpdate", ctx, match.ID).Return(match, nil)
	mockMatchRepo.On("MarkCompleted", ctx, match.ID, team1, 2, 0).Return(nil)
	mockBetRepo.On("PendingByMatch", ctx, match.ID).Return([]*models.Bet{}, nil)
	mockPublisher.On("Publish", mock.Anything).Return()

	report, err := service.SettleMatch(ctx, match.ID, team1, 2, 0)

	assert.NoError(t, err)
	assert.Equal(t, 0, report.SettledBets)
	assert.True(t, report.TotalPaidOut.IsZero())
}

func TestSettlementService_CancelMatch_RefundsStakes(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockBalanceRepo := new(MockBalanceHistoryRepository)
	mockBetRepo := new(MockBetRepository)
	mockMatchRepo := new(MockMatchRepository)
	mockPublisher := new(MockEventPublisher)

	mockUoW.SetRepositories(mockAccountRepo, mockBalanceRepo, mockBetRepo, mockMatchRepo, nil, nil, nil, mockPublisher)

	service := NewSettlementService(mockFactory)

	team1 := uuid.New()
	team2 := uuid.New()
	match := scheduledMatch(team1, team2)

	accountID := uuid.New()
	bet := pendingBet(accountID, match.ID, team1, "75", "3.00")
	account := &models.Account{ID: accountID, Balance: decimal.NewFromInt(925)}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockMatchRepo.On("GetByIDForUpdate", ctx, match.ID).Return(match, nil)
	mockMatchRepo.On("MarkCancelled", ctx, match.ID).Return(nil)
	mockBetRepo.On("PendingByMatch", ctx, match.ID).Return([]*models.Bet{bet}, nil)
	mockBetRepo.On("Settle", ctx, bet.ID, models.BetResultVoid, mock.AnythingOfType("time.Time")).Return(nil)

	mockAccountRepo.On("GetByIDForUpdate", ctx, accountID).Return(account, nil)
	// The stake comes back, not the potential payout
	mockAccountRepo.On("CreditRefund", ctx, accountID, decimal.RequireFromString("75")).Return(nil)

	mockBalanceRepo.On("Record", ctx, mock.MatchedBy(func(e *models.BalanceEntry) bool {
		return e.AccountID == accountID &&
			e.BalanceAfter.Equal(decimal.NewFromInt(1000)) &&
			e.EntryType == models.EntryTypeBetRefund
	})).Return(nil)

	mockPublisher.On("Publish", mock.AnythingOfType("events.BalanceChangeEvent")).Return()
	mockPublisher.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		cancelled, ok := e.(events.MatchCancelledEvent)
		return ok && cancelled.RefundedBets == 1 &&
			cancelled.TotalRefunded.Equal(decimal.RequireFromString("75"))
	})).Return()

	report, err := service.CancelMatch(ctx, match.ID)

	assert.NoError(t, err)
	assert.Equal(t, 1, report.SettledBets)
	assert.Nil(t, report.WinnerTeamID)
	assert.True(t, report.TotalPaidOut.Equal(decimal.RequireFromString("75")))

	mockAccountRepo.AssertNotCalled(t, "CreditPayout")
	mockUoW.AssertExpectations(t)
	mockBetRepo.AssertExpectations(t)
}

func TestSettlementService_CancelMatch_AlreadySettled(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockMatchRepo := new(MockMatchRepository)

	mockUoW.SetRepositories(nil, nil, nil, mockMatchRepo, nil, nil, nil, nil)

	service := NewSettlementService(mockFactory)

	match := scheduledMatch(uuid.New(), uuid.New())
	match.Status = models.MatchStatusCancelled

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockMatchRepo.On("GetByIDForUpdate", ctx, match.ID).Return(match, nil)

	_, err := service.CancelMatch(ctx, match.ID)

	assert.ErrorIs(t, err, ErrAlreadySettled)
	mockMatchRepo.AssertNotCalled(t, "MarkCancelled")
}
