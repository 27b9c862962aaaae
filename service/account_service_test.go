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

func TestAccountService_GetOrCreateAccount_Existing(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockBalanceRepo := new(MockBalanceHistoryRepository)

	mockUoW.SetRepositories(mockAccountRepo, mockBalanceRepo, nil, nil, nil, nil, nil, nil)

	service := NewAccountService(mockFactory, testConfig())

	accountID := uuid.New()
	existing := &models.Account{
		ID:       accountID,
		Username: "existing",
		Balance:  decimal.NewFromInt(740),
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	// No Commit() expected since the account exists and nothing is written
	mockAccountRepo.On("GetByID", ctx, accountID).Return(existing, nil)

	account, err := service.GetOrCreateAccount(ctx, accountID, "existing")

	assert.NoError(t, err)
	assert.Equal(t, existing, account)
	mockBalanceRepo.AssertNotCalled(t, "Record")
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestAccountService_GetOrCreateAccount_New(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockBalanceRepo := new(MockBalanceHistoryRepository)
	mockPublisher := new(MockEventPublisher)

	mockUoW.SetRepositories(mockAccountRepo, mockBalanceRepo, nil, nil, nil, nil, nil, mockPublisher)

	cfg := testConfig()
	service := NewAccountService(mockFactory, cfg)

	accountID := uuid.New()
	created := &models.Account{
		ID:       accountID,
		Username: "newcomer",
		Balance:  cfg.StartingBalance,
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockAccountRepo.On("GetByID", ctx, accountID).Return(nil, nil)
	mockAccountRepo.On("Create", ctx, accountID, "newcomer", cfg.StartingBalance).Return(created, nil)

	mockBalanceRepo.On("Record", ctx, mock.MatchedBy(func(e *models.BalanceEntry) bool {
		return e.AccountID == accountID &&
			e.EntryType == models.EntryTypeInitial &&
			e.BalanceAfter.Equal(cfg.StartingBalance)
	})).Return(nil)

	mockPublisher.On("Publish", mock.Anything).Return()

	account, err := service.GetOrCreateAccount(ctx, accountID, "newcomer")

	assert.NoError(t, err)
	assert.True(t, account.Balance.Equal(decimal.NewFromInt(1000)))

	mockAccountRepo.AssertExpectations(t)
	mockBalanceRepo.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
}

func TestAccountService_GetOrCreateAccount_ProvisioningRace(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockBalanceRepo := new(MockBalanceHistoryRepository)

	mockUoW.SetRepositories(mockAccountRepo, mockBalanceRepo, nil, nil, nil, nil, nil, nil)

	cfg := testConfig()
	service := NewAccountService(mockFactory, cfg)

	accountID := uuid.New()
	winner := &models.Account{
		ID:       accountID,
		Username: "racer",
		Balance:  cfg.StartingBalance,
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	// A concurrent first login wins the insert between our read and our
	// create; the conflict-suppressed insert returns nothing and the
	// winning row is re-read.
	mockAccountRepo.On("GetByID", ctx, accountID).Return(nil, nil).Once()
	mockAccountRepo.On("Create", ctx, accountID, "racer", cfg.StartingBalance).Return(nil, nil)
	mockAccountRepo.On("GetByID", ctx, accountID).Return(winner, nil).Once()

	account, err := service.GetOrCreateAccount(ctx, accountID, "racer")

	assert.NoError(t, err)
	assert.Equal(t, winner, account)
	mockBalanceRepo.AssertNotCalled(t, "Record")
	mockUoW.AssertNotCalled(t, "Commit")
	mockAccountRepo.AssertExpectations(t)
}

func TestAccountService_GetAccount_NotFound(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)

	mockUoW.SetRepositories(mockAccountRepo, nil, nil, nil, nil, nil, nil, nil)

	service := NewAccountService(mockFactory, testConfig())

	accountID := uuid.New()
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockAccountRepo.On("GetByID", ctx, accountID).Return(nil, nil)

	_, err := service.GetAccount(ctx, accountID)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAccountService_BalanceHistory(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockBalanceRepo := new(MockBalanceHistoryRepository)

	mockUoW.SetRepositories(mockAccountRepo, mockBalanceRepo, nil, nil, nil, nil, nil, nil)

	service := NewAccountService(mockFactory, testConfig())

	accountID := uuid.New()
	account := &models.Account{ID: accountID, Balance: decimal.NewFromInt(900)}
	entries := []*models.BalanceEntry{
		{AccountID: accountID, EntryType: models.EntryTypeBetStake},
		{AccountID: accountID, EntryType: models.EntryTypeInitial},
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockAccountRepo.On("GetByID", ctx, accountID).Return(account, nil)
	mockBalanceRepo.On("GetByAccount", ctx, accountID, 5).Return(entries, nil)

	result, err := service.BalanceHistory(ctx, accountID, 5)

	assert.NoError(t, err)
	assert.Len(t, result, 2)
}
