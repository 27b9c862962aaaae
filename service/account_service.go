package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"bookie/config"
	"bookie/events"
	"bookie/models"
)

// accountService implements the AccountService interface
type accountService struct {
	uowFactory UnitOfWorkFactory
	cfg        *config.Config
}

// NewAccountService creates a new account service
func NewAccountService(uowFactory UnitOfWorkFactory, cfg *config.Config) AccountService {
	return &accountService{
		uowFactory: uowFactory,
		cfg:        cfg,
	}
}

// GetOrCreateAccount retrieves an account or provisions it with the
// configured starting balance. Provisioning also writes the initial
// balance history row so every balance is traceable to its origin.
func (s *accountService) GetOrCreateAccount(ctx context.Context, accountID uuid.UUID, username string) (*models.Account, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.AccountRepository().GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account != nil {
		return account, nil
	}

	account, err = uow.AccountRepository().Create(ctx, accountID, username, s.cfg.StartingBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	if account == nil {
		// Lost a provisioning race; the winning insert is committed by
		// the time the conflict resolves, so re-read it.
		account, err = uow.AccountRepository().GetByID(ctx, accountID)
		if err != nil {
			return nil, fmt.Errorf("failed to get account: %w", err)
		}
		if account == nil {
			return nil, fmt.Errorf("account %s missing after insert conflict", accountID)
		}
		return account, nil
	}

	entry := &models.BalanceEntry{
		AccountID:     accountID,
		BalanceBefore: s.cfg.StartingBalance,
		BalanceAfter:  s.cfg.StartingBalance,
		EntryType:     models.EntryTypeInitial,
	}
	if err := uow.BalanceHistoryRepository().Record(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to record balance history: %w", err)
	}

	uow.EventBus().Publish(events.AccountCreatedEvent{
		AccountID:      accountID,
		Username:       username,
		InitialBalance: s.cfg.StartingBalance,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"accountID": accountID,
		"username":  username,
		"balance":   s.cfg.StartingBalance.String(),
	}).Info("Account created")

	return account, nil
}

// GetAccount retrieves an account's balance and lifetime stats
func (s *accountService) GetAccount(ctx context.Context, accountID uuid.UUID) (*models.Account, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.AccountRepository().GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, ErrNotFound
	}

	return account, nil
}

// BalanceHistory returns the most recent balance changes of an account
func (s *accountService) BalanceHistory(ctx context.Context, accountID uuid.UUID, limit int) ([]*models.BalanceEntry, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.AccountRepository().GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, ErrNotFound
	}

	if limit <= 0 {
		limit = s.cfg.PageSize
	}

	entries, err := uow.BalanceHistoryRepository().GetByAccount(ctx, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list balance history: %w", err)
	}

	return entries, nil
}
