package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"bookie/database"
	"bookie/events"
	"bookie/service"
)

// unitOfWork implements the service.UnitOfWork interface
type unitOfWork struct {
	db               *database.DB
	tx               pgx.Tx
	ctx              context.Context
	lockTimeoutMs    int
	transactionalBus *events.TransactionalBus
	accountRepo      service.AccountRepository
	balanceRepo      service.BalanceHistoryRepository
	betRepo          service.BetRepository
	gameRepo         service.GameRepository
	matchRepo        service.MatchRepository
	oddsRepo         service.OddsRepository
	teamRepo         service.TeamRepository
	tournamentRepo   service.TournamentRepository
}

type unitOfWorkFactory struct {
	db            *database.DB
	eventBus      *events.Bus
	lockTimeoutMs int
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory. lockTimeoutMs
// bounds how long any transaction waits on a row lock before failing
// with ErrBusy.
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus, lockTimeoutMs int) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:            db,
		eventBus:      eventBus,
		lockTimeoutMs: lockTimeoutMs,
	}
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		lockTimeoutMs:    f.lockTimeoutMs,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Bound lock waits so contended rows surface as ErrBusy instead of
	// hanging the caller
	if u.lockTimeoutMs > 0 {
		if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", u.lockTimeoutMs)); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("failed to set lock timeout: %w", err)
		}
	}

	u.tx = tx
	u.ctx = ctx

	// Create repositories with the transaction
	u.accountRepo = newAccountRepositoryWithTx(tx)
	u.balanceRepo = newBalanceHistoryRepositoryWithTx(tx)
	u.betRepo = newBetRepositoryWithTx(tx)
	u.gameRepo = newGameRepositoryWithTx(tx)
	u.matchRepo = newMatchRepositoryWithTx(tx)
	u.oddsRepo = newOddsRepositoryWithTx(tx)
	u.teamRepo = newTeamRepositoryWithTx(tx)
	u.tournamentRepo = newTournamentRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	err := u.tx.Commit(u.ctx)
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	// Flush pending events after successful commit
	if u.transactionalBus != nil {
		u.transactionalBus.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	// Discard pending events on rollback
	if u.transactionalBus != nil {
		u.transactionalBus.Discard()
	}

	return nil
}

// AccountRepository returns the account repository for this unit of work
func (u *unitOfWork) AccountRepository() service.AccountRepository {
	if u.accountRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.accountRepo
}

// BalanceHistoryRepository returns the balance history repository for this unit of work
func (u *unitOfWork) BalanceHistoryRepository() service.BalanceHistoryRepository {
	if u.balanceRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.balanceRepo
}

// BetRepository returns the bet repository for this unit of work
func (u *unitOfWork) BetRepository() service.BetRepository {
	if u.betRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.betRepo
}

// GameRepository returns the game repository for this unit of work
func (u *unitOfWork) GameRepository() service.GameRepository {
	if u.gameRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.gameRepo
}

// MatchRepository returns the match repository for this unit of work
func (u *unitOfWork) MatchRepository() service.MatchRepository {
	if u.matchRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.matchRepo
}

// OddsRepository returns the odds repository for this unit of work
func (u *unitOfWork) OddsRepository() service.OddsRepository {
	if u.oddsRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.oddsRepo
}

// TeamRepository returns the team repository for this unit of work
func (u *unitOfWork) TeamRepository() service.TeamRepository {
	if u.teamRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.teamRepo
}

// TournamentRepository returns the tournament repository for this unit of work
func (u *unitOfWork) TournamentRepository() service.TournamentRepository {
	if u.tournamentRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.tournamentRepo
}

// EventBus returns the transactional event bus for this unit of work
func (u *unitOfWork) EventBus() service.EventPublisher {
	if u.transactionalBus == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionalBus
}
