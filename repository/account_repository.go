package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"bookie/database"
	"bookie/models"
	"bookie/service"
)

// AccountRepository implements the service.AccountRepository interface
type AccountRepository struct {
	q queryable
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{q: db.Pool}
}

// newAccountRepositoryWithTx creates a new account repository with a transaction
func newAccountRepositoryWithTx(tx queryable) *AccountRepository {
	return &AccountRepository{q: tx}
}

const accountColumns = `
	id, username, balance::text, total_wagered::text, total_won::text, created_at, updated_at
`

func scanAccount(row pgx.Row) (*models.Account, error) {
	var account models.Account
	var balanceStr, wageredStr, wonStr string

	err := row.Scan(
		&account.ID,
		&account.Username,
		&balanceStr,
		&wageredStr,
		&wonStr,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if account.Balance, err = scanDecimal(balanceStr); err != nil {
		return nil, err
	}
	if account.TotalWagered, err = scanDecimal(wageredStr); err != nil {
		return nil, err
	}
	if account.TotalWon, err = scanDecimal(wonStr); err != nil {
		return nil, err
	}

	return &account, nil
}

// GetByID retrieves an account by its ID
func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	account, err := scanAccount(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", id, translateError(err))
	}

	return account, nil
}

// GetByIDForUpdate retrieves an account and locks its row for the rest of
// the surrounding transaction. Two concurrent placements against the same
// account serialize here.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`

	account, err := scanAccount(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock account %s: %w", id, translateError(err))
	}

	return account, nil
}

// Create creates a new account with the initial balance. Returns
// nil, nil when another transaction provisioned the same id first; the
// caller re-reads the winning row instead of failing.
func (r *AccountRepository) Create(ctx context.Context, id uuid.UUID, username string, initialBalance decimal.Decimal) (*models.Account, error) {
	query := `
		INSERT INTO accounts (id, username, balance)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING
		RETURNING ` + accountColumns

	account, err := scanAccount(r.q.QueryRow(ctx, query, id, username, initialBalance.String()))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create account %s: %w", id, translateError(err))
	}

	return account, nil
}

// DebitStake deducts a stake from the balance and adds it to the lifetime
// wagered total. The WHERE guard keeps the balance from going negative
// even if the caller's balance check raced a concurrent debit.
func (r *AccountRepository) DebitStake(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return service.ErrInvalidStake
	}

	query := `
		UPDATE accounts
		SET balance = balance - $1,
		    total_wagered = total_wagered + $1,
		    updated_at = NOW()
		WHERE id = $2 AND balance >= $1
	`

	result, err := r.q.Exec(ctx, query, amount.String(), id)
	if err != nil {
		return fmt.Errorf("failed to debit account %s: %w", id, translateError(err))
	}

	if result.RowsAffected() == 0 {
		// Distinguish a missing account from an uncovered stake
		account, err := r.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to check account: %w", err)
		}
		if account == nil {
			return fmt.Errorf("account %s: %w", id, service.ErrNotFound)
		}
		return fmt.Errorf("have %s, need %s: %w", account.Balance, amount, service.ErrInsufficientBalance)
	}

	return nil
}

// CreditPayout credits a winning payout and adds it to the lifetime won total
func (r *AccountRepository) CreditPayout(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("payout amount must be positive")
	}

	query := `
		UPDATE accounts
		SET balance = balance + $1,
		    total_won = total_won + $1,
		    updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.q.Exec(ctx, query, amount.String(), id)
	if err != nil {
		return fmt.Errorf("failed to credit payout to account %s: %w", id, translateError(err))
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("account %s: %w", id, service.ErrNotFound)
	}

	return nil
}

// CreditRefund returns a voided stake to the balance and backs it out of
// total_wagered; a refunded bet never happened as far as stats go.
// total_won is never touched.
func (r *AccountRepository) CreditRefund(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("refund amount must be positive")
	}

	query := `
		UPDATE accounts
		SET balance = balance + $1,
		    total_wagered = total_wagered - $1,
		    updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.q.Exec(ctx, query, amount.String(), id)
	if err != nil {
		return fmt.Errorf("failed to refund account %s: %w", id, translateError(err))
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("account %s: %w", id, service.ErrNotFound)
	}

	return nil
}
