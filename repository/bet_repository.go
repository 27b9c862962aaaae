package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"bookie/database"
	"bookie/models"
)

// BetRepository implements the service.BetRepository interface
type BetRepository struct {
	q queryable
}

// NewBetRepository creates a new bet repository
func NewBetRepository(db *database.DB) *BetRepository {
	return &BetRepository{q: db.Pool}
}

// newBetRepositoryWithTx creates a new bet repository with a transaction
func newBetRepositoryWithTx(tx queryable) *BetRepository {
	return &BetRepository{q: tx}
}

const betColumns = `
	id, account_id, match_id, team_id, stake::text, odds::text,
	potential_payout::text, status, result, created_at, settled_at
`

func scanBet(row pgx.Row) (*models.Bet, error) {
	var bet models.Bet
	var stakeStr, oddsStr, payoutStr string
	var result *string

	err := row.Scan(
		&bet.ID,
		&bet.AccountID,
		&bet.MatchID,
		&bet.TeamID,
		&stakeStr,
		&oddsStr,
		&payoutStr,
		&bet.Status,
		&result,
		&bet.CreatedAt,
		&bet.SettledAt,
	)
	if err != nil {
		return nil, err
	}

	if bet.Stake, err = scanDecimal(stakeStr); err != nil {
		return nil, err
	}
	if bet.Odds, err = scanDecimal(oddsStr); err != nil {
		return nil, err
	}
	if bet.PotentialPayout, err = scanDecimal(payoutStr); err != nil {
		return nil, err
	}
	if result != nil {
		r := models.BetResult(*result)
		bet.Result = &r
	}

	return &bet, nil
}

// Create inserts a new bet record. The ID and creation timestamp are
// assigned by the database and written back onto the model.
func (r *BetRepository) Create(ctx context.Context, bet *models.Bet) error {
	query := `
		INSERT INTO bets (account_id, match_id, team_id, stake, odds, potential_payout, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		bet.AccountID,
		bet.MatchID,
		bet.TeamID,
		bet.Stake.String(),
		bet.Odds.String(),
		bet.PotentialPayout.String(),
		bet.Status,
	).Scan(&bet.ID, &bet.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create bet for account %s: %w", bet.AccountID, translateError(err))
	}

	return nil
}

// GetByID retrieves a bet by its ID
func (r *BetRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Bet, error) {
	query := `SELECT ` + betColumns + ` FROM bets WHERE id = $1`

	bet, err := scanBet(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bet %s: %w", id, translateError(err))
	}

	return bet, nil
}

// GetByAccount returns the most recent bets for an account
func (r *BetRepository) GetByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]*models.Bet, error) {
	query := `
		SELECT ` + betColumns + `
		FROM bets
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get bets for account %s: %w", accountID, translateError(err))
	}
	defer rows.Close()

	return collectBets(rows)
}

// PendingByMatch returns all pending bets on a match. Called inside the
// settlement transaction after the match row lock is held, so the set is
// fixed for the whole pass.
func (r *BetRepository) PendingByMatch(ctx context.Context, matchID uuid.UUID) ([]*models.Bet, error) {
	query := `
		SELECT ` + betColumns + `
		FROM bets
		WHERE match_id = $1 AND status = 'pending'
		ORDER BY created_at
	`

	rows, err := r.q.Query(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending bets for match %s: %w", matchID, translateError(err))
	}
	defer rows.Close()

	return collectBets(rows)
}

// Settle transitions one pending bet to settled with a result. The status
// guard makes a second settlement of the same bet a no-op at this level.
func (r *BetRepository) Settle(ctx context.Context, betID uuid.UUID, result models.BetResult, settledAt time.Time) error {
	query := `
		UPDATE bets
		SET status = 'settled', result = $1, settled_at = $2
		WHERE id = $3 AND status = 'pending'
	`

	tag, err := r.q.Exec(ctx, query, result, settledAt, betID)
	if err != nil {
		return fmt.Errorf("failed to settle bet %s: %w", betID, translateError(err))
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("bet %s is not pending", betID)
	}

	return nil
}

func collectBets(rows pgx.Rows) ([]*models.Bet, error) {
	var bets []*models.Bet
	for rows.Next() {
		bet, err := scanBet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bet: %w", err)
		}
		bets = append(bets, bet)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bets: %w", err)
	}

	return bets, nil
}
