package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"bookie/database"
	"bookie/models"
)

// OddsRepository implements the service.OddsRepository interface
type OddsRepository struct {
	q queryable
}

// NewOddsRepository creates a new odds repository
func NewOddsRepository(db *database.DB) *OddsRepository {
	return &OddsRepository{q: db.Pool}
}

// newOddsRepositoryWithTx creates a new odds repository with a transaction
func newOddsRepositoryWithTx(tx queryable) *OddsRepository {
	return &OddsRepository{q: tx}
}

func scanQuote(row pgx.Row) (*models.OddsQuote, error) {
	var quote models.OddsQuote
	var oddsStr string

	err := row.Scan(&quote.MatchID, &quote.TeamID, &oddsStr, &quote.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if quote.Odds, err = scanDecimal(oddsStr); err != nil {
		return nil, err
	}

	return &quote, nil
}

// GetQuote retrieves the quote for a (match, team) pair
func (r *OddsRepository) GetQuote(ctx context.Context, matchID, teamID uuid.UUID) (*models.OddsQuote, error) {
	query := `
		SELECT match_id, team_id, odds::text, updated_at
		FROM odds_quotes
		WHERE match_id = $1 AND team_id = $2
	`

	quote, err := scanQuote(r.q.QueryRow(ctx, query, matchID, teamID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get quote for match %s team %s: %w", matchID, teamID, translateError(err))
	}

	return quote, nil
}

// Upsert overwrites the stored quote for a (match, team) pair. Bets hold
// their own odds snapshot, so this never rewrites placed bets.
func (r *OddsRepository) Upsert(ctx context.Context, quote *models.OddsQuote) error {
	query := `
		INSERT INTO odds_quotes (match_id, team_id, odds)
		VALUES ($1, $2, $3)
		ON CONFLICT (match_id, team_id)
		DO UPDATE SET odds = EXCLUDED.odds, updated_at = NOW()
		RETURNING updated_at
	`

	err := r.q.QueryRow(ctx, query, quote.MatchID, quote.TeamID, quote.Odds.String()).Scan(&quote.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert quote for match %s team %s: %w", quote.MatchID, quote.TeamID, translateError(err))
	}

	return nil
}

// ForMatch returns both quotes of a match
func (r *OddsRepository) ForMatch(ctx context.Context, matchID uuid.UUID) ([]*models.OddsQuote, error) {
	query := `
		SELECT match_id, team_id, odds::text, updated_at
		FROM odds_quotes
		WHERE match_id = $1
	`

	rows, err := r.q.Query(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get quotes for match %s: %w", matchID, translateError(err))
	}
	defer rows.Close()

	var quotes []*models.OddsQuote
	for rows.Next() {
		quote, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quote: %w", err)
		}
		quotes = append(quotes, quote)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate quotes: %w", err)
	}

	return quotes, nil
}
