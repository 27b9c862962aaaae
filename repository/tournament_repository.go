package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"bookie/database"
	"bookie/models"
)

// TournamentRepository implements the service.TournamentRepository interface
type TournamentRepository struct {
	q queryable
}

// NewTournamentRepository creates a new tournament repository
func NewTournamentRepository(db *database.DB) *TournamentRepository {
	return &TournamentRepository{q: db.Pool}
}

// newTournamentRepositoryWithTx creates a new tournament repository with a transaction
func newTournamentRepositoryWithTx(tx queryable) *TournamentRepository {
	return &TournamentRepository{q: tx}
}

// Create inserts a new tournament
func (r *TournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments (name, game_id, location, prize_pool, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, status, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		t.Name,
		t.GameID,
		t.Location,
		t.PrizePool.String(),
		t.StartTime,
		t.EndTime,
	).Scan(&t.ID, &t.Status, &t.CreatedAt, &t.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create tournament %q: %w", t.Name, translateError(err))
	}

	return nil
}

// GetByID retrieves a tournament by its ID
func (r *TournamentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Tournament, error) {
	query := `
		SELECT id, name, game_id, location, prize_pool::text, start_time,
		       end_time, status, created_at, updated_at
		FROM tournaments
		WHERE id = $1
	`

	var t models.Tournament
	var prizeStr string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&t.ID,
		&t.Name,
		&t.GameID,
		&t.Location,
		&prizeStr,
		&t.StartTime,
		&t.EndTime,
		&t.Status,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tournament %s: %w", id, translateError(err))
	}

	if t.PrizePool, err = scanDecimal(prizeStr); err != nil {
		return nil, err
	}

	return &t, nil
}

// CompletedMatchTallies returns per-team win/loss counts over the completed
// matches of a tournament. A team appears once per side it played; both
// sides of every completed match are unpivoted before aggregation so the
// result does not depend on row insertion order.
func (r *TournamentRepository) CompletedMatchTallies(ctx context.Context, tournamentID uuid.UUID) ([]*models.Standing, error) {
	query := `
		WITH sides AS (
			SELECT team1_id AS team_id,
			       (winner_team_id = team1_id)::int AS win
			FROM matches
			WHERE tournament_id = $1 AND status = 'completed'
			UNION ALL
			SELECT team2_id,
			       (winner_team_id = team2_id)::int
			FROM matches
			WHERE tournament_id = $1 AND status = 'completed'
		)
		SELECT t.id, t.name, t.logo_url,
		       COALESCE(SUM(s.win), 0)::int AS wins,
		       (COUNT(*) - COALESCE(SUM(s.win), 0))::int AS losses
		FROM sides s
		JOIN teams t ON t.id = s.team_id
		GROUP BY t.id, t.name, t.logo_url
		ORDER BY wins DESC, t.name ASC
	`

	rows, err := r.q.Query(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to tally tournament %s: %w", tournamentID, translateError(err))
	}
	defer rows.Close()

	var standings []*models.Standing
	for rows.Next() {
		var s models.Standing
		err := rows.Scan(&s.TeamID, &s.TeamName, &s.TeamLogoURL, &s.Wins, &s.Losses)
		if err != nil {
			return nil, fmt.Errorf("failed to scan standing: %w", err)
		}
		standings = append(standings, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate standings: %w", err)
	}

	return standings, nil
}
