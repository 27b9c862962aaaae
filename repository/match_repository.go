package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"bookie/database"
	"bookie/models"
	"bookie/service"
)

// MatchRepository implements the service.MatchRepository interface
type MatchRepository struct {
	q queryable
}

// NewMatchRepository creates a new match repository
func NewMatchRepository(db *database.DB) *MatchRepository {
	return &MatchRepository{q: db.Pool}
}

// newMatchRepositoryWithTx creates a new match repository with a transaction
func newMatchRepositoryWithTx(tx queryable) *MatchRepository {
	return &MatchRepository{q: tx}
}

const matchColumns = `
	id, team1_id, team2_id, game_id, tournament_id, scheduled_at, status,
	team1_score, team2_score, winner_team_id, format, created_at, updated_at
`

func scanMatch(row pgx.Row) (*models.Match, error) {
	var match models.Match

	err := row.Scan(
		&match.ID,
		&match.Team1ID,
		&match.Team2ID,
		&match.GameID,
		&match.TournamentID,
		&match.ScheduledAt,
		&match.Status,
		&match.Team1Score,
		&match.Team2Score,
		&match.WinnerTeamID,
		&match.Format,
		&match.CreatedAt,
		&match.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &match, nil
}

// Create inserts a new match in scheduled state
func (r *MatchRepository) Create(ctx context.Context, match *models.Match) error {
	query := `
		INSERT INTO matches (team1_id, team2_id, game_id, tournament_id, scheduled_at, status, format)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		match.Team1ID,
		match.Team2ID,
		match.GameID,
		match.TournamentID,
		match.ScheduledAt,
		models.MatchStatusScheduled,
		match.Format,
	).Scan(&match.ID, &match.CreatedAt, &match.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create match: %w", translateError(err))
	}

	match.Status = models.MatchStatusScheduled
	return nil
}

// GetByID retrieves a match by its ID
func (r *MatchRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	match, err := scanMatch(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match %s: %w", id, translateError(err))
	}

	return match, nil
}

// GetByIDForUpdate retrieves a match and locks its row for the rest of the
// surrounding transaction. Settlement takes this lock first; a concurrent
// settlement or cancellation of the same match waits here.
func (r *MatchRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1 FOR UPDATE`

	match, err := scanMatch(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock match %s: %w", id, translateError(err))
	}

	return match, nil
}

// GetByIDForShare retrieves a match under a share lock held until the
// surrounding transaction ends. Placement reads the match this way so
// it conflicts with settlement's exclusive lock: a placement either
// commits before settlement sweeps pending bets, or waits and then sees
// the terminal status.
func (r *MatchRepository) GetByIDForShare(ctx context.Context, id uuid.UUID) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1 FOR SHARE`

	match, err := scanMatch(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to share-lock match %s: %w", id, translateError(err))
	}

	return match, nil
}

// Update persists metadata edits to a non-terminal match. Settlement
// fields (status, winner, scores) go through the Mark* methods instead.
func (r *MatchRepository) Update(ctx context.Context, match *models.Match) error {
	query := `
		UPDATE matches
		SET team1_id = $1, team2_id = $2, game_id = $3, tournament_id = $4,
		    scheduled_at = $5, format = $6, updated_at = NOW()
		WHERE id = $7 AND status NOT IN ('completed', 'cancelled')
	`

	tag, err := r.q.Exec(ctx, query,
		match.Team1ID,
		match.Team2ID,
		match.GameID,
		match.TournamentID,
		match.ScheduledAt,
		match.Format,
		match.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update match %s: %w", match.ID, translateError(err))
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("match %s is terminal or missing: %w", match.ID, service.ErrAlreadySettled)
	}

	return nil
}

// MarkLive transitions a scheduled match to live
func (r *MatchRepository) MarkLive(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE matches
		SET status = 'live', updated_at = NOW()
		WHERE id = $1 AND status = 'scheduled'
	`

	tag, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark match %s live: %w", id, translateError(err))
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("match %s is not scheduled", id)
	}

	return nil
}

// MarkCompleted records the terminal completed state with winner and scores
func (r *MatchRepository) MarkCompleted(ctx context.Context, id uuid.UUID, winnerTeamID uuid.UUID, team1Score, team2Score int) error {
	query := `
		UPDATE matches
		SET status = 'completed', winner_team_id = $1, team1_score = $2,
		    team2_score = $3, updated_at = NOW()
		WHERE id = $4 AND status IN ('scheduled', 'live')
	`

	tag, err := r.q.Exec(ctx, query, winnerTeamID, team1Score, team2Score, id)
	if err != nil {
		return fmt.Errorf("failed to complete match %s: %w", id, translateError(err))
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("match %s: %w", id, service.ErrAlreadySettled)
	}

	return nil
}

// MarkCancelled records the terminal cancelled state
func (r *MatchRepository) MarkCancelled(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE matches
		SET status = 'cancelled', updated_at = NOW()
		WHERE id = $1 AND status IN ('scheduled', 'live')
	`

	tag, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to cancel match %s: %w", id, translateError(err))
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("match %s: %w", id, service.ErrAlreadySettled)
	}

	return nil
}

// List returns a page of matches ordered by scheduled time descending,
// along with the total match count
func (r *MatchRepository) List(ctx context.Context, limit, offset int) ([]*models.Match, int, error) {
	query := `
		SELECT ` + matchColumns + `, COUNT(*) OVER() AS total
		FROM matches
		ORDER BY scheduled_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list matches: %w", translateError(err))
	}
	defer rows.Close()

	var matches []*models.Match
	var total int
	for rows.Next() {
		var match models.Match
		err := rows.Scan(
			&match.ID,
			&match.Team1ID,
			&match.Team2ID,
			&match.GameID,
			&match.TournamentID,
			&match.ScheduledAt,
			&match.Status,
			&match.Team1Score,
			&match.Team2Score,
			&match.WinnerTeamID,
			&match.Format,
			&match.CreatedAt,
			&match.UpdatedAt,
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, &match)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate matches: %w", err)
	}

	return matches, total, nil
}

// ListBettable returns all matches currently open for betting
func (r *MatchRepository) ListBettable(ctx context.Context) ([]*models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE status = 'scheduled'
		ORDER BY scheduled_at
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list bettable matches: %w", translateError(err))
	}
	defer rows.Close()

	return collectMatches(rows)
}

// ListScheduledBefore returns scheduled matches whose start time has passed
func (r *MatchRepository) ListScheduledBefore(ctx context.Context, cutoff time.Time) ([]*models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE status = 'scheduled' AND scheduled_at <= $1
		ORDER BY scheduled_at
	`

	rows, err := r.q.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list due matches: %w", translateError(err))
	}
	defer rows.Close()

	return collectMatches(rows)
}

func collectMatches(rows pgx.Rows) ([]*models.Match, error) {
	var matches []*models.Match
	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, match)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate matches: %w", err)
	}

	return matches, nil
}
