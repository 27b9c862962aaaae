package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"bookie/database"
	"bookie/models"
)

// InsertAccount writes an account row with the given balance
func InsertAccount(t *testing.T, db *database.DB, username string, balance decimal.Decimal) uuid.UUID {
	id := uuid.New()
	_, err := db.Exec(context.Background(),
		`INSERT INTO accounts (id, username, balance) VALUES ($1, $2, $3)`,
		id, username, balance.String())
	require.NoError(t, err)
	return id
}

// InsertGame writes a game row
func InsertGame(t *testing.T, db *database.DB, name string) uuid.UUID {
	id := uuid.New()
	_, err := db.Exec(context.Background(),
		`INSERT INTO games (id, name, category) VALUES ($1, $2, 'esports')`,
		id, name)
	require.NoError(t, err)
	return id
}

// InsertTeam writes a team row
func InsertTeam(t *testing.T, db *database.DB, name string) uuid.UUID {
	id := uuid.New()
	_, err := db.Exec(context.Background(),
		`INSERT INTO teams (id, name, tag) VALUES ($1, $2, $3)`,
		id, name, name[:min(3, len(name))])
	require.NoError(t, err)
	return id
}

// InsertTournament writes a tournament row
func InsertTournament(t *testing.T, db *database.DB, name string, gameID uuid.UUID) uuid.UUID {
	id := uuid.New()
	_, err := db.Exec(context.Background(),
		`INSERT INTO tournaments (id, name, game_id) VALUES ($1, $2, $3)`,
		id, name, gameID)
	require.NoError(t, err)
	return id
}

// InsertMatch writes a match row in the given status
func InsertMatch(t *testing.T, db *database.DB, team1, team2, gameID uuid.UUID, tournamentID *uuid.UUID, status models.MatchStatus) uuid.UUID {
	id := uuid.New()
	_, err := db.Exec(context.Background(),
		`INSERT INTO matches (id, team1_id, team2_id, game_id, tournament_id, scheduled_at, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, team1, team2, gameID, tournamentID, time.Now().Add(time.Hour), string(status))
	require.NoError(t, err)
	return id
}

// InsertCompletedMatch writes a completed match with a winner
func InsertCompletedMatch(t *testing.T, db *database.DB, team1, team2, gameID uuid.UUID, tournamentID *uuid.UUID, winner uuid.UUID) uuid.UUID {
	id := uuid.New()
	_, err := db.Exec(context.Background(),
		`INSERT INTO matches (id, team1_id, team2_id, game_id, tournament_id, scheduled_at, status, winner_team_id, team1_score, team2_score)
		 VALUES ($1, $2, $3, $4, $5, $6, 'completed', $7, 2, 1)`,
		id, team1, team2, gameID, tournamentID, time.Now().Add(-time.Hour), winner)
	require.NoError(t, err)
	return id
}

// InsertOddsQuote writes an odds quote row
func InsertOddsQuote(t *testing.T, db *database.DB, matchID, teamID uuid.UUID, odds string) {
	_, err := db.Exec(context.Background(),
		`INSERT INTO odds_quotes (match_id, team_id, odds) VALUES ($1, $2, $3)`,
		matchID, teamID, odds)
	require.NoError(t, err)
}

// InsertPendingBet writes a pending bet row
func InsertPendingBet(t *testing.T, db *database.DB, accountID, matchID, teamID uuid.UUID, stake, odds string) uuid.UUID {
	id := uuid.New()
	stakeDec := decimal.RequireFromString(stake)
	oddsDec := decimal.RequireFromString(odds)
	_, err := db.Exec(context.Background(),
		`INSERT INTO bets (id, account_id, match_id, team_id, stake, odds, potential_payout)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, accountID, matchID, teamID, stakeDec.String(), oddsDec.String(), stakeDec.Mul(oddsDec).String())
	require.NoError(t, err)
	return id
}
