package models

import (
	"time"

	"github.com/google/uuid"
)

// MatchStatus represents the lifecycle state of a match
type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "scheduled"
	MatchStatusLive      MatchStatus = "live"
	MatchStatusCompleted MatchStatus = "completed"
	MatchStatusCancelled MatchStatus = "cancelled"
)

// Match represents a contest between two teams in one game
type Match struct {
	ID           uuid.UUID   `db:"id"`
	Team1ID      uuid.UUID   `db:"team1_id"`
	Team2ID      uuid.UUID   `db:"team2_id"`
	GameID       uuid.UUID   `db:"game_id"`
	TournamentID *uuid.UUID  `db:"tournament_id"`
	ScheduledAt  time.Time   `db:"scheduled_at"`
	Status       MatchStatus `db:"status"`
	Team1Score   *int        `db:"team1_score"`
	Team2Score   *int        `db:"team2_score"`
	WinnerTeamID *uuid.UUID  `db:"winner_team_id"`
	Format       string      `db:"format"`
	CreatedAt    time.Time   `db:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at"`
}

// HasTeam checks if a team participates in the match
func (m *Match) HasTeam(teamID uuid.UUID) bool {
	return m.Team1ID == teamID || m.Team2ID == teamID
}

// OpponentOf returns the other side's team ID for a given participant
func (m *Match) OpponentOf(teamID uuid.UUID) uuid.UUID {
	if m.Team1ID == teamID {
		return m.Team2ID
	}
	if m.Team2ID == teamID {
		return m.Team1ID
	}
	return uuid.Nil // Not a participant
}

// IsBettable checks if the match still accepts bets
func (m *Match) IsBettable() bool {
	return m.Status == MatchStatusScheduled
}

// IsTerminal checks if the match reached a final state
func (m *Match) IsTerminal() bool {
	return m.Status == MatchStatusCompleted || m.Status == MatchStatusCancelled
}
