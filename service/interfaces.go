package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bookie/events"
	"bookie/models"
)

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	// GetByID retrieves an account; returns nil, nil when absent
	GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error)

	// GetByIDForUpdate retrieves an account holding a row lock until the
	// surrounding transaction ends
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Account, error)

	// Create creates a new account with the initial balance; returns
	// nil, nil when a concurrent transaction already provisioned the id
	Create(ctx context.Context, id uuid.UUID, username string, initialBalance decimal.Decimal) (*models.Account, error)

	// DebitStake atomically deducts a stake and bumps the lifetime wagered
	// total, failing with ErrInsufficientBalance when the guard rejects it
	DebitStake(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error

	// CreditPayout atomically credits a winning payout and bumps the
	// lifetime won total
	CreditPayout(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error

	// CreditRefund credits a voided stake back and reverses its
	// total_wagered contribution, leaving total_won untouched
	CreditRefund(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error
}

// BalanceHistoryRepository defines the interface for the balance audit trail
type BalanceHistoryRepository interface {
	// Record creates a new balance history entry
	Record(ctx context.Context, entry *models.BalanceEntry) error

	// GetByAccount returns balance history for a specific account
	GetByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]*models.BalanceEntry, error)
}

// BetRepository defines the interface for bet data access
type BetRepository interface {
	// Create inserts a new bet record
	Create(ctx context.Context, bet *models.Bet) error

	// GetByID retrieves a bet by its ID; returns nil, nil when absent
	GetByID(ctx context.Context, id uuid.UUID) (*models.Bet, error)

	// GetByAccount returns the most recent bets for an account
	GetByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]*models.Bet, error)

	// PendingByMatch returns all pending bets on a match
	PendingByMatch(ctx context.Context, matchID uuid.UUID) ([]*models.Bet, error)

	// Settle transitions one pending bet to settled with a result
	Settle(ctx context.Context, betID uuid.UUID, result models.BetResult, settledAt time.Time) error
}

// MatchRepository defines the interface for match data access
type MatchRepository interface {
	// Create inserts a new match in scheduled state
	Create(ctx context.Context, match *models.Match) error

	// GetByID retrieves a match; returns nil, nil when absent
	GetByID(ctx context.Context, id uuid.UUID) (*models.Match, error)

	// GetByIDForUpdate retrieves a match holding an exclusive row lock
	// until the surrounding transaction ends
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Match, error)

	// GetByIDForShare retrieves a match holding a share lock until the
	// surrounding transaction ends, serializing the read against a
	// concurrent settlement of the same match
	GetByIDForShare(ctx context.Context, id uuid.UUID) (*models.Match, error)

	// Update persists metadata edits to a match
	Update(ctx context.Context, match *models.Match) error

	// MarkLive transitions a scheduled match to live
	MarkLive(ctx context.Context, id uuid.UUID) error

	// MarkCompleted records the terminal completed state with winner and scores
	MarkCompleted(ctx context.Context, id uuid.UUID, winnerTeamID uuid.UUID, team1Score, team2Score int) error

	// MarkCancelled records the terminal cancelled state
	MarkCancelled(ctx context.Context, id uuid.UUID) error

	// List returns a page of matches ordered by scheduled time descending,
	// along with the total match count
	List(ctx context.Context, limit, offset int) ([]*models.Match, int, error)

	// ListBettable returns all matches currently open for betting
	ListBettable(ctx context.Context) ([]*models.Match, error)

	// ListScheduledBefore returns scheduled matches whose start time has passed
	ListScheduledBefore(ctx context.Context, cutoff time.Time) ([]*models.Match, error)
}

// OddsRepository defines the interface for odds quote data access
type OddsRepository interface {
	// GetQuote retrieves the quote for a (match, team) pair; nil, nil when absent
	GetQuote(ctx context.Context, matchID, teamID uuid.UUID) (*models.OddsQuote, error)

	// Upsert overwrites the stored quote for a (match, team) pair
	Upsert(ctx context.Context, quote *models.OddsQuote) error

	// ForMatch returns both quotes of a match
	ForMatch(ctx context.Context, matchID uuid.UUID) ([]*models.OddsQuote, error)
}

// TeamRepository defines the interface for team data access
type TeamRepository interface {
	// Create inserts a new team
	Create(ctx context.Context, team *models.Team) error

	// GetByID retrieves a team; returns nil, nil when absent
	GetByID(ctx context.Context, id uuid.UUID) (*models.Team, error)

	// List returns all teams ordered by name
	List(ctx context.Context) ([]*models.Team, error)
}

// GameRepository defines the interface for game data access
type GameRepository interface {
	// Create inserts a new game
	Create(ctx context.Context, game *models.Game) error

	// GetByID retrieves a game; returns nil, nil when absent
	GetByID(ctx context.Context, id uuid.UUID) (*models.Game, error)

	// List returns all games ordered by name
	List(ctx context.Context) ([]*models.Game, error)
}

// TournamentRepository defines the interface for tournament data access
type TournamentRepository interface {
	// Create inserts a new tournament
	Create(ctx context.Context, tournament *models.Tournament) error

	// GetByID retrieves a tournament; returns nil, nil when absent
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tournament, error)

	// CompletedMatchTallies returns per-team win/loss counts over the
	// completed matches of a tournament, ordered by wins descending then
	// team name ascending
	CompletedMatchTallies(ctx context.Context, tournamentID uuid.UUID) ([]*models.Standing, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	AccountRepository() AccountRepository
	BalanceHistoryRepository() BalanceHistoryRepository
	BetRepository() BetRepository
	GameRepository() GameRepository
	MatchRepository() MatchRepository
	OddsRepository() OddsRepository
	TeamRepository() TeamRepository
	TournamentRepository() TournamentRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create creates a new UnitOfWork instance
	Create() UnitOfWork
}

// WagerService defines the interface for bet placement
type WagerService interface {
	// PlaceBet validates and atomically executes a bet placement
	PlaceBet(ctx context.Context, accountID, matchID, teamID uuid.UUID, stake decimal.Decimal) (*models.BetReceipt, error)

	// BetsForAccount returns the most recent bets of an account
	BetsForAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]*models.Bet, error)
}

// SettlementService defines the interface for match resolution
type SettlementService interface {
	// SettleMatch completes a match and resolves every pending bet on it exactly once
	SettleMatch(ctx context.Context, matchID, winnerTeamID uuid.UUID, team1Score, team2Score int) (*models.SettlementReport, error)

	// CancelMatch cancels a match, void-settling pending bets with a stake refund
	CancelMatch(ctx context.Context, matchID uuid.UUID) (*models.SettlementReport, error)
}

// OddsService defines the interface for the odds book
type OddsService interface {
	// GetQuote returns the current odds for a bettable (match, team) pair
	GetQuote(ctx context.Context, matchID, teamID uuid.UUID) (decimal.Decimal, error)

	// SetQuote overwrites the advertised odds for a (match, team) pair
	SetQuote(ctx context.Context, matchID, teamID uuid.UUID, value decimal.Decimal) error

	// QuotesForMatch returns both sides' quotes of a match
	QuotesForMatch(ctx context.Context, matchID uuid.UUID) ([]*models.OddsQuote, error)
}

// StandingsService defines the interface for tournament rankings
type StandingsService interface {
	// TournamentStandings computes the ranking of a tournament from its
	// completed matches
	TournamentStandings(ctx context.Context, tournamentID uuid.UUID) ([]*models.Standing, error)
}

// AccountService defines the interface for wallet provisioning and reads
type AccountService interface {
	// GetOrCreateAccount retrieves an account or provisions it with the
	// starting balance
	GetOrCreateAccount(ctx context.Context, accountID uuid.UUID, username string) (*models.Account, error)

	// GetAccount retrieves an account's balance and lifetime stats
	GetAccount(ctx context.Context, accountID uuid.UUID) (*models.Account, error)

	// BalanceHistory returns the most recent balance changes of an account
	BalanceHistory(ctx context.Context, accountID uuid.UUID, limit int) ([]*models.BalanceEntry, error)
}

// MatchService defines the interface for match administration
type MatchService interface {
	// CreateMatch creates a scheduled match and seeds both odds quotes
	CreateMatch(ctx context.Context, params CreateMatchParams) (*models.Match, error)

	// UpdateMatch edits match metadata; terminal matches are immutable
	UpdateMatch(ctx context.Context, match *models.Match) error

	// GetMatch retrieves a single match
	GetMatch(ctx context.Context, id uuid.UUID) (*models.Match, error)

	// ListMatches returns one page of matches plus the total count
	ListMatches(ctx context.Context, page int) ([]*models.Match, int, error)

	// BettableMatches returns the matches currently open for betting
	BettableMatches(ctx context.Context) ([]*models.Match, error)

	// MarkLiveDue transitions scheduled matches past their start time to
	// live, returning how many were transitioned
	MarkLiveDue(ctx context.Context, now time.Time) (int, error)
}

// AdminService defines the interface for roster administration: the
// teams, games and tournaments that matches are created against
type AdminService interface {
	// CreateTeam registers a new team
	CreateTeam(ctx context.Context, params CreateTeamParams) (*models.Team, error)

	// ListTeams returns all registered teams ordered by name
	ListTeams(ctx context.Context) ([]*models.Team, error)

	// CreateGame registers a new game title
	CreateGame(ctx context.Context, name, category string) (*models.Game, error)

	// ListGames returns all registered games ordered by name
	ListGames(ctx context.Context) ([]*models.Game, error)

	// CreateTournament registers a new tournament under an existing game
	CreateTournament(ctx context.Context, params CreateTournamentParams) (*models.Tournament, error)
}

// CreateTeamParams carries the validated input of CreateTeam
type CreateTeamParams struct {
	Name        string
	Tag         string
	LogoURL     string
	FoundedYear *int
}

// CreateTournamentParams carries the validated input of CreateTournament
type CreateTournamentParams struct {
	Name      string
	GameID    uuid.UUID
	Location  string
	PrizePool decimal.Decimal
	StartTime *time.Time
	EndTime   *time.Time
}

// CreateMatchParams carries the validated input of CreateMatch
type CreateMatchParams struct {
	Team1ID      uuid.UUID
	Team2ID      uuid.UUID
	GameID       uuid.UUID
	TournamentID *uuid.UUID
	ScheduledAt  time.Time
	Format       string
	OddsTeam1    decimal.Decimal // zero value falls back to the configured default
	OddsTeam2    decimal.Decimal
}
