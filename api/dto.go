package api

import (
	"time"

	"github.com/google/uuid"

	"bookie/models"
)

// response is the envelope every endpoint answers with
type response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type placeBetRequest struct {
	AccountID uuid.UUID `json:"account_id"`
	MatchID   uuid.UUID `json:"match_id"`
	TeamID    uuid.UUID `json:"team_id"`
	Stake     string    `json:"stake"`
}

type betReceiptResponse struct {
	BetID           uuid.UUID `json:"bet_id"`
	Odds            string    `json:"odds"`
	PotentialPayout string    `json:"potential_payout"`
	NewBalance      string    `json:"new_balance"`
}

type betResponse struct {
	ID              uuid.UUID  `json:"id"`
	MatchID         uuid.UUID  `json:"match_id"`
	TeamID          uuid.UUID  `json:"team_id"`
	Stake           string     `json:"stake"`
	Odds            string     `json:"odds"`
	PotentialPayout string     `json:"potential_payout"`
	Status          string     `json:"status"`
	Result          *string    `json:"result,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	SettledAt       *time.Time `json:"settled_at,omitempty"`
}

func toBetResponse(b *models.Bet) betResponse {
	resp := betResponse{
		ID:              b.ID,
		MatchID:         b.MatchID,
		TeamID:          b.TeamID,
		Stake:           b.Stake.String(),
		Odds:            b.Odds.String(),
		PotentialPayout: b.PotentialPayout.String(),
		Status:          string(b.Status),
		CreatedAt:       b.CreatedAt,
		SettledAt:       b.SettledAt,
	}
	if b.Result != nil {
		result := string(*b.Result)
		resp.Result = &result
	}
	return resp
}

type createAccountRequest struct {
	AccountID uuid.UUID `json:"account_id"`
	Username  string    `json:"username"`
}

type accountResponse struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Balance      string    `json:"balance"`
	TotalWagered string    `json:"total_wagered"`
	TotalWon     string    `json:"total_won"`
	CreatedAt    time.Time `json:"created_at"`
}

func toAccountResponse(a *models.Account) accountResponse {
	return accountResponse{
		ID:           a.ID,
		Username:     a.Username,
		Balance:      a.Balance.String(),
		TotalWagered: a.TotalWagered.String(),
		TotalWon:     a.TotalWon.String(),
		CreatedAt:    a.CreatedAt,
	}
}

type balanceEntryResponse struct {
	BalanceBefore string     `json:"balance_before"`
	BalanceAfter  string     `json:"balance_after"`
	ChangeAmount  string     `json:"change_amount"`
	EntryType     string     `json:"entry_type"`
	RelatedBetID  *uuid.UUID `json:"related_bet_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func toBalanceEntryResponse(e *models.BalanceEntry) balanceEntryResponse {
	return balanceEntryResponse{
		BalanceBefore: e.BalanceBefore.String(),
		BalanceAfter:  e.BalanceAfter.String(),
		ChangeAmount:  e.ChangeAmount.String(),
		EntryType:     string(e.EntryType),
		RelatedBetID:  e.RelatedBetID,
		CreatedAt:     e.CreatedAt,
	}
}

type createTeamRequest struct {
	Name        string `json:"name"`
	Tag         string `json:"tag"`
	LogoURL     string `json:"logo_url"`
	FoundedYear *int   `json:"founded_year,omitempty"`
}

type teamResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Tag         string    `json:"tag"`
	LogoURL     string    `json:"logo_url,omitempty"`
	FoundedYear *int      `json:"founded_year,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func toTeamResponse(t *models.Team) teamResponse {
	return teamResponse{
		ID:          t.ID,
		Name:        t.Name,
		Tag:         t.Tag,
		LogoURL:     t.LogoURL,
		FoundedYear: t.FoundedYear,
		CreatedAt:   t.CreatedAt,
	}
}

type createGameRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

type gameResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Category string    `json:"category,omitempty"`
}

func toGameResponse(g *models.Game) gameResponse {
	return gameResponse{ID: g.ID, Name: g.Name, Category: g.Category}
}

type createTournamentRequest struct {
	Name      string     `json:"name"`
	GameID    uuid.UUID  `json:"game_id"`
	Location  string     `json:"location"`
	PrizePool string     `json:"prize_pool,omitempty"`
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
}

type tournamentResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	GameID    uuid.UUID  `json:"game_id"`
	Location  string     `json:"location,omitempty"`
	PrizePool string     `json:"prize_pool"`
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Status    string     `json:"status"`
}

func toTournamentResponse(t *models.Tournament) tournamentResponse {
	return tournamentResponse{
		ID:        t.ID,
		Name:      t.Name,
		GameID:    t.GameID,
		Location:  t.Location,
		PrizePool: t.PrizePool.String(),
		StartTime: t.StartTime,
		EndTime:   t.EndTime,
		Status:    t.Status,
	}
}

type createMatchRequest struct {
	Team1ID      uuid.UUID  `json:"team1_id"`
	Team2ID      uuid.UUID  `json:"team2_id"`
	GameID       uuid.UUID  `json:"game_id"`
	TournamentID *uuid.UUID `json:"tournament_id,omitempty"`
	ScheduledAt  time.Time  `json:"scheduled_at"`
	Format       string     `json:"format"`
	OddsTeam1    string     `json:"odds_team1,omitempty"`
	OddsTeam2    string     `json:"odds_team2,omitempty"`
}

type updateMatchRequest struct {
	ScheduledAt time.Time `json:"scheduled_at"`
	Format      string    `json:"format"`
}

type matchResponse struct {
	ID           uuid.UUID  `json:"id"`
	Team1ID      uuid.UUID  `json:"team1_id"`
	Team2ID      uuid.UUID  `json:"team2_id"`
	GameID       uuid.UUID  `json:"game_id"`
	TournamentID *uuid.UUID `json:"tournament_id,omitempty"`
	ScheduledAt  time.Time  `json:"scheduled_at"`
	Status       string     `json:"status"`
	Team1Score   *int       `json:"team1_score,omitempty"`
	Team2Score   *int       `json:"team2_score,omitempty"`
	WinnerTeamID *uuid.UUID `json:"winner_team_id,omitempty"`
	Format       string     `json:"format"`
}

func toMatchResponse(m *models.Match) matchResponse {
	return matchResponse{
		ID:           m.ID,
		Team1ID:      m.Team1ID,
		Team2ID:      m.Team2ID,
		GameID:       m.GameID,
		TournamentID: m.TournamentID,
		ScheduledAt:  m.ScheduledAt,
		Status:       string(m.Status),
		Team1Score:   m.Team1Score,
		Team2Score:   m.Team2Score,
		WinnerTeamID: m.WinnerTeamID,
		Format:       m.Format,
	}
}

type matchPageResponse struct {
	Matches []matchResponse `json:"matches"`
	Page    int             `json:"page"`
	Total   int             `json:"total"`
}

type settleMatchRequest struct {
	WinnerTeamID uuid.UUID `json:"winner_team_id"`
	Team1Score   int       `json:"team1_score"`
	Team2Score   int       `json:"team2_score"`
}

type settlementResponse struct {
	MatchID      uuid.UUID  `json:"match_id"`
	WinnerTeamID *uuid.UUID `json:"winner_team_id,omitempty"`
	SettledBets  int        `json:"settled_bets"`
	WonBets      int        `json:"won_bets"`
	TotalPaidOut string     `json:"total_paid_out"`
}

func toSettlementResponse(r *models.SettlementReport) settlementResponse {
	return settlementResponse{
		MatchID:      r.MatchID,
		WinnerTeamID: r.WinnerTeamID,
		SettledBets:  r.SettledBets,
		WonBets:      r.WonBets,
		TotalPaidOut: r.TotalPaidOut.String(),
	}
}

type setOddsRequest struct {
	TeamID uuid.UUID `json:"team_id"`
	Odds   string    `json:"odds"`
}

type oddsQuoteResponse struct {
	MatchID   uuid.UUID `json:"match_id"`
	TeamID    uuid.UUID `json:"team_id"`
	Odds      string    `json:"odds"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toOddsQuoteResponse(q *models.OddsQuote) oddsQuoteResponse {
	return oddsQuoteResponse{
		MatchID:   q.MatchID,
		TeamID:    q.TeamID,
		Odds:      q.Odds.String(),
		UpdatedAt: q.UpdatedAt,
	}
}

type standingResponse struct {
	TeamID      uuid.UUID `json:"team_id"`
	TeamName    string    `json:"team_name"`
	TeamLogoURL string    `json:"team_logo_url,omitempty"`
	Wins        int       `json:"wins"`
	Losses      int       `json:"losses"`
	Points      int       `json:"points"`
}

func toStandingResponse(s *models.Standing) standingResponse {
	return standingResponse{
		TeamID:      s.TeamID,
		TeamName:    s.TeamName,
		TeamLogoURL: s.TeamLogoURL,
		Wins:        s.Wins,
		Losses:      s.Losses,
		Points:      s.Points,
	}
}
