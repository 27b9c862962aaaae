package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bookie/metrics"
	"bookie/service"
)

// pathUUID parses the {id} segment of the request path
func pathUUID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(r.PathValue("id"))
}

func (s *Server) placeBet(w http.ResponseWriter, r *http.Request) {
	var req placeBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	stake, err := decimal.NewFromString(req.Stake)
	if err != nil {
		writeBadRequest(w, "invalid stake amount")
		return
	}

	receipt, err := s.wagers.PlaceBet(r.Context(), req.AccountID, req.MatchID, req.TeamID, stake)
	if err != nil {
		metrics.BetsRejected.WithLabelValues(rejectionReason(err)).Inc()
		writeError(w, err)
		return
	}

	metrics.BetsPlaced.Inc()
	writeJSON(w, http.StatusCreated, betReceiptResponse{
		BetID:           receipt.BetID,
		Odds:            receipt.Odds.String(),
		PotentialPayout: receipt.PotentialPayout.String(),
		NewBalance:      receipt.NewBalance.String(),
	})
}

// rejectionReason labels a placement failure for the rejection counter
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, service.ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, service.ErrMatchNotBettable):
		return "match_not_bettable"
	case errors.Is(err, service.ErrInvalidTeam):
		return "invalid_team"
	case errors.Is(err, service.ErrInvalidStake):
		return "invalid_stake"
	case errors.Is(err, service.ErrOddsUnavailable):
		return "odds_unavailable"
	case errors.Is(err, service.ErrBusy):
		return "busy"
	default:
		return "error"
	}
}

func (s *Server) listBets(w http.ResponseWriter, r *http.Request) {
	accountID, err := pathUUID(r)
	if err != nil {
		writeBadRequest(w, "invalid account id")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	bets, err := s.wagers.BetsForAccount(r.Context(), accountID, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]betResponse, 0, len(bets))
	for _, b := range bets {
		resp = append(resp, toBetResponse(b))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) createAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.AccountID == uuid.Nil || req.Username == "" {
		writeBadRequest(w, "account_id and username are required")
		return
	}

	account, err := s.accounts.GetOrCreateAccount(r.Context(), req.AccountID, req.Username)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAccountResponse(account))
}

func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	accountID, err := pathUUID(r)
	if err != nil {
		writeBadRequest(w, "invalid account id")
		return
	}

	account, err := s.accounts.GetAccount(r.Context(), accountID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAccountResponse(account))
}

func (s *Server) balanceHistory(w http.ResponseWriter, r *http.Request) {
	accountID, err := pathUUID(r)
	if err != nil {
		writeBadRequest(w, "invalid account id")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := s.accounts.BalanceHistory(r.Context(), accountID, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]balanceEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, toBalanceEntryResponse(e))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) createMatch(w http.ResponseWriter, r *http.Request) {
	var req createMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Team1ID == uuid.Nil || req.Team2ID == uuid.Nil || req.GameID == uuid.Nil {
		writeBadRequest(w, "team1_id, team2_id and game_id are required")
		return
	}

	params := service.CreateMatchParams{
		Team1ID:      req.Team1ID,
		Team2ID:      req.Team2ID,
		GameID:       req.GameID,
		TournamentID: req.TournamentID,
		ScheduledAt:  req.ScheduledAt,
		Format:       req.Format,
	}
	if req.OddsTeam1 != "" {
		odds, err := decimal.NewFromString(req.OddsTeam1)
		if err != nil {
			writeBadRequest(w, "invalid odds_team1")
			return
		}
		params.OddsTeam1 = odds
	}
	if req.OddsTeam2 != "" {
		odds, err := decimal.NewFromString(req.OddsTeam2)
		if err != nil {
			writeBadRequest(w, "invalid odds_team2")
			return
		}
		params.OddsTeam2 = odds
	}

	match, err := s.matches.CreateMatch(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toMatchResponse(match))
}

func (s *Server) listMatches(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	matches, total, err := s.matches.ListMatches(r.Context(), page)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := matchPageResponse{Page: page, Total: total, Matches: make([]matchResponse, 0, len(matches))}
	for _, m := range matches {
		resp.Matches = append(resp.Matches, toMatchResponse(m))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) bettableMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := s.matches.BettableMatches(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]matchResponse, 0, len(matches))
	for _, m := range matches {
		resp = append(resp, toMatchResponse(m))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := pathUUID(r)
	if err != nil {
		writeBadRequest(w, "invalid match id")
		return
	}

	match, err := s.matches.GetMatch(r.Context(), matchID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toMatchResponse(match))
}

func (s *Server) updateMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := pathUUID(r)
	if err != nil {
		writeBadRequest(w, "invalid match id")
		return
	}

	var req updateMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	match, err := s.matches.GetMatch(r.Context(), matchID)
	if err != nil {
		writeError(w, err)
		return
	}

	if !req.ScheduledAt.IsZero() {
		match.ScheduledAt = req.ScheduledAt
	}
	if req.Format != "" {
		match.Format = req.Format
	}

	if err := s.matches.UpdateMatch(r.Context(), match); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toMatchResponse(match))
}

func (s *Server) settleMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := pathUUID(r)
	if err != nil {
		writeBadRequest(w, "invalid match id")
		return
	}

	var req settleMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.WinnerTeamID == uuid.Nil {
		writeBadRequest(w, "winner_team_id is required")
		return
	}

	report, err := s.settlements.SettleMatch(r.Context(), matchID, req.WinnerTeamID, req.Team1Score, req.Team2Score)
	if err != nil {
		metrics.Settlements.WithLabelValues("failed").Inc()
		writeError(w, err)
		return
	}

	metrics.Settlements.WithLabelValues("completed").Inc()
	paidOut, _ := report.TotalPaidOut.Float64()
	metrics.PaidOut.Add(paidOut)
	writeJSON(w, http.StatusOK, toSettlementResponse(report))
}

func (s *Server) cancelMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := pathUUID(r)
	if err != nil {
		writeBadRequest(w, "invalid match id")
		return
	}

	report, err := s.settlements.CancelMatch(r.Context(), matchID)
	if err != nil {
		metrics.Settlements.WithLabelValues("failed").Inc()
		writeError(w, err)
		return
	}

	metrics.Settlements.WithLabelValues("cancelled").Inc()
	writeJSON(w, http.StatusOK, toSettlementResponse(report))
}

func (s *Server) setOdds(w http.ResponseWriter, r *http.Request) {
	matchID, err := pathUUID(r)
	if err != nil {
		writeBadRequest(w, "invalid match id")
		return
	}

	var req setOddsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	odds, err := decimal.NewFromString(req.Odds)
	if err != nil {
		writeBadRequest(w, "invalid odds value")
		return
	}

	if err := s.odds.SetQuote(r.Context(), matchID, req.TeamID, odds); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, nil)
}

func (s *Server) getOdds(w http.ResponseWriter, r *http.Request) {
	matchID, err := pathUUID(r)
	if err != nil {
		writeBadRequest(w, "invalid match id")
		return
	}

	quotes, err := s.odds.QuotesForMatch(r.Context(), matchID)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]oddsQuoteResponse, 0, len(quotes))
	for _, q := range quotes {
		resp = append(resp, toOddsQuoteResponse(q))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) tournamentStandings(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := pathUUID(r)
	if err != nil {
		writeBadRequest(w, "invalid tournament id")
		return
	}

	standings, err := s.standings.TournamentStandings(r.Context(), tournamentID)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]standingResponse, 0, len(standings))
	for _, st := range standings {
		resp = append(resp, toStandingResponse(st))
	}
	writeJSON(w, http.StatusOK, resp)
}
