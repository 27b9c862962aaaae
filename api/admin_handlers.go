package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bookie/service"
)

func (s *Server) createTeam(w http.ResponseWriter, r *http.Request) {
	var req createTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Name == "" {
		writeBadRequest(w, "name is required")
		return
	}

	team, err := s.admin.CreateTeam(r.Context(), service.CreateTeamParams{
		Name:        req.Name,
		Tag:         req.Tag,
		LogoURL:     req.LogoURL,
		FoundedYear: req.FoundedYear,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTeamResponse(team))
}

func (s *Server) listTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := s.admin.ListTeams(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]teamResponse, 0, len(teams))
	for _, t := range teams {
		resp = append(resp, toTeamResponse(t))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) createGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Name == "" {
		writeBadRequest(w, "name is required")
		return
	}

	game, err := s.admin.CreateGame(r.Context(), req.Name, req.Category)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toGameResponse(game))
}

func (s *Server) listGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.admin.ListGames(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]gameResponse, 0, len(games))
	for _, g := range games {
		resp = append(resp, toGameResponse(g))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) createTournament(w http.ResponseWriter, r *http.Request) {
	var req createTournamentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Name == "" || req.GameID == uuid.Nil {
		writeBadRequest(w, "name and game_id are required")
		return
	}

	params := service.CreateTournamentParams{
		Name:      req.Name,
		GameID:    req.GameID,
		Location:  req.Location,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	if req.PrizePool != "" {
		prizePool, err := decimal.NewFromString(req.PrizePool)
		if err != nil {
			writeBadRequest(w, "invalid prize_pool")
			return
		}
		params.PrizePool = prizePool
	}

	tournament, err := s.admin.CreateTournament(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTournamentResponse(tournament))
}
