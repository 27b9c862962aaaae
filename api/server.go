package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"bookie/config"
	"bookie/metrics"
	"bookie/service"
)

// Server exposes the wagering core over HTTP
type Server struct {
	cfg         *config.Config
	wagers      service.WagerService
	settlements service.SettlementService
	odds        service.OddsService
	standings   service.StandingsService
	accounts    service.AccountService
	matches     service.MatchService
	admin       service.AdminService

	httpServer *http.Server
}

// NewServer creates a new API server
func NewServer(
	cfg *config.Config,
	wagers service.WagerService,
	settlements service.SettlementService,
	odds service.OddsService,
	standings service.StandingsService,
	accounts service.AccountService,
	matches service.MatchService,
	admin service.AdminService,
) *Server {
	return &Server{
		cfg:         cfg,
		wagers:      wagers,
		settlements: settlements,
		odds:        odds,
		standings:   standings,
		accounts:    accounts,
		matches:     matches,
		admin:       admin,
	}
}

// Router builds the HTTP route table
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /bets", s.instrument("/bets", s.placeBet))
	mux.HandleFunc("GET /accounts/{id}/bets", s.instrument("/accounts/{id}/bets", s.listBets))

	mux.HandleFunc("POST /accounts", s.instrument("/accounts", s.createAccount))
	mux.HandleFunc("GET /accounts/{id}", s.instrument("/accounts/{id}", s.getAccount))
	mux.HandleFunc("GET /accounts/{id}/history", s.instrument("/accounts/{id}/history", s.balanceHistory))

	mux.HandleFunc("POST /teams", s.instrument("/teams", s.createTeam))
	mux.HandleFunc("GET /teams", s.instrument("/teams", s.listTeams))
	mux.HandleFunc("POST /games", s.instrument("/games", s.createGame))
	mux.HandleFunc("GET /games", s.instrument("/games", s.listGames))
	mux.HandleFunc("POST /tournaments", s.instrument("/tournaments", s.createTournament))

	mux.HandleFunc("POST /matches", s.instrument("/matches", s.createMatch))
	mux.HandleFunc("GET /matches", s.instrument("/matches", s.listMatches))
	mux.HandleFunc("GET /matches/bettable", s.instrument("/matches/bettable", s.bettableMatches))
	mux.HandleFunc("GET /matches/{id}", s.instrument("/matches/{id}", s.getMatch))
	mux.HandleFunc("PATCH /matches/{id}", s.instrument("/matches/{id}", s.updateMatch))
	mux.HandleFunc("POST /matches/{id}/settle", s.instrument("/matches/{id}/settle", s.settleMatch))
	mux.HandleFunc("POST /matches/{id}/cancel", s.instrument("/matches/{id}/cancel", s.cancelMatch))

	mux.HandleFunc("PUT /matches/{id}/odds", s.instrument("/matches/{id}/odds", s.setOdds))
	mux.HandleFunc("GET /matches/{id}/odds", s.instrument("/matches/{id}/odds", s.getOdds))

	mux.HandleFunc("GET /tournaments/{id}/standings", s.instrument("/tournaments/{id}/standings", s.tournamentStandings))

	return mux
}

// Start begins serving HTTP requests in a background goroutine
func (s *Server) Start() {
	s.httpServer = &http.Server{
		Addr:         ":" + s.cfg.HTTPPort,
		Handler:      s.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.WithField("port", s.cfg.HTTPPort).Info("API server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("API server failed")
		}
	}()
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// instrument wraps a handler with a latency observation
func (s *Server) instrument(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		h(w, r)
		metrics.RequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	}
}

// writeJSON writes a success envelope
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response{Success: true, Data: data}); err != nil {
		log.WithError(err).Error("Failed to encode response")
	}
}

// writeError maps a domain error onto an HTTP status and writes a
// failure envelope
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, service.ErrInsufficientBalance):
		status = http.StatusPaymentRequired
		message = err.Error()
	case errors.Is(err, service.ErrMatchNotBettable),
		errors.Is(err, service.ErrAlreadySettled),
		errors.Is(err, service.ErrBusy):
		status = http.StatusConflict
		message = err.Error()
	case errors.Is(err, service.ErrInvalidStake),
		errors.Is(err, service.ErrInvalidTeam),
		errors.Is(err, service.ErrInvalidOdds),
		errors.Is(err, service.ErrOddsUnavailable):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
		message = err.Error()
	default:
		log.WithError(err).Error("Request failed")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response{Success: false, Message: message})
}

// writeBadRequest writes a failure envelope for malformed input
func writeBadRequest(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(response{Success: false, Message: message})
}
