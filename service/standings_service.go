package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"bookie/config"
	"bookie/models"
)

// standingsService implements the StandingsService interface
type standingsService struct {
	uowFactory UnitOfWorkFactory
	cfg        *config.Config
}

// NewStandingsService creates a new standings service
func NewStandingsService(uowFactory UnitOfWorkFactory, cfg *config.Config) StandingsService {
	return &standingsService{
		uowFactory: uowFactory,
		cfg:        cfg,
	}
}

// TournamentStandings derives the ranking of a tournament from its
// completed matches. Only completed matches count; live, scheduled and
// cancelled matches contribute nothing.
func (s *standingsService) TournamentStandings(ctx context.Context, tournamentID uuid.UUID) ([]*models.Standing, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	tournament, err := uow.TournamentRepository().GetByID(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tournament: %w", err)
	}
	if tournament == nil {
		return nil, ErrNotFound
	}

	standings, err := uow.TournamentRepository().CompletedMatchTallies(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to tally matches: %w", err)
	}

	for _, st := range standings {
		st.Points = st.Wins * s.cfg.PointsPerWin
	}

	sort.SliceStable(standings, func(i, j int) bool {
		if standings[i].Points != standings[j].Points {
			return standings[i].Points > standings[j].Points
		}
		if standings[i].Wins != standings[j].Wins {
			return standings[i].Wins > standings[j].Wins
		}
		return standings[i].TeamName < standings[j].TeamName
	})

	return standings, nil
}
