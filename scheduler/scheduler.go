package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"bookie/service"
)

// Scheduler runs the periodic background jobs of the wagering core.
// Currently one job: closing the betting window of matches whose
// scheduled start time has passed.
type Scheduler struct {
	cron    *cron.Cron
	matches service.MatchService
}

// New creates a scheduler over the given match service
func New(matches service.MatchService) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		matches: matches,
	}
}

// Start registers the jobs and begins the cron loop
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("* * * * *", s.sweepDueMatches)
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Info("Scheduler started")
	return nil
}

// Stop halts the cron loop, waiting for a running job to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Scheduler stopped")
}

func (s *Scheduler) sweepDueMatches() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := s.matches.MarkLiveDue(ctx, time.Now())
	if err != nil {
		log.WithError(err).Error("Failed to sweep due matches")
		return
	}
	if count > 0 {
		log.WithField("count", count).Debug("Due match sweep finished")
	}
}
