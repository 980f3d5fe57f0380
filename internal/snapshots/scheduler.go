package snapshots

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dozer-finance/reward-service/internal/logging"
)

// jobTimeout bounds one scheduled snapshot run.
const jobTimeout = 2 * time.Minute

// Scheduler runs the snapshot jobs on cron schedules for deployments without
// an external cron pinging the HTTP endpoints.
type Scheduler struct {
	service *Service
	log     *logging.Logger
	cron    *cron.Cron

	hourlySpec string
	dailySpec  string
}

// NewScheduler creates a scheduler with the given cron specs. Empty specs
// disable the corresponding cadence.
func NewScheduler(service *Service, hourlySpec, dailySpec string, log *logging.Logger) *Scheduler {
	if log == nil {
		log = logging.NewDefault("snapshot-scheduler")
	}
	return &Scheduler{
		service:    service,
		log:        log,
		cron:       cron.New(),
		hourlySpec: hourlySpec,
		dailySpec:  dailySpec,
	}
}

// Start registers the jobs and begins the cron loop.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.hourlySpec != "" {
		if _, err := s.cron.AddFunc(s.hourlySpec, func() { s.run(ctx, "hourly", s.service.RunHourly) }); err != nil {
			return fmt.Errorf("schedule hourly snapshots: %w", err)
		}
	}
	if s.dailySpec != "" {
		if _, err := s.cron.AddFunc(s.dailySpec, func() { s.run(ctx, "daily", s.service.RunDaily) }); err != nil {
			return fmt.Errorf("schedule daily snapshots: %w", err)
		}
	}

	s.cron.Start()
	s.log.WithField("hourly", s.hourlySpec).
		WithField("daily", s.dailySpec).
		Info("snapshot scheduler started")
	return nil
}

// Stop halts the cron loop, waiting for a running job up to ctx's deadline.
func (s *Scheduler) Stop(ctx context.Context) error {
	stopped := s.cron.Stop()
	select {
	case <-stopped.Done():
		s.log.Info("snapshot scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) run(ctx context.Context, cadence string, job func(context.Context) (int, error)) {
	runCtx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	if _, err := job(runCtx); err != nil {
		s.log.WithError(err).WithField("cadence", cadence).Warn("scheduled snapshot run failed")
	}
}
