package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Runner is the reconciliation entry point the scheduler triggers.
type Runner interface {
	RunDue(ctx context.Context, now time.Time)
}

type ReconciliationScheduler struct {
	cronEngine *cron.Cron
	runner     Runner
	logger     *logrus.Entry
	cronSpec   string // e.g., "0 7 * * *" (07:00 daily)
	location   *time.Location
	now        func() time.Time
}

func NewReconciliationScheduler(runner Runner, logger *logrus.Entry, cronSpec string, loc *time.Location) *ReconciliationScheduler {
	if loc == nil {
		loc = time.Local
	}
	return &ReconciliationScheduler{
		cronEngine: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(logger))),
		),
		runner:   runner,
		logger:   logger,
		cronSpec: cronSpec,
		location: loc,
		now:      time.Now,
	}
}

// Start registers the reconciliation job and starts the cron engine.
func (s *ReconciliationScheduler) Start() error {
	s.logger.WithField("cron_spec", s.cronSpec).Info("Starting reconciliation scheduler...")

	_, err := s.cronEngine.AddFunc(s.cronSpec, func() {
		s.logger.Info("Cron job triggered for reconciliation.")
		s.RunNow()
	})
	if err != nil {
		return fmt.Errorf("could not add reconciliation cron job %q: %w", s.cronSpec, err)
	}

	s.cronEngine.Start()
	s.logger.Info("Reconciliation scheduler started.")
	return nil
}

// RunNow runs a reconciliation pass synchronously with the scheduler's clock.
func (s *ReconciliationScheduler) RunNow() {
	s.runner.RunDue(context.Background(), s.now().In(s.location))
}

func (s *ReconciliationScheduler) Stop() {
	s.logger.Info("Stopping reconciliation scheduler...")
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()
	s.logger.Info("Reconciliation scheduler gracefully stopped.")
}
