// internal/app/reconciliation_service.go
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"training_center_ledger/internal/domain/ledger"
	"training_center_ledger/internal/domain/lock"

	"github.com/sirupsen/logrus"
)

// ErrReconciliationBusy is returned when another pass holds the in-process or store lock.
var ErrReconciliationBusy = fmt.Errorf("reconciliation already running")

// ReconciliationReport collects the outcome of one RunDue/Reconcile call.
type ReconciliationReport struct {
	Payroll        *PayrollResult // nil when payroll was not due or not run
	PayrollErr     error
	Notifier       *NotifierResult
	NotifierErr    error
	PayrollSkipped string // reason payroll did not run, empty when it ran
}

// ReconciliationService is the single entry point that brings derived ledger rows
// up to date: monthly payroll and training-expiry notifications.
type ReconciliationService struct {
	payroll  *PayrollGenerator
	notifier *TrainingNotifier
	locker   lock.Locker // Optional, nil limits serialization to this process
	logger   *logrus.Entry
	timeout  time.Duration

	mu sync.Mutex
}

func NewReconciliationService(
	payroll *PayrollGenerator,
	notifier *TrainingNotifier,
	locker lock.Locker,
	logger *logrus.Entry,
	timeout time.Duration,
) *ReconciliationService {
	return &ReconciliationService{
		payroll:  payroll,
		notifier: notifier,
		locker:   locker,
		logger:   logger,
		timeout:  timeout,
	}
}

// RunDue runs every job that is due at now. It never fails: problems are logged so that
// whatever triggered the run is not affected by them.
func (s *ReconciliationService) RunDue(ctx context.Context, now time.Time) {
	report, err := s.Reconcile(ctx, now, false)
	if err != nil {
		s.logger.WithError(err).Warn("Reconciliation pass not run")
		return
	}
	if report.PayrollErr != nil {
		s.logger.WithError(report.PayrollErr).Error("Payroll generation aborted, will retry on next trigger")
	}
	if report.NotifierErr != nil {
		s.logger.WithError(report.NotifierErr).Error("Training notifier aborted, will retry on next trigger")
	}
}

// Reconcile runs the notifier and, when due or forced, the payroll generator.
// Concurrent calls do not wait: all but the first return ErrReconciliationBusy.
func (s *ReconciliationService) Reconcile(ctx context.Context, now time.Time, forcePayroll bool) (*ReconciliationReport, error) {
	if !s.mu.TryLock() {
		return nil, ErrReconciliationBusy
	}
	defer s.mu.Unlock()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	report := &ReconciliationReport{}
	s.logger.WithFields(logrus.Fields{
		"now":           now.Format(time.RFC3339),
		"force_payroll": forcePayroll,
	}).Info("Reconciliation pass started")

	if forcePayroll || s.payroll.IsDue(now) {
		key := "payroll:" + ledger.YearMonthOf(now).String()
		err := s.withLock(ctx, key, func(ctx context.Context) error {
			res, err := s.payroll.Generate(ctx, now)
			report.Payroll = &res
			return err
		})
		if errors.Is(err, ErrReconciliationBusy) {
			report.PayrollSkipped = "another process is generating payroll"
		} else {
			report.PayrollErr = err
		}
	} else {
		report.PayrollSkipped = fmt.Sprintf("payroll runs on day %d of the month", s.payroll.payrollDay)
	}

	key := "training-notifier:" + now.Format("2006-01-02")
	err := s.withLock(ctx, key, func(ctx context.Context) error {
		res, err := s.notifier.Notify(ctx, now)
		report.Notifier = &res
		return err
	})
	if !errors.Is(err, ErrReconciliationBusy) {
		report.NotifierErr = err
	}

	s.logger.Info("Reconciliation pass finished")
	return report, nil
}

// withLock runs fn while holding the store lock key. It returns ErrReconciliationBusy
// when the lock is held elsewhere.
func (s *ReconciliationService) withLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	if s.locker == nil {
		return fn(ctx)
	}
	release, ok, err := s.locker.TryLock(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to lock %s: %w", key, err)
	}
	if !ok {
		s.logger.WithField("lock_key", key).Info("Job is running elsewhere, skipping")
		return ErrReconciliationBusy
	}
	defer release()
	return fn(ctx)
}
