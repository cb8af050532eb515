// internal/app/payroll_generator.go
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"training_center_ledger/internal/domain/ledger"
	"training_center_ledger/internal/domain/staff"
	idb "training_center_ledger/internal/infra/database"

	"github.com/sirupsen/logrus"
)

// PayrollResult summarises one payroll pass.
type PayrollResult struct {
	Month    ledger.YearMonth
	Resuming bool // salary expenses for Month already existed before this pass
	Posted   int
	Skipped  int
	Failed   int
}

// PayrollGenerator books the monthly salary of every permanent staff member as a
// pending salary record plus a staff_salary expense.
type PayrollGenerator struct {
	staffRepo  staff.Repository
	ledgerRepo ledger.Repository
	logger     *logrus.Entry
	payrollDay int
}

func NewPayrollGenerator(sr staff.Repository, lr ledger.Repository, logger *logrus.Entry, payrollDay int) *PayrollGenerator {
	if payrollDay < 1 {
		payrollDay = 1
	}
	return &PayrollGenerator{
		staffRepo:  sr,
		ledgerRepo: lr,
		logger:     logger,
		payrollDay: payrollDay,
	}
}

// IsDue reports whether now is the configured payroll day of its month.
func (g *PayrollGenerator) IsDue(now time.Time) bool {
	return now.Day() == g.payrollDay
}

// Generate posts salaries for the month containing now. Staff who already have a
// salary record for that month are skipped, so repeated calls complete a partial run
// and never book a second salary.
//
// An error is returned only when the pass could not start (idempotency check or
// staff listing failed). Failures for single staff members are logged and counted.
func (g *PayrollGenerator) Generate(ctx context.Context, now time.Time) (PayrollResult, error) {
	today := startOfDay(now)
	month := ledger.YearMonthOf(today)
	result := PayrollResult{Month: month}
	log := g.logger.WithField("month", month)

	resuming, err := g.ledgerRepo.SalaryExpenseExistsForMonth(ctx, month)
	if err != nil {
		return result, fmt.Errorf("failed to check salary expenses for %s: %w", month, err)
	}
	result.Resuming = resuming

	members, err := g.staffRepo.ListPermanent(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to list permanent staff: %w", err)
	}
	if resuming {
		log.WithField("staff_count", len(members)).Info("Salary expenses already exist for this month, posting only missing staff")
	} else {
		log.WithField("staff_count", len(members)).Info("Starting payroll run")
	}

	for _, m := range members {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("payroll run for %s interrupted: %w", month, err)
		}
		staffLog := log.WithFields(logrus.Fields{"staff_id": m.ID, "staff_name": m.FullName})

		exists, err := g.ledgerRepo.SalaryRecordExists(ctx, m.ID, month)
		if err != nil {
			staffLog.WithError(err).Error("Failed to check existing salary record")
			result.Failed++
			continue
		}
		if exists {
			staffLog.Debug("Salary already posted, skipping")
			result.Skipped++
			continue
		}

		expense, record := salaryEntries(m, month, today)
		if err := g.ledgerRepo.PostSalary(ctx, expense, record); err != nil {
			if errors.Is(err, idb.ErrDuplicate) {
				staffLog.Info("Salary was posted concurrently, skipping")
				result.Skipped++
				continue
			}
			staffLog.WithError(err).Error("Failed to post salary")
			result.Failed++
			continue
		}
		staffLog.WithFields(logrus.Fields{
			"expense_id":       expense.ID,
			"salary_record_id": record.ID,
			"amount":           m.MonthlySalary.StringFixed(2),
		}).Info("Salary posted")
		result.Posted++
	}

	log.WithFields(logrus.Fields{
		"posted":  result.Posted,
		"skipped": result.Skipped,
		"failed":  result.Failed,
	}).Info("Payroll run finished")
	return result, nil
}

// SalaryExpenseName is the expense name for the salary of fullName for month.
func SalaryExpenseName(fullName string, month ledger.YearMonth) string {
	return fmt.Sprintf("Salary - %s - %s", fullName, month)
}

func salaryEntries(m *staff.Member, month ledger.YearMonth, today time.Time) (*ledger.Expense, *ledger.SalaryRecord) {
	expense := &ledger.Expense{
		Type:        ledger.ExpenseTypeStaffSalary,
		Name:        SalaryExpenseName(m.FullName, month),
		Amount:      m.MonthlySalary,
		ExpenseDate: today,
		StaffID:     sql.NullInt64{Int64: m.ID, Valid: true},
		PeriodMonth: sql.NullString{String: string(month), Valid: true},
	}
	record := &ledger.SalaryRecord{
		StaffID:       m.ID,
		Amount:        m.MonthlySalary,
		PaymentDate:   today,
		PaymentMonth:  month,
		PaymentStatus: ledger.PaymentPending,
		Remarks:       fmt.Sprintf("Auto-generated salary for %s", month),
	}
	return expense, record
}
