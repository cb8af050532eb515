package app

import (
	"context"
	"fmt"
	"time"

	"training_center_ledger/internal/domain/ledger"

	"github.com/shopspring/decimal"
)

// QuarterTotals aggregates three consecutive months.
type QuarterTotals struct {
	Quarter int // 1..4
	Income  decimal.Decimal
	Expense decimal.Decimal
}

func (q QuarterTotals) Net() decimal.Decimal {
	return q.Income.Sub(q.Expense)
}

// ReportService produces the income/expense aggregates shown on finance dashboards.
type ReportService struct {
	ledgerRepo ledger.Repository
	location   *time.Location
}

func NewReportService(lr ledger.Repository, loc *time.Location) *ReportService {
	if loc == nil {
		loc = time.Local
	}
	return &ReportService{ledgerRepo: lr, location: loc}
}

// MonthlySummary returns all twelve months of year in order. Months without
// ledger activity are present with zero totals.
func (s *ReportService) MonthlySummary(ctx context.Context, year int) ([]ledger.MonthlyTotals, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, s.location)
	to := from.AddDate(1, 0, 0)

	rows, err := s.ledgerRepo.MonthlyTotals(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load monthly totals for %d: %w", year, err)
	}
	byMonth := make(map[ledger.YearMonth]ledger.MonthlyTotals, len(rows))
	for _, r := range rows {
		byMonth[r.Month] = r
	}

	months := make([]ledger.MonthlyTotals, 12)
	for i := range months {
		ym := ledger.YearMonthOf(from.AddDate(0, i, 0))
		if r, ok := byMonth[ym]; ok {
			months[i] = r
			continue
		}
		months[i] = ledger.MonthlyTotals{Month: ym, Income: decimal.Zero, Expense: decimal.Zero}
	}
	return months, nil
}

func (s *ReportService) QuarterlySummary(ctx context.Context, year int) ([]QuarterTotals, error) {
	months, err := s.MonthlySummary(ctx, year)
	if err != nil {
		return nil, err
	}
	quarters := make([]QuarterTotals, 4)
	for i := range quarters {
		quarters[i] = QuarterTotals{Quarter: i + 1, Income: decimal.Zero, Expense: decimal.Zero}
	}
	for i, m := range months {
		q := &quarters[i/3]
		q.Income = q.Income.Add(m.Income)
		q.Expense = q.Expense.Add(m.Expense)
	}
	return quarters, nil
}

// ExpenseBreakdown totals expenses per type for dates in [from, to).
func (s *ReportService) ExpenseBreakdown(ctx context.Context, from, to time.Time) ([]ledger.TypeTotal, error) {
	if !to.After(from) {
		return nil, fmt.Errorf("invalid range: %s is not before %s", from.Format("2006-01-02"), to.Format("2006-01-02"))
	}
	totals, err := s.ledgerRepo.ExpenseTotalsByType(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load expense breakdown: %w", err)
	}
	return totals, nil
}

// YearExpenseBreakdown totals expenses per type for the calendar year.
func (s *ReportService) YearExpenseBreakdown(ctx context.Context, year int) ([]ledger.TypeTotal, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, s.location)
	return s.ExpenseBreakdown(ctx, from, from.AddDate(1, 0, 0))
}

// SalaryRecords lists the salary records booked for month, ordered by staff.
func (s *ReportService) SalaryRecords(ctx context.Context, month ledger.YearMonth) ([]*ledger.SalaryRecord, error) {
	records, err := s.ledgerRepo.ListSalaryRecordsByMonth(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("failed to load salary records for %s: %w", month, err)
	}
	return records, nil
}
