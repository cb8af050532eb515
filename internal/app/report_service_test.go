package app

import (
	"context"
	"testing"
	"time"

	"training_center_ledger/internal/domain/ledger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestReportService_MonthlySummaryFillsGaps(t *testing.T) {
	lr := newMemLedgerRepo()
	lr.totals = []ledger.MonthlyTotals{
		{Month: "2024-02", Income: dec("120000"), Expense: dec("45000")},
		{Month: "2024-06", Income: dec("80000.50"), Expense: dec("90000")},
	}
	svc := NewReportService(lr, time.UTC)

	months, err := svc.MonthlySummary(context.Background(), 2024)
	require.NoError(t, err)
	require.Len(t, months, 12)

	assert.Equal(t, ledger.YearMonth("2024-01"), months[0].Month)
	assert.True(t, months[0].Income.IsZero())
	assert.Equal(t, ledger.YearMonth("2024-02"), months[1].Month)
	assert.True(t, months[1].Net().Equal(dec("75000")))
	assert.True(t, months[5].Net().Equal(dec("-9999.50")))
	assert.Equal(t, ledger.YearMonth("2024-12"), months[11].Month)
}

func TestReportService_QuarterlySummary(t *testing.T) {
	lr := newMemLedgerRepo()
	lr.totals = []ledger.MonthlyTotals{
		{Month: "2024-01", Income: dec("100"), Expense: dec("10")},
		{Month: "2024-03", Income: dec("50"), Expense: dec("20")},
		{Month: "2024-04", Income: dec("5"), Expense: dec("0")},
		{Month: "2024-12", Income: dec("0"), Expense: dec("70")},
	}
	svc := NewReportService(lr, time.UTC)

	quarters, err := svc.QuarterlySummary(context.Background(), 2024)
	require.NoError(t, err)
	require.Len(t, quarters, 4)
	assert.True(t, quarters[0].Income.Equal(dec("150")))
	assert.True(t, quarters[0].Net().Equal(dec("120")))
	assert.True(t, quarters[1].Income.Equal(dec("5")))
	assert.True(t, quarters[2].Net().IsZero())
	assert.True(t, quarters[3].Net().Equal(dec("-70")))
}

func TestReportService_ExpenseBreakdown(t *testing.T) {
	lr := newMemLedgerRepo()
	lr.byType = []ledger.TypeTotal{{Type: ledger.ExpenseTypeStaffSalary, Amount: dec("83000"), Count: 2}}
	svc := NewReportService(lr, time.UTC)
	ctx := context.Background()

	totals, err := svc.ExpenseBreakdown(ctx, day(2024, time.June, 1), day(2024, time.July, 1))
	require.NoError(t, err)
	assert.Equal(t, lr.byType, totals)

	_, err = svc.ExpenseBreakdown(ctx, day(2024, time.July, 1), day(2024, time.June, 1))
	assert.Error(t, err)
}

func TestReportService_YearExpenseBreakdown(t *testing.T) {
	lr := newMemLedgerRepo()
	lr.byType = []ledger.TypeTotal{
		{Type: ledger.ExpenseTypeStaffSalary, Amount: dec("540000"), Count: 12},
		{Type: "utilities", Amount: dec("36000"), Count: 12},
	}
	svc := NewReportService(lr, time.UTC)

	totals, err := svc.YearExpenseBreakdown(context.Background(), 2024)
	require.NoError(t, err)
	assert.Equal(t, lr.byType, totals)
}

func TestReportService_SalaryRecordsAfterPayroll(t *testing.T) {
	payroll, _, lr := newPayrollFixture(
		permanent(2, "K. Fernando", "38000.50"),
		permanent(1, "A. Perera", "45000"),
	)
	_, err := payroll.Generate(context.Background(), day(2024, time.June, 1))
	require.NoError(t, err)
	svc := NewReportService(lr, time.UTC)

	records, err := svc.SalaryRecords(context.Background(), "2024-06")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, int64(1), records[0].StaffID)
	assert.Equal(t, ledger.PaymentPending, records[1].PaymentStatus)

	records, err = svc.SalaryRecords(context.Background(), "2024-07")
	require.NoError(t, err)
	assert.Empty(t, records)
}
