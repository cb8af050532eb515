package ledger

import (
	"context"
	"time"
)

// Repository defines persistence for expenses, income and salary records.
type Repository interface {
	CreateExpense(ctx context.Context, e *Expense) error
	CreateSalaryRecord(ctx context.Context, rec *SalaryRecord) error
	// PostSalary writes the expense and the salary record in one transaction.
	// Neither row is stored when either insert fails.
	PostSalary(ctx context.Context, e *Expense, rec *SalaryRecord) error

	// SalaryExpenseExistsForMonth reports whether any staff_salary expense was booked for ym.
	SalaryExpenseExistsForMonth(ctx context.Context, ym YearMonth) (bool, error)
	SalaryRecordExists(ctx context.Context, staffID int64, ym YearMonth) (bool, error)
	ListSalaryRecordsByMonth(ctx context.Context, ym YearMonth) ([]*SalaryRecord, error)

	// MonthlyTotals returns one entry per month in [from, to) that has any income or expense.
	MonthlyTotals(ctx context.Context, from, to time.Time) ([]MonthlyTotals, error)
	ExpenseTotalsByType(ctx context.Context, from, to time.Time) ([]TypeTotal, error)
}
