package ledger

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseType classifies rows of the 'expenses' table.
type ExpenseType string

const (
	ExpenseTypeStaffSalary ExpenseType = "staff_salary"
)

// PaymentStatus is the state of a SalaryRecord.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

// Expense is one outgoing ledger entry.
// StaffID and PeriodMonth are only set for staff_salary rows and form their unique key.
type Expense struct {
	ID          int64
	Type        ExpenseType
	Name        string
	Amount      decimal.Decimal
	ExpenseDate time.Time
	StudentID   sql.NullInt64
	StaffID     sql.NullInt64
	PeriodMonth sql.NullString
	CreatedAt   time.Time
}

// SalaryRecord is the payroll entry of one staff member for one month.
// (StaffID, PaymentMonth) is unique.
type SalaryRecord struct {
	ID            int64
	StaffID       int64
	Amount        decimal.Decimal
	PaymentDate   time.Time
	PaymentMonth  YearMonth
	PaymentStatus PaymentStatus
	Remarks       string
	CreatedAt     time.Time
}

// Income is one incoming ledger entry. Only read by reporting.
type Income struct {
	ID         int64
	Type       string
	Name       string
	Amount     decimal.Decimal
	IncomeDate time.Time
	StudentID  sql.NullInt64
	CreatedAt  time.Time
}

// MonthlyTotals aggregates the ledger for one calendar month.
type MonthlyTotals struct {
	Month   YearMonth
	Income  decimal.Decimal
	Expense decimal.Decimal
}

func (m MonthlyTotals) Net() decimal.Decimal {
	return m.Income.Sub(m.Expense)
}

// TypeTotal is the summed amount of one expense type.
type TypeTotal struct {
	Type   ExpenseType
	Amount decimal.Decimal
	Count  int
}
