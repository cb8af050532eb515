package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"training_center_ledger/internal/domain/ledger"
)

type PostgresLedgerRepository struct {
	db *sql.DB
}

func NewPostgresLedgerRepository(db *sql.DB) *PostgresLedgerRepository {
	return &PostgresLedgerRepository{db: db}
}

// --- Expense and SalaryRecord writes ---

func (r *PostgresLedgerRepository) CreateExpense(ctx context.Context, e *ledger.Expense) error {
	return insertExpense(ctx, r.db, e)
}

func (r *PostgresLedgerRepository) CreateSalaryRecord(ctx context.Context, rec *ledger.SalaryRecord) error {
	return insertSalaryRecord(ctx, r.db, rec)
}

func (r *PostgresLedgerRepository) PostSalary(ctx context.Context, e *ledger.Expense, rec *ledger.SalaryRecord) error {
	txn, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for salary posting: %w", err)
	}
	defer txn.Rollback() // Rollback if not committed

	if err := insertExpense(ctx, txn, e); err != nil {
		return err
	}
	if err := insertSalaryRecord(ctx, txn, rec); err != nil {
		return err
	}
	if err := txn.Commit(); err != nil {
		return fmt.Errorf("failed to commit salary posting for staff %d: %w", rec.StaffID, err)
	}
	return nil
}

func insertExpense(ctx context.Context, q queryRower, e *ledger.Expense) error {
	query := `INSERT INTO expenses (expense_type, expense_name, amount, expense_date, student_id, staff_id, period_month)
               VALUES ($1, $2, $3, $4::date, $5, $6, $7)
               RETURNING id, created_at`
	err := q.QueryRowContext(ctx, query, e.Type, e.Name, e.Amount, dateParam(e.ExpenseDate), e.StudentID, e.StaffID, e.PeriodMonth).
		Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return wrapInsertError("expense", err)
	}
	return nil
}

func insertSalaryRecord(ctx context.Context, q queryRower, rec *ledger.SalaryRecord) error {
	query := `INSERT INTO salary_records (staff_id, amount, payment_date, payment_month, payment_status, remarks)
               VALUES ($1, $2, $3::date, $4, $5, $6)
               RETURNING id, created_at`
	err := q.QueryRowContext(ctx, query, rec.StaffID, rec.Amount, dateParam(rec.PaymentDate), rec.PaymentMonth, rec.PaymentStatus, rec.Remarks).
		Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return wrapInsertError("salary record", err)
	}
	return nil
}

// --- Idempotency checks ---

// SalaryExpenseExistsForMonth also matches older salary expenses that carry the month only in their name.
func (r *PostgresLedgerRepository) SalaryExpenseExistsForMonth(ctx context.Context, ym ledger.YearMonth) (bool, error) {
	query := `SELECT EXISTS (
                 SELECT 1 FROM expenses
                 WHERE expense_type = $1
                   AND (period_month = $2 OR (period_month IS NULL AND expense_name LIKE '%' || $2 || '%'))
               )`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, ledger.ExpenseTypeStaffSalary, ym).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking salary expenses for %s: %w", ym, err)
	}
	return exists, nil
}

func (r *PostgresLedgerRepository) SalaryRecordExists(ctx context.Context, staffID int64, ym ledger.YearMonth) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM salary_records WHERE staff_id = $1 AND payment_month = $2)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, staffID, ym).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking salary record for staff %d, month %s: %w", staffID, ym, err)
	}
	return exists, nil
}

func (r *PostgresLedgerRepository) ListSalaryRecordsByMonth(ctx context.Context, ym ledger.YearMonth) ([]*ledger.SalaryRecord, error) {
	query := `SELECT id, staff_id, amount, payment_date, payment_month, payment_status, remarks, created_at
               FROM salary_records WHERE payment_month = $1 ORDER BY staff_id`
	rows, err := r.db.QueryContext(ctx, query, ym)
	if err != nil {
		return nil, fmt.Errorf("error listing salary records for %s: %w", ym, err)
	}
	defer rows.Close()

	records := make([]*ledger.SalaryRecord, 0)
	for rows.Next() {
		rec := &ledger.SalaryRecord{}
		if err := rows.Scan(&rec.ID, &rec.StaffID, &rec.Amount, &rec.PaymentDate, &rec.PaymentMonth, &rec.PaymentStatus, &rec.Remarks, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning salary record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating salary records: %w", err)
	}
	return records, nil
}

// --- Reporting aggregates ---

func (r *PostgresLedgerRepository) MonthlyTotals(ctx context.Context, from, to time.Time) ([]ledger.MonthlyTotals, error) {
	query := `WITH entries AS (
                 SELECT date_trunc('month', income_date) AS month, amount AS income, 0::numeric AS expense
                 FROM income WHERE income_date >= $1::date AND income_date < $2::date
                 UNION ALL
                 SELECT date_trunc('month', expense_date) AS month, 0::numeric AS income, amount AS expense
                 FROM expenses WHERE expense_date >= $1::date AND expense_date < $2::date
               )
               SELECT to_char(month, 'YYYY-MM'), COALESCE(SUM(income), 0), COALESCE(SUM(expense), 0)
               FROM entries GROUP BY month ORDER BY month`
	rows, err := r.db.QueryContext(ctx, query, dateParam(from), dateParam(to))
	if err != nil {
		return nil, fmt.Errorf("error querying monthly totals: %w", err)
	}
	defer rows.Close()

	totals := make([]ledger.MonthlyTotals, 0)
	for rows.Next() {
		var m ledger.MonthlyTotals
		if err := rows.Scan(&m.Month, &m.Income, &m.Expense); err != nil {
			return nil, fmt.Errorf("error scanning monthly totals: %w", err)
		}
		totals = append(totals, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating monthly totals: %w", err)
	}
	return totals, nil
}

func (r *PostgresLedgerRepository) ExpenseTotalsByType(ctx context.Context, from, to time.Time) ([]ledger.TypeTotal, error) {
	query := `SELECT expense_type, COALESCE(SUM(amount), 0), COUNT(*)
               FROM expenses
               WHERE expense_date >= $1::date AND expense_date < $2::date
               GROUP BY expense_type ORDER BY expense_type`
	rows, err := r.db.QueryContext(ctx, query, dateParam(from), dateParam(to))
	if err != nil {
		return nil, fmt.Errorf("error querying expense totals by type: %w", err)
	}
	defer rows.Close()

	totals := make([]ledger.TypeTotal, 0)
	for rows.Next() {
		var t ledger.TypeTotal
		if err := rows.Scan(&t.Type, &t.Amount, &t.Count); err != nil {
			return nil, fmt.Errorf("error scanning expense type total: %w", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expense type totals: %w", err)
	}
	return totals, nil
}
