package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"training_center_ledger/internal/domain/staff"
)

const staffColumns = `id, full_name, nic, staff_type, job_status, monthly_salary, training_end_date, created_at`

type PostgresStaffRepository struct {
	db *sql.DB
}

func NewPostgresStaffRepository(db *sql.DB) *PostgresStaffRepository {
	return &PostgresStaffRepository{db: db}
}

func (r *PostgresStaffRepository) ListPermanent(ctx context.Context) ([]*staff.Member, error) {
	query := `SELECT ` + staffColumns + `
               FROM staff WHERE job_status = $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, staff.StatusPermanent)
	if err != nil {
		return nil, fmt.Errorf("error listing permanent staff: %w", err)
	}
	defer rows.Close()
	return scanMembers(rows)
}

func (r *PostgresStaffRepository) ListTrainingEndingBetween(ctx context.Context, from, to time.Time) ([]*staff.Member, error) {
	query := `SELECT ` + staffColumns + `
               FROM staff
               WHERE job_status = $1
                 AND training_end_date BETWEEN $2::date AND $3::date
               ORDER BY training_end_date, id`

	rows, err := r.db.QueryContext(ctx, query, staff.StatusTraining, dateParam(from), dateParam(to))
	if err != nil {
		return nil, fmt.Errorf("error listing staff with training ending between %s and %s: %w", dateParam(from), dateParam(to), err)
	}
	defer rows.Close()
	return scanMembers(rows)
}

func scanMembers(rows *sql.Rows) ([]*staff.Member, error) {
	members := make([]*staff.Member, 0)
	for rows.Next() {
		m := &staff.Member{}
		if err := rows.Scan(&m.ID, &m.FullName, &m.NIC, &m.StaffType, &m.JobStatus, &m.MonthlySalary, &m.TrainingEndDate, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning staff row: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating staff rows: %w", err)
	}
	return members, nil
}
