package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
)

// schema is applied in order on every start. Every statement must be idempotent.
var schema = []struct {
	name string
	stmt string
}{
	{"staff table", `
		CREATE TABLE IF NOT EXISTS staff (
			id                BIGSERIAL PRIMARY KEY,
			full_name         VARCHAR(150) NOT NULL,
			nic               VARCHAR(20)  NOT NULL,
			staff_type        VARCHAR(20)  NOT NULL CHECK (staff_type IN ('academic', 'non_academic')),
			job_status        VARCHAR(20)  NOT NULL CHECK (job_status IN ('permanent', 'training')),
			monthly_salary    NUMERIC(12,2) NOT NULL DEFAULT 0,
			training_end_date DATE,
			created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`},
	{"expenses table", `
		CREATE TABLE IF NOT EXISTS expenses (
			id           BIGSERIAL PRIMARY KEY,
			expense_type VARCHAR(50)  NOT NULL,
			expense_name VARCHAR(255) NOT NULL,
			amount       NUMERIC(12,2) NOT NULL,
			expense_date DATE NOT NULL,
			student_id   BIGINT,
			staff_id     BIGINT REFERENCES staff(id),
			period_month CHAR(7),
			created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`},
	{"income table", `
		CREATE TABLE IF NOT EXISTS income (
			id          BIGSERIAL PRIMARY KEY,
			income_type VARCHAR(50)  NOT NULL,
			income_name VARCHAR(255) NOT NULL,
			amount      NUMERIC(12,2) NOT NULL,
			income_date DATE NOT NULL,
			student_id  BIGINT,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`},
	{"salary_records table", `
		CREATE TABLE IF NOT EXISTS salary_records (
			id             BIGSERIAL PRIMARY KEY,
			staff_id       BIGINT NOT NULL REFERENCES staff(id),
			amount         NUMERIC(12,2) NOT NULL,
			payment_date   DATE NOT NULL,
			payment_month  CHAR(7) NOT NULL,
			payment_status VARCHAR(10) NOT NULL DEFAULT 'pending' CHECK (payment_status IN ('pending', 'paid')),
			remarks        TEXT NOT NULL DEFAULT '',
			created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`},
	{"notifications table", `
		CREATE TABLE IF NOT EXISTS notifications (
			id                BIGSERIAL PRIMARY KEY,
			title             VARCHAR(255) NOT NULL,
			message           TEXT NOT NULL,
			related_to        VARCHAR(50) NOT NULL,
			related_id        BIGINT NOT NULL,
			notification_date DATE NOT NULL,
			is_read           BOOLEAN NOT NULL DEFAULT FALSE,
			created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`},
	{"salary record per staff and month", `
		CREATE UNIQUE INDEX IF NOT EXISTS salary_records_staff_month_unique
			ON salary_records (staff_id, payment_month)`},
	{"salary expense per staff and month", `
		CREATE UNIQUE INDEX IF NOT EXISTS expenses_staff_salary_unique
			ON expenses (staff_id, period_month) WHERE expense_type = 'staff_salary'`},
	{"notification per subject and day", `
		CREATE UNIQUE INDEX IF NOT EXISTS notifications_related_day_unique
			ON notifications (related_to, related_id, notification_date)`},
	{"unread notifications index", `
		CREATE INDEX IF NOT EXISTS notifications_unread_idx
			ON notifications (notification_date DESC) WHERE is_read = FALSE`},
	{"training end date index", `
		CREATE INDEX IF NOT EXISTS staff_training_end_idx
			ON staff (training_end_date) WHERE job_status = 'training'`},
}

// RunMigrations creates the ledger tables and the unique keys the reconciliation jobs rely on.
func RunMigrations(ctx context.Context, db *sql.DB, log *logrus.Entry) error {
	log.Info("Running database migrations...")
	for _, m := range schema {
		if _, err := db.ExecContext(ctx, m.stmt); err != nil {
			log.WithError(err).WithField("migration", m.name).Error("Migration failed")
			return fmt.Errorf("migration %q failed: %w", m.name, err)
		}
		log.WithField("migration", m.name).Debug("Migration applied")
	}
	log.Info("Database migrations completed successfully")
	return nil
}
