// internal/infra/database/postgres_notification_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"training_center_ledger/internal/domain/notification"
)

const notificationColumns = `id, title, message, related_to, related_id, notification_date, is_read, created_at`

type PostgresNotificationRepository struct {
	db *sql.DB
}

func NewPostgresNotificationRepository(db *sql.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

// Create stores n as unread. A second notification for the same subject and day
// fails with ErrDuplicate.
func (r *PostgresNotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	query := `INSERT INTO notifications (title, message, related_to, related_id, notification_date, is_read)
               VALUES ($1, $2, $3, $4, $5::date, FALSE)
               RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, n.Title, n.Message, n.RelatedTo, n.RelatedID, dateParam(n.Date)).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return wrapInsertError("notification", err)
	}
	n.IsRead = false
	return nil
}

func (r *PostgresNotificationRepository) ExistsForDate(ctx context.Context, relatedTo notification.RelatedTo, relatedID int64, date time.Time) (bool, error) {
	query := `SELECT EXISTS (
                 SELECT 1 FROM notifications
                 WHERE related_to = $1 AND related_id = $2 AND notification_date = $3::date
               )`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, relatedTo, relatedID, dateParam(date)).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking notification for %s %d on %s: %w", relatedTo, relatedID, dateParam(date), err)
	}
	return exists, nil
}

func (r *PostgresNotificationRepository) GetByID(ctx context.Context, id int64) (*notification.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`
	n := &notification.Notification{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&n.ID, &n.Title, &n.Message, &n.RelatedTo, &n.RelatedID, &n.Date, &n.IsRead, &n.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("error getting notification by ID: %w", err)
	}
	return n, nil
}

func (r *PostgresNotificationRepository) CountUnread(ctx context.Context) (int, error) {
	var count int
	// COUNT(*) always yields a row, so an empty table gives 0.
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications WHERE is_read = FALSE`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting unread notifications: %w", err)
	}
	return count, nil
}

func (r *PostgresNotificationRepository) ListUnread(ctx context.Context, limit int) ([]*notification.Notification, error) {
	query := `SELECT ` + notificationColumns + `
               FROM notifications WHERE is_read = FALSE
               ORDER BY notification_date DESC, id DESC
               LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing unread notifications: %w", err)
	}
	defer rows.Close()

	items := make([]*notification.Notification, 0)
	for rows.Next() {
		n := &notification.Notification{}
		if err := rows.Scan(&n.ID, &n.Title, &n.Message, &n.RelatedTo, &n.RelatedID, &n.Date, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning notification row: %w", err)
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notification rows: %w", err)
	}
	return items, nil
}

func (r *PostgresNotificationRepository) MarkRead(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error marking notification %d read: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading affected rows for notification %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *PostgresNotificationRepository) MarkAllRead(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE is_read = FALSE`)
	if err != nil {
		return 0, fmt.Errorf("error marking all notifications read: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error reading affected rows: %w", err)
	}
	return n, nil
}
