// internal/domain/notification/repository.go
package notification

import (
	"context"
	"time"
)

// Repository defines operations on stored notifications.
type Repository interface {
	// Create inserts n and fills ID and CreatedAt.
	Create(ctx context.Context, n *Notification) error
	// ExistsForDate checks for a notification about (relatedTo, relatedID) dated on date.
	ExistsForDate(ctx context.Context, relatedTo RelatedTo, relatedID int64, date time.Time) (bool, error)
	GetByID(ctx context.Context, id int64) (*Notification, error)
	CountUnread(ctx context.Context) (int, error)
	ListUnread(ctx context.Context, limit int) ([]*Notification, error)
	MarkRead(ctx context.Context, id int64) error
	MarkAllRead(ctx context.Context) (int64, error)
}
