// internal/domain/notification/notification.go
package notification

import "time"

// RelatedTo tags what a notification is about.
type RelatedTo string

const (
	RelatedToStaffTraining RelatedTo = "staff_training"
)

// Notification corresponds to the 'notifications' table.
// (RelatedTo, RelatedID, Date) is unique.
type Notification struct {
	ID        int64
	Title     string
	Message   string
	RelatedTo RelatedTo
	RelatedID int64
	Date      time.Time // notification_date, date only
	IsRead    bool
	CreatedAt time.Time
}
