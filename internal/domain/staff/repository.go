package staff

import (
	"context"
	"time"
)

// Repository defines the read operations the reconciliation jobs need on the staff roster.
type Repository interface {
	ListPermanent(ctx context.Context) ([]*Member, error)
	// ListTrainingEndingBetween returns staff in training whose training_end_date
	// lies in [from, to], both dates inclusive.
	ListTrainingEndingBetween(ctx context.Context, from, to time.Time) ([]*Member, error)
}
