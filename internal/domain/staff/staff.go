package staff

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// StaffType separates teaching staff from administrative staff.
type StaffType string

const (
	TypeAcademic    StaffType = "academic"
	TypeNonAcademic StaffType = "non_academic"
)

// JobStatus is the employment stage of a staff member.
type JobStatus string

const (
	StatusPermanent JobStatus = "permanent"
	StatusTraining  JobStatus = "training"
)

// Member represents a row of the 'staff' table.
// The reconciliation jobs only read staff; the roster is maintained elsewhere.
type Member struct {
	ID              int64
	FullName        string
	NIC             string // National identity card number, shown in notifications
	StaffType       StaffType
	JobStatus       JobStatus
	MonthlySalary   decimal.Decimal
	TrainingEndDate sql.NullTime
	CreatedAt       time.Time
}
