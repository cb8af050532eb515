package database

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// Custom errors shared by the Postgres repositories
var (
	ErrDuplicate            = fmt.Errorf("record already exists")
	ErrNotificationNotFound = fmt.Errorf("notification not found")
)

const uniqueViolation pq.ErrorCode = "23505"

// isUniqueViolation checks for a Postgres unique constraint error.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	return false
}

// wrapInsertError maps unique violations to ErrDuplicate and wraps everything else.
func wrapInsertError(what string, err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("error creating %s: %w (%v)", what, ErrDuplicate, err)
	}
	return fmt.Errorf("error creating %s: %w", what, err)
}
