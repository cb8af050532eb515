package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const unlockTimeout = 5 * time.Second

// AdvisoryLocker implements lock.Locker with Postgres session advisory locks.
// A lock lives on a dedicated pooled connection until released.
type AdvisoryLocker struct {
	db  *sql.DB
	log *logrus.Entry
}

func NewAdvisoryLocker(db *sql.DB, log *logrus.Entry) *AdvisoryLocker {
	return &AdvisoryLocker{db: db, log: log}
}

func (l *AdvisoryLocker) TryLock(ctx context.Context, key string) (func(), bool, error) {
	conn, err := l.db.Conn(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to reserve connection for lock %q: %w", key, err)
	}

	var acquired bool
	if err := conn.QueryRowContext(ctx, `SELECT pg_try_advisory_lock(hashtext($1))`, key).Scan(&acquired); err != nil {
		conn.Close()
		return nil, false, fmt.Errorf("failed to acquire advisory lock %q: %w", key, err)
	}
	if !acquired {
		conn.Close()
		return nil, false, nil
	}

	var once sync.Once
	release := func() {
		once.Do(func() {
			unlockCtx, cancel := context.WithTimeout(context.Background(), unlockTimeout)
			defer cancel()
			if _, err := conn.ExecContext(unlockCtx, `SELECT pg_advisory_unlock(hashtext($1))`, key); err != nil {
				l.log.WithError(err).WithField("lock_key", key).Warn("Failed to release advisory lock, discarding connection")
				// Returning ErrBadConn drops the connection from the pool, ending the session and its locks.
				_ = conn.Raw(func(any) error { return driver.ErrBadConn })
			}
			conn.Close()
		})
	}
	return release, true, nil
}
