package lock

import "context"

// Locker hands out named, non-blocking locks shared by every process using the same store.
type Locker interface {
	// TryLock returns ok=false without error when another holder owns key.
	// The returned release func must be called exactly once when ok is true.
	TryLock(ctx context.Context, key string) (release func(), ok bool, err error)
}
