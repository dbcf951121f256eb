package scheduling

import (
	"context"
	"errors"
	"sync"
)

var ErrLockNotAcquired = errors.New("slot lock not acquired")

// Locker guards the check-then-book critical section for one slot. The key is
// "date time" so that concurrent bookings for different slots do not contend.
type Locker interface {
	WithSlotLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// MutexLocker serializes critical sections in-process with one mutex per slot
// key. It is the right locker for the single-process file-backed deployment;
// multi-process deployments need the Redis locker instead.
type MutexLocker struct {
	mu    sync.Mutex
	slots map[string]*sync.Mutex
}

func NewMutexLocker() *MutexLocker {
	return &MutexLocker{slots: make(map[string]*sync.Mutex)}
}

func (l *MutexLocker) WithSlotLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	l.mu.Lock()
	m, ok := l.slots[key]
	if !ok {
		m = &sync.Mutex{}
		l.slots[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	defer m.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}
