package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// keyedLocker hands out one mutex per product id. Entries are dropped once
// nobody holds or waits for them.
type keyedLocker struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*keyedLock
}

type keyedLock struct {
	ch   chan struct{}
	refs int
}

func newKeyedLocker() *keyedLocker {
	return &keyedLocker{locks: make(map[uuid.UUID]*keyedLock)}
}

func (l *keyedLocker) Lock(ctx context.Context, id uuid.UUID) error {
	l.mu.Lock()
	lock, ok := l.locks[id]
	if !ok {
		lock = &keyedLock{ch: make(chan struct{}, 1)}
		l.locks[id] = lock
	}
	lock.refs++
	l.mu.Unlock()

	select {
	case lock.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		l.release(id, lock)
		return ctx.Err()
	}
}

func (l *keyedLocker) Unlock(id uuid.UUID) {
	l.mu.Lock()
	lock := l.locks[id]
	l.mu.Unlock()

	<-lock.ch
	l.release(id, lock)
}

func (l *keyedLocker) release(id uuid.UUID, lock *keyedLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock.refs--
	if lock.refs == 0 {
		delete(l.locks, id)
	}
}

func (l *keyedLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
