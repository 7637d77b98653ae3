package service

import (
	"sync"

	"github.com/openmuseum/inventory/internal/domain"
)

// ownerLocks serializes mutations per owner. Two requests against the same
// owner must not compute order assignments from the same sibling snapshot;
// requests against different owners proceed in parallel.
type ownerLocks struct {
	mu    sync.Mutex
	locks map[domain.Owner]*ownerLock
}

type ownerLock struct {
	mu   sync.Mutex
	refs int
}

func newOwnerLocks() *ownerLocks {
	return &ownerLocks{locks: make(map[domain.Owner]*ownerLock)}
}

// acquire blocks until the owner's lock is held and returns the release
// function. Entries are reference-counted so the map does not grow with
// every owner ever touched.
func (l *ownerLocks) acquire(owner domain.Owner) func() {
	l.mu.Lock()
	entry, ok := l.locks[owner]
	if !ok {
		entry = &ownerLock{}
		l.locks[owner] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, owner)
		}
		l.mu.Unlock()
	}
}
