package lifecycle

import (
	"sync"

	"sessiondock/internal/domain/model"
)

// lockRegistry hands out one mutex per container identity so that lifecycle
// operations on the same identity are totally ordered while distinct
// identities proceed fully in parallel. Entries are reference-counted and
// removed as soon as they are uncontended, keeping the registry bounded by
// the number of in-flight operations.
type lockRegistry struct {
	mu    sync.Mutex
	locks map[model.Identity]*identityLock
}

type identityLock struct {
	mu   sync.Mutex
	refs int
}

func newLockRegistry() *lockRegistry {
	return &lockRegistry{
		locks: make(map[model.Identity]*identityLock),
	}
}

// acquire blocks until the identity's lock is held and returns the matching
// release function. The entry is created lazily on first use.
func (r *lockRegistry) acquire(identity model.Identity) (release func()) {
	r.mu.Lock()
	entry, ok := r.locks[identity]
	if !ok {
		entry = &identityLock{}
		r.locks[identity] = entry
	}
	entry.refs++
	r.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		r.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(r.locks, identity)
		}
		r.mu.Unlock()
	}
}

// size reports the number of live entries. Used by tests to verify that
// uncontended locks are dropped.
func (r *lockRegistry) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.locks)
}
