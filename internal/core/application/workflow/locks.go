package workflow

import (
	"sync"

	"orderflow/internal/core/domain/model/kernel"
)

// keyedMutex serialises writers per artifact. Entries are dropped when the
// last holder or waiter leaves.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[kernel.UUID]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[kernel.UUID]*refMutex)}
}

// Lock blocks until id is free and returns the matching unlock.
func (k *keyedMutex) Lock(id kernel.UUID) func() {
	k.mu.Lock()
	m, ok := k.locks[id]
	if !ok {
		m = &refMutex{}
		k.locks[id] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, id)
		}
		k.mu.Unlock()
	}
}

func (k *keyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
