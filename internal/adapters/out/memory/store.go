// Package memory provides the in-process stores used by default and in tests.
//
// Store holds committed artifact snapshots. Repositories read and write either
// the store directly or, inside a unit of work, a stage that overlays it and
// is copied into the store on Commit.
package memory

import (
	"slices"
	"sync"

	"orderflow/internal/core/domain/model/artifact"
	"orderflow/internal/core/domain/model/kernel"
)

// table is the storage a repository operates on.
type table interface {
	load(id kernel.UUID) (artifact.Snapshot, bool)
	save(s artifact.Snapshot)
	remove(id kernel.UUID)
	all() []artifact.Snapshot
}

// Store is the committed state shared by every unit of work.
type Store struct {
	mu        sync.RWMutex
	artifacts map[kernel.UUID]artifact.Snapshot
	order     []kernel.UUID
}

func NewStore() *Store {
	return &Store{artifacts: make(map[kernel.UUID]artifact.Snapshot)}
}

func (s *Store) load(id kernel.UUID) (artifact.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.artifacts[id]
	return snap, ok
}

func (s *Store) save(snap artifact.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveLocked(snap)
}

func (s *Store) saveLocked(snap artifact.Snapshot) {
	if _, ok := s.artifacts[snap.ID]; !ok {
		s.order = append(s.order, snap.ID)
	}
	s.artifacts[snap.ID] = snap
}

func (s *Store) remove(id kernel.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(id)
}

func (s *Store) removeLocked(id kernel.UUID) {
	if _, ok := s.artifacts[id]; !ok {
		return
	}
	delete(s.artifacts, id)
	s.order = slices.DeleteFunc(s.order, func(other kernel.UUID) bool { return other == id })
}

func (s *Store) all() []artifact.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]artifact.Snapshot, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.artifacts[id])
	}
	return out
}

// apply writes a committed stage in one critical section.
func (s *Store) apply(st *stage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range st.touched {
		if snap, ok := st.written[id]; ok {
			s.saveLocked(snap)
			continue
		}
		s.removeLocked(id)
	}
}

// stage collects the writes of one unit of work.
type stage struct {
	base    *Store
	written map[kernel.UUID]artifact.Snapshot
	deleted map[kernel.UUID]struct{}
	touched []kernel.UUID
}

func newStage(base *Store) *stage {
	return &stage{
		base:    base,
		written: make(map[kernel.UUID]artifact.Snapshot),
		deleted: make(map[kernel.UUID]struct{}),
	}
}

func (st *stage) touch(id kernel.UUID) {
	if !slices.Contains(st.touched, id) {
		st.touched = append(st.touched, id)
	}
}

func (st *stage) load(id kernel.UUID) (artifact.Snapshot, bool) {
	if _, gone := st.deleted[id]; gone {
		return artifact.Snapshot{}, false
	}
	if snap, ok := st.written[id]; ok {
		return snap, true
	}
	return st.base.load(id)
}

func (st *stage) save(snap artifact.Snapshot) {
	delete(st.deleted, snap.ID)
	st.written[snap.ID] = snap
	st.touch(snap.ID)
}

func (st *stage) remove(id kernel.UUID) {
	delete(st.written, id)
	st.deleted[id] = struct{}{}
	st.touch(id)
}

func (st *stage) all() []artifact.Snapshot {
	committed := st.base.all()
	out := make([]artifact.Snapshot, 0, len(committed)+len(st.written))
	seen := make(map[kernel.UUID]struct{}, len(committed))
	for _, snap := range committed {
		seen[snap.ID] = struct{}{}
		if current, ok := st.load(snap.ID); ok {
			out = append(out, current)
		}
	}
	for _, id := range st.touched {
		if _, ok := seen[id]; ok {
			continue
		}
		if snap, ok := st.written[id]; ok {
			out = append(out, snap)
		}
	}
	return out
}
