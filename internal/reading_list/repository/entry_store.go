package repository

import (
	"sync"

	"github.com/GoSim-25-26J-441/reading-list-api/internal/reading_list/domain"
)

// EntryStore keeps reading-list entries in insertion order.
// A single RWMutex guards both the slice and the id counter.
type EntryStore struct {
	mu      sync.RWMutex
	entries []domain.Entry
	nextID  int64
}

// NewEntryStore creates an empty store whose first id is 1.
func NewEntryStore() *EntryStore {
	return &EntryStore{
		entries: make([]domain.Entry, 0, 16),
		nextID:  1,
	}
}

// Create allocates the next id and appends the entry built for it, under one
// lock so insertion order always matches id order. The id is forced onto the
// built entry. Ids are never handed out twice, even after the entry is removed.
func (s *EntryStore) Create(build func(id int64) domain.Entry) domain.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++

	e := build(id)
	e.ID = id
	s.entries = append(s.entries, e.Clone())
	return e.Clone()
}

// ListAll returns a copy of every entry in insertion order.
func (s *EntryStore) ListAll() []domain.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.Clone())
	}
	return out
}

// Find looks an entry up by id.
func (s *EntryStore) Find(id int64) (domain.Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.entries[i].Clone(), true
	}
	return domain.Entry{}, false
}

// Replace overwrites the entry with the given id in place.
func (s *EntryStore) Replace(id int64, e domain.Entry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	e.ID = id
	s.entries[i] = e.Clone()
	return true
}

// Remove deletes the entry with the given id, keeping the order of the rest.
func (s *EntryStore) Remove(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	return true
}

// Count returns the number of live entries.
func (s *EntryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// indexOf must be called with the lock held.
func (s *EntryStore) indexOf(id int64) int {
	for i := range s.entries {
		if s.entries[i].ID == id {
			return i
		}
	}
	return -1
}
