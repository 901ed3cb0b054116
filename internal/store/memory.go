package store

import (
	"context"
	"sync"
	"time"

	"github.com/byhelaman/sched-planner/internal/schedule"
)

type memoryEntry struct {
	records []schedule.Record
	written time.Time
}

// MemoryStore keeps collections in process memory. Collections are lost on
// restart and not shared between processes.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemory returns an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Create(ctx context.Context, records []schedule.Record) (string, error) {
	id := NewID()

	s.mu.Lock()
	s.entries[id] = memoryEntry{records: cloneRecords(records), written: s.now()}
	s.mu.Unlock()

	return id, nil
}

func (s *MemoryStore) Load(ctx context.Context, id string) ([]schedule.Record, error) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	return cloneRecords(e.records), nil
}

func (s *MemoryStore) Replace(ctx context.Context, id string, records []schedule.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return ErrNotFound
	}
	s.entries[id] = memoryEntry{records: cloneRecords(records), written: s.now()}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) SweepExpired(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := s.now().Add(-maxAge)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.entries {
		if e.written.Before(cutoff) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of stored collections.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *MemoryStore) Close() error { return nil }

func cloneRecords(records []schedule.Record) []schedule.Record {
	if records == nil {
		return []schedule.Record{}
	}
	out := make([]schedule.Record, len(records))
	copy(out, records)
	return out
}
