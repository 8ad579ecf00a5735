package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore implements Store with an in-memory slice.
type MemoryStore struct {
	mu      sync.RWMutex
	records []*Record
	index   map[string]int
	closed  bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		index: make(map[string]int),
	}
}

// Append stores a copy of r and fills in its ID and CreatedAt when unset.
func (s *MemoryStore) Append(ctx context.Context, r *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageError("memory", "append", ErrClosed)
	}

	prepare(r)
	if _, ok := s.index[r.ID]; ok {
		return NewStorageError("memory", "append", ErrDuplicate)
	}

	s.index[r.ID] = len(s.records)
	s.records = append(s.records, r.clone())
	return nil
}

// Get returns a copy of the record with the given ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s.records[i].clone(), nil
}

// List returns copies of all records in insertion order.
func (s *MemoryStore) List(ctx context.Context) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Record, len(s.records))
	for i, r := range s.records {
		out[i] = r.clone()
	}
	return out, nil
}

// Delete removes the record with the given ID.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[id]; !ok {
		return ErrNotFound
	}
	s.filter(func(r *Record) bool { return r.ID == id })
	return nil
}

// DeleteByOrigin removes every record with the given origin.
func (s *MemoryStore) DeleteByOrigin(ctx context.Context, origin string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.filter(func(r *Record) bool { return r.Origin == origin }), nil
}

// DeleteBefore removes records created before cutoff.
func (s *MemoryStore) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.filter(func(r *Record) bool { return r.CreatedAt.Before(cutoff) }), nil
}

// Trim keeps only the newest keep records.
func (s *MemoryStore) Trim(ctx context.Context, keep int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	excess := int64(len(s.records)) - keep
	if keep < 0 || excess <= 0 {
		return 0, nil
	}

	var seen int64
	return s.filter(func(*Record) bool {
		seen++
		return seen <= excess
	}), nil
}

// Count returns the number of records.
func (s *MemoryStore) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.records)), nil
}

// Ping reports an error once the store is closed.
func (s *MemoryStore) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return NewStorageError("memory", "ping", ErrClosed)
	}
	return nil
}

// Close marks the store closed. Reads keep working; writes fail.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}

// filter removes records for which drop returns true and rebuilds the index.
// The caller must hold the write lock.
func (s *MemoryStore) filter(drop func(*Record) bool) int64 {
	kept := s.records[:0]
	var removed int64
	for _, r := range s.records {
		if drop(r) {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	for i := len(kept); i < len(s.records); i++ {
		s.records[i] = nil
	}
	s.records = kept

	s.index = make(map[string]int, len(kept))
	for i, r := range kept {
		s.index[r.ID] = i
	}
	return removed
}

func prepare(r *Record) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
}
