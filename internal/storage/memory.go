package storage

import (
	"context"
	"sync"
)

// MemorySlot is a process-local slot. It does not survive restarts.
type MemorySlot struct {
	mu       sync.Mutex
	values   map[string][]byte
	writes   int
	failNext error
}

// NewMemorySlot returns an empty MemorySlot.
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{values: make(map[string][]byte)}
}

// Get returns a copy of the value stored under key.
func (s *MemorySlot) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set stores a copy of value under key. If FailNextWrite was armed, the
// write is rejected with that error instead.
func (s *MemorySlot) Set(ctx context.Context, key string, value []byte) error {
	if err := validKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failNext; err != nil {
		s.failNext = nil
		return err
	}
	s.values[key] = append([]byte(nil), value...)
	s.writes++
	return nil
}

// FailNextWrite makes the next Set return err.
func (s *MemorySlot) FailNextWrite(err error) {
	s.mu.Lock()
	s.failNext = err
	s.mu.Unlock()
}

// Writes returns the number of successful Set calls.
func (s *MemorySlot) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// Close is a no-op.
func (s *MemorySlot) Close() error {
	return nil
}
