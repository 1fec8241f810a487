package todo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/charmbracelet/log"

	"github.com/nibzard/blossom/internal/storage"
)

// DefaultSlotKey is the slot the task snapshot lives in.
const DefaultSlotKey = "tasks"

// Task represents a single item in the list.
type Task struct {
	ID        int64  `json:"id" yaml:"id"`
	Text      string `json:"text" yaml:"text"`
	Completed bool   `json:"completed" yaml:"completed"`
}

// IsZero returns true if the task is empty (has no ID). Events use it to
// leave the task out of their JSON.
func (t Task) IsZero() bool {
	return t.ID == 0
}

// Store owns the task sequence and persists it to a slot.
// It is not safe for concurrent use.
type Store struct {
	slot   storage.Slot
	key    string
	logger *log.Logger
	tasks  []Task
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger used for load diagnostics.
func WithLogger(logger *log.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSlotKey overrides the slot key (default "tasks").
func WithSlotKey(key string) StoreOption {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// NewStore returns an empty store backed by slot. Call Load to read the
// persisted snapshot.
func NewStore(slot storage.Slot, opts ...StoreOption) *Store {
	s := &Store{
		slot:   slot,
		key:    DefaultSlotKey,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the slot key the store reads and writes.
func (s *Store) Key() string {
	return s.key
}

// Load replaces the in-memory sequence with the persisted snapshot.
// An absent, empty, or incompatible snapshot yields an empty sequence and a
// nil error. A failed read also yields an empty sequence; the returned
// StorageError is informational and the store remains usable.
func (s *Store) Load(ctx context.Context) error {
	s.tasks = nil

	data, err := s.slot.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Debug("no snapshot, starting empty", "slot", s.key)
			return nil
		}
		s.logger.Warn("snapshot unreadable, starting empty", "slot", s.key, "err", err)
		return &StorageError{Op: "read", Key: s.key, Err: err}
	}
	if len(data) == 0 {
		s.logger.Debug("empty snapshot", "slot", s.key)
		return nil
	}

	tasks, err := decodeSnapshot(data)
	if err != nil {
		s.logger.Warn("discarding incompatible snapshot", "slot", s.key, "err", err)
		return nil
	}
	s.tasks = tasks
	s.logger.Debug("snapshot loaded", "slot", s.key, "tasks", len(tasks))
	return nil
}

// Save overwrites the slot with the current sequence. On failure the
// in-memory sequence is left as is.
func (s *Store) Save(ctx context.Context) error {
	data, err := encodeSnapshot(s.tasks)
	if err != nil {
		return &StorageError{Op: "write", Key: s.key, Err: err}
	}
	if err := s.slot.Set(ctx, s.key, data); err != nil {
		return &StorageError{Op: "write", Key: s.key, Err: err}
	}
	return nil
}

// Insert appends task to the end of the sequence.
func (s *Store) Insert(task Task) error {
	if s.index(task.ID) >= 0 {
		return fmt.Errorf("insert task %d: %w", task.ID, ErrDuplicateID)
	}
	s.tasks = append(s.tasks, task)
	return nil
}

// Find returns the task with id.
func (s *Store) Find(id int64) (Task, bool) {
	if i := s.index(id); i >= 0 {
		return s.tasks[i], true
	}
	return Task{}, false
}

// Update applies updater to the task with id and returns the result.
func (s *Store) Update(id int64, updater func(*Task)) (Task, bool) {
	i := s.index(id)
	if i < 0 {
		return Task{}, false
	}
	updater(&s.tasks[i])
	return s.tasks[i], true
}

// SetCompleted sets the completed flag of the task with id.
func (s *Store) SetCompleted(id int64, completed bool) (Task, bool) {
	return s.Update(id, func(t *Task) { t.Completed = completed })
}

// RemoveByID removes the task with id and returns it. Removing an absent id
// is a no-op.
func (s *Store) RemoveByID(id int64) (Task, bool) {
	i := s.index(id)
	if i < 0 {
		return Task{}, false
	}
	removed := s.tasks[i]
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return removed, true
}

// Clear empties the sequence and returns how many tasks were dropped.
func (s *Store) Clear() int {
	n := len(s.tasks)
	s.tasks = nil
	return n
}

// All yields copies of the tasks in insertion order. Each range over the
// returned sequence reflects the store at that moment.
func (s *Store) All() iter.Seq[Task] {
	return func(yield func(Task) bool) {
		for _, t := range s.tasks {
			if !yield(t) {
				return
			}
		}
	}
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// PendingCount returns the number of tasks not yet completed.
func (s *Store) PendingCount() int {
	n := 0
	for _, t := range s.tasks {
		if !t.Completed {
			n++
		}
	}
	return n
}

// MaxID returns the largest id in the store, or 0 when empty.
func (s *Store) MaxID() int64 {
	var max int64
	for _, t := range s.tasks {
		if t.ID > max {
			max = t.ID
		}
	}
	return max
}

func (s *Store) index(id int64) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
