// Package controller exposes the validated state transitions over a task store.
package controller

import (
	"context"
	"errors"
	"io"
	"iter"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/blossom/internal/todo"
)

// ClearPrompt is the question put to the Confirmer before clearing all tasks.
const ClearPrompt = "Are you sure you want to clear all tasks?"

// Confirmer answers a yes/no prompt synchronously. False means declined or
// cancelled.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

// Confirm calls f.
func (f ConfirmFunc) Confirm(prompt string) bool {
	return f(prompt)
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock sets the time source used for ids and event timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithConfirmer sets the collaborator consulted by ClearAll.
func WithConfirmer(confirmer Confirmer) Option {
	return func(c *Controller) {
		c.confirmer = confirmer
	}
}

// Controller runs the four user-facing transitions. Each one mutates the
// store, saves it, then notifies listeners once the save succeeded. It is not safe for concurrent use.
type Controller struct {
	store     *todo.Store
	ids       *todo.IDGenerator
	confirmer Confirmer
	listeners []Listener
	logger    *log.Logger
	now       func() time.Time
}

// New returns a controller over store. The store should already be loaded;
// ids continue after the largest id it holds. Without a Confirmer, ClearAll
// always declines.
func New(store *todo.Store, opts ...Option) *Controller {
	c := &Controller{
		store:  store,
		logger: log.New(io.Discard),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.ids = todo.NewIDGenerator(c.now)
	c.ids.Observe(store.MaxID())
	return c
}

// Subscribe registers l to receive notifications after every successful
// mutation. Listeners are called synchronously in registration order.
func (c *Controller) Subscribe(l Listener) {
	if l != nil {
		c.listeners = append(c.listeners, l)
	}
}

// AddTask trims raw and appends a new pending task. Empty input returns a
// *todo.ValidationError and leaves the store untouched.
func (c *Controller) AddTask(ctx context.Context, raw string) (todo.Task, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return todo.Task{}, &todo.ValidationError{Field: "text", Err: todo.ErrEmptyText}
	}

	task := todo.Task{ID: c.ids.Next(), Text: text}
	if err := c.store.Insert(task); err != nil {
		return todo.Task{}, err
	}
	c.logger.Debug("task added", "id", task.ID)

	err := c.persist(ctx, "add")
	if err == nil {
		c.emit(Event{Kind: TaskAdded, Task: task})
	}
	return task, err
}

// ToggleComplete flips the completed flag of the task with id.
func (c *Controller) ToggleComplete(ctx context.Context, id int64) (todo.Task, error) {
	task, ok := c.store.Update(id, func(t *todo.Task) {
		t.Completed = !t.Completed
	})
	if !ok {
		return todo.Task{}, &todo.NotFoundError{ID: id}
	}
	c.logger.Debug("task toggled", "id", id, "completed", task.Completed)

	err := c.persist(ctx, "toggle")
	if err == nil {
		c.emit(Event{Kind: TaskToggled, Task: task})
	}
	return task, err
}

// DeleteTask removes the task with id. Deleting an absent id is a no-op and
// reports removed=false with no error and no notification.
func (c *Controller) DeleteTask(ctx context.Context, id int64) (removed bool, err error) {
	task, ok := c.store.RemoveByID(id)
	if !ok {
		return false, nil
	}
	c.logger.Debug("task deleted", "id", id)

	err = c.persist(ctx, "delete")
	if err == nil {
		c.emit(Event{Kind: TaskDeleted, Task: task})
	}
	return true, err
}

// ClearAll empties the store after an affirmative confirmation. On an empty
// store it neither prompts nor notifies. A declined prompt reports
// cleared=false with no error.
func (c *Controller) ClearAll(ctx context.Context) (cleared bool, err error) {
	if c.store.Len() == 0 {
		return false, nil
	}
	if c.confirmer == nil || !c.confirmer.Confirm(ClearPrompt) {
		c.logger.Debug("clear all declined")
		return false, nil
	}

	n := c.store.Clear()
	c.logger.Debug("all tasks cleared", "count", n)

	err = c.persist(ctx, "clear")
	if err == nil {
		c.emit(Event{Kind: AllCleared, Count: n})
	}
	return true, err
}

// Find returns the task with id.
func (c *Controller) Find(id int64) (todo.Task, bool) {
	return c.store.Find(id)
}

// Tasks yields the current tasks in insertion order.
func (c *Controller) Tasks() iter.Seq[todo.Task] {
	return c.store.All()
}

// Len returns the number of tasks.
func (c *Controller) Len() int {
	return c.store.Len()
}

// PendingCount returns the number of tasks not yet completed.
func (c *Controller) PendingCount() int {
	return c.store.PendingCount()
}

// persist saves the store. A failed save keeps the in-memory mutation but
// suppresses the notification; the caller gets the StorageError and durable
// state lags until the next save.
func (c *Controller) persist(ctx context.Context, op string) error {
	err := c.store.Save(ctx)
	if err == nil {
		return nil
	}
	var se *todo.StorageError
	if errors.As(err, &se) {
		c.logger.Error("save failed, in-memory state is ahead of storage", "op", op, "slot", se.Key, "err", se.Err)
	} else {
		c.logger.Error("save failed", "op", op, "err", err)
	}
	return err
}

func (c *Controller) emit(ev Event) {
	ev.Pending = c.store.PendingCount()
	ev.Total = c.store.Len()
	ev.At = c.now()
	for _, l := range c.listeners {
		l.Notify(ev)
	}
}
