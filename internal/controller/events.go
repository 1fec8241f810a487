package controller

import (
	"time"

	"github.com/nibzard/blossom/internal/todo"
)

// Kind identifies which transition produced an Event.
type Kind string

const (
	TaskAdded   Kind = "task_added"
	TaskToggled Kind = "task_toggled"
	TaskDeleted Kind = "task_deleted"
	AllCleared  Kind = "all_cleared"
)

// Event is emitted after a mutation has been applied and saved.
type Event struct {
	Kind Kind `json:"kind"`
	// Task is the added task, the toggled task with its new state, or the
	// removed task. Zero for AllCleared.
	Task todo.Task `json:"task,omitzero"`
	// Count is the number of tasks removed by AllCleared.
	Count   int       `json:"count,omitempty"`
	Pending int       `json:"pending"`
	Total   int       `json:"total"`
	At      time.Time `json:"at"`
}

// Listener receives events. Implementations must not call back into the
// controller's mutating methods.
type Listener interface {
	Notify(Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Event)

// Notify calls f.
func (f ListenerFunc) Notify(ev Event) {
	f(ev)
}
