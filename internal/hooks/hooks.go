// Package hooks invokes an external command after each task list change.
package hooks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/blossom/internal/controller"
)

// DefaultTimeout bounds a single hook run.
const DefaultTimeout = 10 * time.Second

// Options configures a hook invocation.
type Options struct {
	Command string
	WorkDir string
	Timeout time.Duration
	// Stdout and Stderr receive the command's output. Nil discards it.
	Stdout io.Writer
	Stderr io.Writer
}

// Result captures the outcome of a hook invocation.
type Result struct {
	Ran      bool
	Command  []string
	ExitCode int
	Kind     controller.Kind
	TaskID   int64
}

// Invoke runs the hook command as
//
//	<command> <kind> <task id> <pending count>
//
// with the event encoded as JSON on stdin. The task id is 0 for a clear.
func Invoke(ctx context.Context, opts Options, ev controller.Event) (Result, error) {
	if opts.Command == "" {
		return Result{}, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	payload, err := json.Marshal(ev)
	if err != nil {
		return Result{}, fmt.Errorf("encode event: %w", err)
	}

	args := []string{
		string(ev.Kind),
		strconv.FormatInt(ev.Task.ID, 10),
		strconv.Itoa(ev.Pending),
	}
	cmd := exec.CommandContext(ctx, opts.Command, args...)
	if opts.WorkDir != "" {
		cmd.Dir = opts.WorkDir
	}
	cmd.Stdin = bytes.NewReader(append(payload, '\n'))
	cmd.Stdout = orDiscard(opts.Stdout)
	cmd.Stderr = orDiscard(opts.Stderr)
	cmd.WaitDelay = time.Second

	err = cmd.Run()
	result := Result{
		Ran:      true,
		Command:  cmd.Args,
		ExitCode: exitCodeFromError(err),
		Kind:     ev.Kind,
		TaskID:   ev.Task.ID,
	}
	if err != nil {
		return result, fmt.Errorf("hook command failed: %w", err)
	}
	return result, nil
}

// QueueSize is how many events a background Runner buffers before it
// starts dropping them.
const QueueSize = 16

// Runner is a controller listener that invokes the hook for every event.
// Failures are logged and never affect the task list.
type Runner struct {
	ctx    context.Context
	opts   Options
	logger *log.Logger

	queue     chan controller.Event
	done      chan struct{}
	closeOnce sync.Once
}

// NewRunner returns a Runner that runs the hook inline from Notify.
// A nil logger discards.
func NewRunner(ctx context.Context, opts Options, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{ctx: ctx, opts: opts, logger: logger}
}

// StartRunner returns a Runner that hands events to a single background
// worker, so Notify never waits for the command. Hooks still run one at a
// time in event order. Close stops the worker.
func StartRunner(ctx context.Context, opts Options, logger *log.Logger) *Runner {
	r := NewRunner(ctx, opts, logger)
	r.queue = make(chan controller.Event, QueueSize)
	r.done = make(chan struct{})
	go func() {
		defer close(r.done)
		for ev := range r.queue {
			r.run(ev)
		}
	}()
	return r
}

// Notify runs the hook for ev, or queues it on a background Runner.
func (r *Runner) Notify(ev controller.Event) {
	if r.queue == nil {
		r.run(ev)
		return
	}
	select {
	case r.queue <- ev:
	default:
		r.logger.Warn("hook queue full, event dropped", "kind", ev.Kind)
	}
}

// Close waits for queued hooks to finish. It is a no-op for an inline
// Runner and must not be called concurrently with Notify.
func (r *Runner) Close() error {
	if r.queue == nil {
		return nil
	}
	r.closeOnce.Do(func() { close(r.queue) })
	<-r.done
	return nil
}

func (r *Runner) run(ev controller.Event) {
	result, err := Invoke(r.ctx, r.opts, ev)
	if err != nil {
		r.logger.Warn("hook failed", "command", r.opts.Command, "kind", ev.Kind, "exit", result.ExitCode, "err", err)
		return
	}
	if result.Ran {
		r.logger.Debug("hook ran", "command", r.opts.Command, "kind", ev.Kind)
	}
}

func orDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}

func exitCodeFromError(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
