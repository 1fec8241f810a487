// Package ui provides the interactive terminal task list.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nibzard/blossom/internal/controller"
	"github.com/nibzard/blossom/internal/effects"
	"github.com/nibzard/blossom/internal/todo"
)

// Default timings.
const (
	DefaultTickInterval = 120 * time.Millisecond
	AmbientTickInterval = 250 * time.Millisecond
	ShakeDuration       = 500 * time.Millisecond
	defaultWidth        = 60
)

// Prompt is the clear-all confirmation collaborator. The TUI asks y/n
// itself, records the answer here, then calls ClearAll, which reads it
// back through Confirm. Pass the same Prompt to controller.WithConfirmer
// and WithPrompt.
type Prompt struct {
	answer bool
	asked  string
}

// Confirm returns the recorded answer once. Later calls decline until a
// new answer is recorded.
func (p *Prompt) Confirm(question string) bool {
	p.asked = question
	answer := p.answer
	p.answer = false
	return answer
}

// Asked returns the last question received.
func (p *Prompt) Asked() string {
	return p.asked
}

func (p *Prompt) set(answer bool) {
	p.answer = answer
}

// Option configures the TUI.
type Option func(*Model)

// WithPrompt sets the confirmation collaborator shared with the controller.
func WithPrompt(p *Prompt) Option {
	return func(m *Model) {
		if p != nil {
			m.prompt = p
		}
	}
}

// WithEffects enables decorations driven by trig. The model subscribes
// trig to the controller.
func WithEffects(trig *effects.Trigger) Option {
	return func(m *Model) {
		m.effects = trig
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithClock sets the time source used for animations.
func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		if now != nil {
			m.now = now
		}
	}
}

// Run starts the TUI over ctrl and blocks until the user quits.
func Run(ctx context.Context, ctrl *controller.Controller, opts ...Option) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}
	model := NewModel(ctx, ctrl, opts...)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

type focus int

const (
	focusInput focus = iota
	focusList
)

// Model is the bubbletea model for the task list.
type Model struct {
	ctx     context.Context
	ctrl    *controller.Controller
	prompt  *Prompt
	effects *effects.Trigger
	logger  *log.Logger
	now     func() time.Time

	input      textinput.Model
	focus      focus
	tasks      []todo.Task
	cursor     int
	width      int
	confirming bool
	status     string
	statusErr  bool
	shakeUntil time.Time
	ticking    bool
}

type tickMsg time.Time

// NewModel builds the model and subscribes it to ctrl. It must be created
// once per controller.
func NewModel(ctx context.Context, ctrl *controller.Controller, opts ...Option) *Model {
	ti := textinput.New()
	ti.Placeholder = "What needs doing?"
	ti.CharLimit = 256
	ti.Width = defaultWidth - 4
	ti.Focus()

	m := &Model{
		ctx:    ctx,
		ctrl:   ctrl,
		prompt: &Prompt{},
		logger: log.New(io.Discard),
		now:    time.Now,
		input:  ti,
		width:  defaultWidth,
	}
	for _, opt := range opts {
		opt(m)
	}

	ctrl.Subscribe(controller.ListenerFunc(m.notify))
	if m.effects != nil {
		ctrl.Subscribe(m.effects)
	}
	m.reload()
	return m
}

// notify keeps the view in step with the controller.
func (m *Model) notify(ev controller.Event) {
	m.reload()
	switch ev.Kind {
	case controller.TaskAdded:
		m.setStatus(fmt.Sprintf("Added %q", ev.Task.Text), false)
		m.cursor = len(m.tasks) - 1
	case controller.TaskToggled:
		if ev.Task.Completed {
			m.setStatus(fmt.Sprintf("Done: %q", ev.Task.Text), false)
		} else {
			m.setStatus(fmt.Sprintf("Reopened %q", ev.Task.Text), false)
		}
	case controller.TaskDeleted:
		m.setStatus(fmt.Sprintf("Deleted %q", ev.Task.Text), false)
	case controller.AllCleared:
		m.setStatus(fmt.Sprintf("Cleared %d task(s)", ev.Count), false)
	}
	m.cursor = clampCursor(m.cursor, len(m.tasks))
}

func (m *Model) reload() {
	m.tasks = slices.Collect(m.ctrl.Tasks())
	m.cursor = clampCursor(m.cursor, len(m.tasks))
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.startTick())
}

// startTick returns a tick command unless one is already scheduled.
// Ticks run while effects are enabled or a shake is in progress.
func (m *Model) startTick() tea.Cmd {
	if m.ticking || !m.animating() {
		return nil
	}
	m.ticking = true
	return tickCmd(m.tickInterval())
}

func (m *Model) animating() bool {
	return m.effects != nil || m.now().Before(m.shakeUntil)
}

// tickInterval is fast while a shake or a triggered effect is running and
// drops to the ambient rate otherwise.
func (m *Model) tickInterval() time.Duration {
	if m.now().Before(m.shakeUntil) || (m.effects != nil && m.effects.Pending()) {
		return DefaultTickInterval
	}
	return AmbientTickInterval
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = max(msg.Width, 20)
		m.input.Width = m.width - 4
		return m, nil
	case tickMsg:
		m.ticking = false
		return m, m.startTick()
	case tea.KeyMsg:
		if m.confirming {
			return m, m.updateConfirm(msg.String())
		}
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+l":
			m.askClear()
			return m, nil
		}
		if m.focus == focusInput {
			return m, m.updateInput(msg)
		}
		return m, m.updateList(msg.String())
	}

	if m.focus == focusInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) updateInput(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		return m.add()
	case "esc", "tab":
		if len(m.tasks) == 0 {
			return nil
		}
		m.focus = focusList
		m.input.Blur()
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) updateList(key string) tea.Cmd {
	switch key {
	case "q":
		return tea.Quit
	case "up", "k":
		m.cursor = clampCursor(m.cursor-1, len(m.tasks))
	case "down", "j":
		m.cursor = clampCursor(m.cursor+1, len(m.tasks))
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = clampCursor(len(m.tasks)-1, len(m.tasks))
	case " ", "enter":
		if task, ok := m.selected(); ok {
			_, err := m.ctrl.ToggleComplete(m.ctx, task.ID)
			m.report(err)
		}
	case "d", "x", "delete", "backspace":
		if task, ok := m.selected(); ok {
			_, err := m.ctrl.DeleteTask(m.ctx, task.ID)
			m.report(err)
		}
		if len(m.tasks) == 0 {
			return m.focusInput()
		}
	case "C":
		m.askClear()
	case "a", "i", "tab", "esc":
		return m.focusInput()
	}
	return m.startTick()
}

func (m *Model) focusInput() tea.Cmd {
	m.focus = focusInput
	return m.input.Focus()
}

func (m *Model) add() tea.Cmd {
	_, err := m.ctrl.AddTask(m.ctx, m.input.Value())
	if todo.IsValidation(err) {
		m.shakeUntil = m.now().Add(ShakeDuration)
		m.setStatus("Type a task first", true)
		return m.startTick()
	}
	m.input.SetValue("")
	m.report(err)
	return m.startTick()
}

// askClear opens the y/n confirmation. An empty list never prompts.
func (m *Model) askClear() {
	if m.ctrl.Len() == 0 {
		return
	}
	m.confirming = true
	m.setStatus(controller.ClearPrompt+" (y/n)", false)
}

func (m *Model) updateConfirm(key string) tea.Cmd {
	var answer bool
	switch key {
	case "y", "Y":
		answer = true
	case "n", "N", "esc", "q":
	case "ctrl+c":
		return tea.Quit
	default:
		return nil
	}
	m.confirming = false
	m.prompt.set(answer)
	cleared, err := m.ctrl.ClearAll(m.ctx)
	m.report(err)
	if !cleared && err == nil {
		m.setStatus("Kept all tasks", false)
	}
	if m.ctrl.Len() == 0 {
		return tea.Batch(m.focusInput(), m.startTick())
	}
	return m.startTick()
}

// report surfaces an operation error in the status line. Storage errors
// leave the change applied in memory.
func (m *Model) report(err error) {
	switch {
	case err == nil:
	case todo.IsStorage(err):
		// The change stands in memory but no notification was sent.
		m.reload()
		m.setStatus("Not saved: "+err.Error(), true)
	default:
		m.logger.Warn("operation failed", "err", err)
		m.setStatus(err.Error(), true)
	}
}

func (m *Model) selected() (todo.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return todo.Task{}, false
	}
	return m.tasks[m.cursor], true
}

func clampCursor(cursor, n int) int {
	if n <= 0 {
		return 0
	}
	if cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
