package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nibzard/blossom/internal/config"
	"github.com/nibzard/blossom/internal/controller"
	"github.com/nibzard/blossom/internal/todo"
	"github.com/nibzard/blossom/internal/ui"
)

// addCommand adds one task from the remaining arguments.
func addCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: blossom add <text...>")
	}
	s, err := openSession(ctx, cfg, stderr, false)
	if err != nil {
		return err
	}
	defer s.Close()

	task, err := s.ctrl.AddTask(ctx, joinArgs(args))
	if todo.IsValidation(err) {
		return fmt.Errorf("nothing to add: %w", err)
	}
	if task.ID != 0 {
		fmt.Fprintf(stdout, "Added %d: %s\n", task.ID, task.Text)
	}
	return finish(err)
}

// doneCommand toggles the completed flag of one task.
func doneCommand(ctx context.Context, cfg *config.Config, args []string) error {
	id, err := parseID("done", args)
	if err != nil {
		return err
	}
	s, err := openSession(ctx, cfg, stderr, false)
	if err != nil {
		return err
	}
	defer s.Close()

	task, err := s.ctrl.ToggleComplete(ctx, id)
	if todo.IsNotFound(err) {
		return err
	}
	state := "pending"
	if task.Completed {
		state = "done"
	}
	fmt.Fprintf(stdout, "Marked %d %s: %s\n", task.ID, state, task.Text)
	return finish(err)
}

// rmCommand deletes one task. An unknown id is not an error.
func rmCommand(ctx context.Context, cfg *config.Config, args []string) error {
	id, err := parseID("rm", args)
	if err != nil {
		return err
	}
	s, err := openSession(ctx, cfg, stderr, false)
	if err != nil {
		return err
	}
	defer s.Close()

	removed, err := s.ctrl.DeleteTask(ctx, id)
	if removed {
		fmt.Fprintf(stdout, "Deleted %d\n", id)
	} else {
		fmt.Fprintf(stdout, "No task %d, nothing deleted\n", id)
	}
	return finish(err)
}

// clearCommand deletes every task after a y/N answer on stdin.
func clearCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("blossom clear", flag.ContinueOnError)
	fs.SetOutput(stderr)
	yes := fs.Bool("yes", false, "Skip the confirmation prompt")
	fs.BoolVar(yes, "y", false, "Skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	var confirmer controller.Confirmer = stdinConfirmer{in: stdin, out: stdout}
	if *yes {
		confirmer = controller.ConfirmFunc(func(string) bool { return true })
	}
	s, err := openSession(ctx, cfg, stderr, false, controller.WithConfirmer(confirmer))
	if err != nil {
		return err
	}
	defer s.Close()

	if s.ctrl.Len() == 0 {
		fmt.Fprintln(stdout, "Nothing to clear.")
		return nil
	}
	n := s.ctrl.Len()
	cleared, err := s.ctrl.ClearAll(ctx)
	if cleared {
		fmt.Fprintf(stdout, "Cleared %d task(s)\n", n)
	} else {
		fmt.Fprintln(stdout, "Kept all tasks.")
	}
	return finish(err)
}

// stdinConfirmer asks a y/N question on out and reads the answer from in.
// Anything but y or yes declines.
type stdinConfirmer struct {
	in  io.Reader
	out io.Writer
}

func (c stdinConfirmer) Confirm(prompt string) bool {
	fmt.Fprintf(c.out, "%s [y/N] ", prompt)
	line, err := bufio.NewReader(c.in).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(c.out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// lsCommand prints the task list.
func lsCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("blossom ls", flag.ContinueOnError)
	fs.SetOutput(stderr)
	format := fs.String("format", "text", "Output format: text, json or yaml")
	pending := fs.Bool("pending", false, "Only show pending tasks")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	s, err := openSession(ctx, cfg, stderr, false)
	if err != nil {
		return err
	}
	defer s.Close()

	tasks := []todo.Task{}
	for task := range s.ctrl.Tasks() {
		if *pending && task.Completed {
			continue
		}
		tasks = append(tasks, task)
	}

	switch strings.ToLower(*format) {
	case "text", "":
		printTaskList(stdout, tasks, s.ctrl.PendingCount())
		return nil
	case "json":
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(tasks)
	case "yaml", "yml":
		enc := yaml.NewEncoder(stdout)
		enc.SetIndent(2)
		if err := enc.Encode(tasks); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("invalid format %q, must be text, json or yaml", *format)
	}
}

func printTaskList(w io.Writer, tasks []todo.Task, pending int) {
	fmt.Fprintln(w, ui.PendingText(pending))
	if len(tasks) == 0 {
		return
	}
	fmt.Fprintln(w)
	for _, t := range tasks {
		printTask(w, t)
	}
}

func printTask(w io.Writer, t todo.Task) {
	check := "[ ]"
	if t.Completed {
		check = "[x]"
	}
	fmt.Fprintf(w, "  %s %d  %s\n", check, t.ID, t.Text)
}

func parseID(command string, args []string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("usage: blossom %s <id>", command)
	}
	id, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) {
			err = numErr.Err
		}
		return 0, fmt.Errorf("invalid task id %q: %w", args[0], err)
	}
	return id, nil
}
