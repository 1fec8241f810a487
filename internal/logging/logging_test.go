// Package logging provides tests for console logging and the journal.
package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/blossom/internal/controller"
	"github.com/nibzard/blossom/internal/todo"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  log.Level
	}{
		{"debug", log.DebugLevel},
		{"DEBUG", log.DebugLevel},
		{"info", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"warning", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"fatal", log.FatalLevel},
		{"", log.InfoLevel},
		{"loud", log.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q): got %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseFormatter(t *testing.T) {
	tests := []struct {
		input string
		want  log.Formatter
	}{
		{"json", log.JSONFormatter},
		{"logfmt", log.LogfmtFormatter},
		{"text", log.TextFormatter},
		{"", log.TextFormatter},
	}
	for _, tt := range tests {
		if got := ParseFormatter(tt.input); got != tt.want {
			t.Errorf("ParseFormatter(%q): got %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNewFromConfig(t *testing.T) {
	t.Run("respects level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewFromConfig(&buf, "warn", "text", false, false)
		logger.Info("hidden")
		logger.Warn("shown", "slot", "tasks")

		out := buf.String()
		if strings.Contains(out, "hidden") {
			t.Errorf("info should be filtered at warn level: %q", out)
		}
		if !strings.Contains(out, "shown") || !strings.Contains(out, "slot=tasks") {
			t.Errorf("missing warn output: %q", out)
		}
		if !strings.Contains(out, "blossom") {
			t.Errorf("missing prefix: %q", out)
		}
	})

	t.Run("json format", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewFromConfig(&buf, "debug", "json", false, false)
		logger.Debug("task added", "id", 7)

		var entry map[string]any
		if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
			t.Fatalf("expected JSON line, got %q: %v", buf.String(), err)
		}
		if entry["msg"] != "task added" {
			t.Errorf("msg: got %v", entry["msg"])
		}
	})
}

func TestDiscard(t *testing.T) {
	// Must not panic.
	Discard().Error("nothing to see")
}

func TestJournal(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	journal, err := OpenJournal(dir, nil)
	if err != nil {
		t.Fatalf("OpenJournal: %v", err)
	}

	at := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	journal.Notify(controller.Event{Kind: controller.TaskAdded, Task: todo.Task{ID: 1, Text: "Buy milk"}, Pending: 1, Total: 1, At: at})
	journal.Notify(controller.Event{Kind: controller.AllCleared, Count: 1, At: at})
	if err := journal.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	// Notify after close is a no-op.
	journal.Notify(controller.Event{Kind: controller.TaskDeleted})

	data, err := os.ReadFile(filepath.Join(dir, JournalFileName))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines: got %d, want 2: %q", len(lines), data)
	}

	var first controller.Event
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatal(err)
	}
	if first.Kind != controller.TaskAdded || first.Task.Text != "Buy milk" || !first.At.Equal(at) {
		t.Errorf("first entry: got %+v", first)
	}
	if strings.Contains(lines[1], `"task"`) {
		t.Errorf("clear entry should omit task: %s", lines[1])
	}

	// Reopening appends rather than truncating.
	again, err := OpenJournal(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	again.Notify(controller.Event{Kind: controller.TaskToggled, Task: todo.Task{ID: 1, Text: "Buy milk", Completed: true}})
	again.Close()
	data, _ = os.ReadFile(filepath.Join(dir, JournalFileName))
	if got := strings.Count(string(data), "\n"); got != 3 {
		t.Errorf("after reopen: got %d lines, want 3", got)
	}
}

func TestOpenJournalEmptyDir(t *testing.T) {
	if _, err := OpenJournal("", nil); err == nil {
		t.Fatal("expected error for empty dir")
	}
}

func TestTailJournal(t *testing.T) {
	path := filepath.Join(t.TempDir(), JournalFileName)
	var content strings.Builder
	for i := 1; i <= 5; i++ {
		content.WriteString(`{"n":` + string(rune('0'+i)) + "}\n")
	}
	if err := os.WriteFile(path, []byte(content.String()), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		n    int
		want string
	}{
		{"last two", 2, "{\"n\":4}\n{\"n\":5}\n"},
		{"more than available", 10, content.String()},
		{"all", 0, content.String()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := TailJournal(&buf, path, tt.n); err != nil {
				t.Fatalf("TailJournal: %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("got %q, want %q", buf.String(), tt.want)
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		var buf bytes.Buffer
		if err := TailJournal(&buf, filepath.Join(t.TempDir(), "nope.jsonl"), 3); err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
		if buf.Len() != 0 {
			t.Errorf("expected no output, got %q", buf.String())
		}
	})
}
