package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func openTestSlots(t *testing.T) map[string]Slot {
	t.Helper()
	dir := t.TempDir()

	fileSlot, err := NewFileSlot(filepath.Join(dir, "files"))
	if err != nil {
		t.Fatalf("NewFileSlot: %v", err)
	}
	sqliteSlot, err := OpenSQLiteSlot(filepath.Join(dir, "db", SQLiteFileName))
	if err != nil {
		t.Fatalf("OpenSQLiteSlot: %v", err)
	}

	slots := map[string]Slot{
		BackendFile:   fileSlot,
		BackendSQLite: sqliteSlot,
		BackendMemory: NewMemorySlot(),
	}
	t.Cleanup(func() {
		for _, s := range slots {
			s.Close()
		}
	})
	return slots
}

func TestSlotContract(t *testing.T) {
	for name, slot := range openTestSlots(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if _, err := slot.Get(ctx, "tasks"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Get on empty slot: got %v, want ErrNotFound", err)
			}

			if err := slot.Set(ctx, "tasks", []byte(`[{"id":1}]`)); err != nil {
				t.Fatalf("Set: %v", err)
			}
			got, err := slot.Get(ctx, "tasks")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if string(got) != `[{"id":1}]` {
				t.Errorf("Get: got %s", got)
			}

			// Set fully overwrites, including with a shorter value.
			if err := slot.Set(ctx, "tasks", []byte(`[]`)); err != nil {
				t.Fatalf("Set: %v", err)
			}
			got, err = slot.Get(ctx, "tasks")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if string(got) != `[]` {
				t.Errorf("Get after overwrite: got %s", got)
			}

			if err := slot.Set(ctx, "other", []byte(`x`)); err != nil {
				t.Fatalf("Set other: %v", err)
			}
			got, _ = slot.Get(ctx, "tasks")
			if string(got) != `[]` {
				t.Errorf("keys must be independent, got %s", got)
			}

			// Keys that differ only in punctuation or case stay apart.
			similar := []string{"my tasks", "my_tasks", "My_Tasks", "my%20tasks"}
			for _, key := range similar {
				if err := slot.Set(ctx, key, []byte(key)); err != nil {
					t.Fatalf("Set %q: %v", key, err)
				}
			}
			for _, key := range similar {
				got, err := slot.Get(ctx, key)
				if err != nil {
					t.Fatalf("Get %q: %v", key, err)
				}
				if string(got) != key {
					t.Errorf("Get %q: got %q", key, got)
				}
			}

			if err := slot.Set(ctx, "  ", []byte(`x`)); err == nil {
				t.Error("expected error for blank key")
			}
			if _, err := slot.Get(ctx, ""); err == nil {
				t.Error("expected error for empty key")
			}
		})
	}
}

func TestFileSlotLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	slot, err := NewFileSlot(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := slot.Set(ctx, "tasks", []byte(`[]`)); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "tasks.json" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("unexpected files: %v", names)
	}
}

func TestFileSlotCancelledContext(t *testing.T) {
	slot, err := NewFileSlot(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := slot.Set(ctx, "tasks", []byte(`[]`)); !errors.Is(err, context.Canceled) {
		t.Errorf("Set: got %v, want context.Canceled", err)
	}
	if _, err := slot.Get(ctx, "tasks"); !errors.Is(err, context.Canceled) {
		t.Errorf("Get: got %v, want context.Canceled", err)
	}
}

func TestEscapeKey(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"tasks", "tasks"},
		{"work-2.list", "work-2.list"},
		{"my tasks", "my%20tasks"},
		{"my_tasks", "my_tasks"},
		{"Tasks", "%54asks"},
		{"50%", "50%25"},
		{"../../etc/passwd", "%2E.%2F..%2Fetc%2Fpasswd"},
		{"a/b", "a%2Fb"},
	}
	for _, tt := range tests {
		if got := escapeKey(tt.input); got != tt.want {
			t.Errorf("escapeKey(%q): got %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSQLiteSlotPersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), SQLiteFileName)
	ctx := context.Background()

	first, err := OpenSQLiteSlot(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := first.Set(ctx, "tasks", []byte(`[{"id":1,"text":"a","completed":false}]`)); err != nil {
		t.Fatal(err)
	}
	if err := first.Close(); err != nil {
		t.Fatal(err)
	}

	second, err := OpenSQLiteSlot(path)
	if err != nil {
		t.Fatal(err)
	}
	defer second.Close()
	got, err := second.Get(ctx, "tasks")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(got), `"text":"a"`) {
		t.Errorf("Get after reopen: got %s", got)
	}
}

func TestMemorySlotFailNextWrite(t *testing.T) {
	slot := NewMemorySlot()
	ctx := context.Background()
	boom := errors.New("boom")

	slot.FailNextWrite(boom)
	if err := slot.Set(ctx, "tasks", []byte(`[]`)); !errors.Is(err, boom) {
		t.Fatalf("Set: got %v, want boom", err)
	}
	if slot.Writes() != 0 {
		t.Errorf("Writes: got %d, want 0", slot.Writes())
	}
	if err := slot.Set(ctx, "tasks", []byte(`[]`)); err != nil {
		t.Fatalf("second Set should succeed: %v", err)
	}
	if slot.Writes() != 1 {
		t.Errorf("Writes: got %d, want 1", slot.Writes())
	}
}

func TestMemorySlotReturnsCopies(t *testing.T) {
	slot := NewMemorySlot()
	ctx := context.Background()
	value := []byte("abc")
	if err := slot.Set(ctx, "k", value); err != nil {
		t.Fatal(err)
	}
	value[0] = 'z'
	got, _ := slot.Get(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("Set must copy input, got %s", got)
	}
	got[1] = 'z'
	again, _ := slot.Get(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("Get must return a copy, got %s", again)
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		backend string
		wantErr bool
	}{
		{"", false},
		{"file", false},
		{"FILE", false},
		{"sqlite", false},
		{"memory", false},
		{"redis", true},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			slot, err := Open(tt.backend, dir)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			slot.Close()
		})
	}
}
