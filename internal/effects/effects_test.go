package effects

import (
	"strings"
	"testing"
	"time"

	"github.com/nibzard/blossom/internal/controller"
	"github.com/nibzard/blossom/internal/todo"
)

func TestFor(t *testing.T) {
	tests := []struct {
		kind controller.Kind
		want Name
		ok   bool
	}{
		{controller.TaskAdded, Bloom, true},
		{controller.TaskToggled, Flutter, true},
		{controller.TaskDeleted, FlyAway, true},
		{controller.AllCleared, Shower, true},
		{controller.Kind("renamed"), "", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			got, ok := For(tt.kind)
			if got != tt.want || ok != tt.ok {
				t.Errorf("For(%q): got (%q, %v), want (%q, %v)", tt.kind, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestTriggerLifetimes(t *testing.T) {
	start := time.Unix(1_700_000_000, 0)
	tests := []struct {
		kind     controller.Kind
		name     Name
		duration time.Duration
	}{
		{controller.TaskAdded, Bloom, BloomDuration},
		{controller.TaskToggled, Flutter, FlutterDuration},
		{controller.TaskDeleted, FlyAway, FlyAwayDuration},
	}
	for _, tt := range tests {
		t.Run(string(tt.name), func(t *testing.T) {
			trig := NewTrigger(1)
			trig.Notify(controller.Event{Kind: tt.kind, Task: todo.Task{ID: 1, Text: "a"}, At: start})

			if trig.Fired(tt.name) != 1 {
				t.Errorf("Fired: got %d, want 1", trig.Fired(tt.name))
			}
			active := trig.Active(start.Add(tt.duration / 2))
			if len(active) != 1 || active[0].Name != tt.name {
				t.Fatalf("mid-run active: %+v", active)
			}
			if got := trig.Active(start.Add(tt.duration)); len(got) != 0 {
				t.Errorf("expected expiry at %s, still active: %+v", tt.duration, got)
			}
			if trig.Pending() {
				t.Error("nothing should remain scheduled")
			}
		})
	}
}

func TestShowerStaggersPetals(t *testing.T) {
	start := time.Unix(1_700_000_000, 0)
	trig := NewTrigger(7)
	trig.Notify(controller.Event{Kind: controller.AllCleared, Count: 3, At: start})

	if got := len(trig.Active(start)); got != 1 {
		t.Errorf("at start: got %d petals, want 1", got)
	}
	if got := len(trig.Active(start.Add(ShowerStagger * 5))); got != 6 {
		t.Errorf("after 5 staggers: got %d petals, want 6", got)
	}
	last := start.Add(ShowerStagger*(ShowerPetals-1) + ShowerDuration)
	if got := len(trig.Active(last)); got != 0 {
		t.Errorf("after last petal: got %d petals, want 0", got)
	}
}

func TestProgress(t *testing.T) {
	start := time.Unix(100, 0)
	e := Effect{Start: start, Duration: 2 * time.Second}
	if got := e.Progress(start.Add(-time.Second)); got != 0 {
		t.Errorf("before start: got %v", got)
	}
	if got := e.Progress(start.Add(time.Second)); got != 0.5 {
		t.Errorf("halfway: got %v", got)
	}
	if got := e.Progress(start.Add(5 * time.Second)); got != 1 {
		t.Errorf("after end: got %v", got)
	}
}

func TestRender(t *testing.T) {
	start := time.Unix(1_700_000_000, 0)
	trig := NewTrigger(3)

	if got := trig.Render(start, 0); got != "" {
		t.Errorf("zero width: got %q", got)
	}
	if got := trig.Render(start, 20); got != "" {
		t.Errorf("no effects: got %q", got)
	}

	trig.Notify(controller.Event{Kind: controller.TaskAdded, At: start})
	strip := trig.Render(start.Add(time.Second), 20)
	if !strings.Contains(strip, FlowerGlyph) {
		t.Errorf("bloom missing from %q", strip)
	}
	if idx := strings.Index(strip, FlowerGlyph); idx != 10 {
		t.Errorf("bloom should be centred at 10, got %d", idx)
	}

	trig.Notify(controller.Event{Kind: controller.TaskDeleted, At: start})
	early := strings.Index(trig.Render(start.Add(300*time.Millisecond), 30), BirdGlyph)
	late := strings.Index(trig.Render(start.Add(2*time.Second), 30), BirdGlyph)
	if early < 0 || late <= early {
		t.Errorf("bird should move right: early=%d late=%d", early, late)
	}
}

func TestAmbient(t *testing.T) {
	trig := NewTrigger(11)
	amb := trig.Ambient()
	if len(amb) != AmbientPetals+AmbientButterflies+AmbientBirds {
		t.Errorf("ambient count: got %d", len(amb))
	}
	strip := trig.RenderAmbient(time.Unix(0, 0), 40)
	if strip == "" {
		t.Error("ambient strip should not be empty")
	}

	again := NewTrigger(11).RenderAmbient(time.Unix(0, 0), 40)
	if strip != again {
		t.Errorf("same seed should render the same strip: %q vs %q", strip, again)
	}
}

func TestNotifyZeroTimeUsesNow(t *testing.T) {
	trig := NewTrigger(5)
	trig.Notify(controller.Event{Kind: controller.TaskAdded})
	if len(trig.Active(time.Now())) != 1 {
		t.Error("effect with zero event time should start now")
	}
}
