// Package effects turns controller notifications into short-lived
// decorative effects: a bloom on add, a flutter on toggle, a bird flying
// away on delete, and a petal shower on clear.
package effects

import (
	"math/rand/v2"
	"strings"
	"time"

	"github.com/nibzard/blossom/internal/controller"
)

// Name identifies an effect.
type Name string

const (
	Bloom   Name = "bloom"
	Flutter Name = "flutter"
	FlyAway Name = "fly-away"
	Shower  Name = "shower"
)

// Glyphs used when rendering the effect strip.
const (
	PetalGlyph     = "✿"
	ButterflyGlyph = "ʚ"
	BirdGlyph      = "v"
	FlowerGlyph    = "❀"
)

// Durations match the length of each animation.
const (
	BloomDuration   = 2 * time.Second
	FlutterDuration = 2 * time.Second
	FlyAwayDuration = 3 * time.Second
	ShowerDuration  = 3 * time.Second

	ShowerPetals  = 20
	ShowerStagger = 100 * time.Millisecond
)

// Ambient decoration counts present from startup.
const (
	AmbientPetals      = 15
	AmbientButterflies = 5
	AmbientBirds       = 3
)

// Effect is one running decoration.
type Effect struct {
	Name     Name
	Glyph    string
	Start    time.Time
	Duration time.Duration
	// Pos is a horizontal position in [0,1).
	Pos float64
}

// Expired reports whether the effect has finished at now.
func (e Effect) Expired(now time.Time) bool {
	return !now.Before(e.Start.Add(e.Duration))
}

// Progress returns how far through its run the effect is, in [0,1].
func (e Effect) Progress(now time.Time) float64 {
	if e.Duration <= 0 || !now.After(e.Start) {
		return 0
	}
	p := float64(now.Sub(e.Start)) / float64(e.Duration)
	if p > 1 {
		return 1
	}
	return p
}

// For maps a notification kind to the effect it fires.
func For(kind controller.Kind) (Name, bool) {
	switch kind {
	case controller.TaskAdded:
		return Bloom, true
	case controller.TaskToggled:
		return Flutter, true
	case controller.TaskDeleted:
		return FlyAway, true
	case controller.AllCleared:
		return Shower, true
	default:
		return "", false
	}
}

// Trigger is a controller listener that schedules effects. It never calls
// back into the controller. It is not safe for concurrent use.
type Trigger struct {
	rng     *rand.Rand
	active  []Effect
	ambient []Effect
	fired   map[Name]int
}

// NewTrigger returns a trigger with the ambient decorations in place.
// seed makes positions reproducible.
func NewTrigger(seed uint64) *Trigger {
	t := &Trigger{
		rng:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		fired: make(map[Name]int),
	}
	t.ambient = t.makeAmbient()
	return t
}

// Notify schedules the effect for ev. The event time is the start time.
func (t *Trigger) Notify(ev controller.Event) {
	name, ok := For(ev.Kind)
	if !ok {
		return
	}
	t.fired[name]++
	start := ev.At
	if start.IsZero() {
		start = time.Now()
	}

	switch name {
	case Bloom:
		t.active = append(t.active, Effect{Name: Bloom, Glyph: FlowerGlyph, Start: start, Duration: BloomDuration, Pos: 0.5})
	case Flutter:
		t.active = append(t.active, Effect{Name: Flutter, Glyph: ButterflyGlyph, Start: start, Duration: FlutterDuration, Pos: t.rng.Float64()})
	case FlyAway:
		t.active = append(t.active, Effect{Name: FlyAway, Glyph: BirdGlyph, Start: start, Duration: FlyAwayDuration, Pos: 0})
	case Shower:
		for i := 0; i < ShowerPetals; i++ {
			t.active = append(t.active, Effect{
				Name:     Shower,
				Glyph:    PetalGlyph,
				Start:    start.Add(time.Duration(i) * ShowerStagger),
				Duration: ShowerDuration,
				Pos:      t.rng.Float64(),
			})
		}
	}
}

// Fired returns how many times the named effect has been triggered.
func (t *Trigger) Fired(name Name) int {
	return t.fired[name]
}

// Active drops finished effects and returns those still running at now.
// Staggered effects that have not started yet are kept but not returned.
func (t *Trigger) Active(now time.Time) []Effect {
	kept := t.active[:0]
	var running []Effect
	for _, e := range t.active {
		if e.Expired(now) {
			continue
		}
		kept = append(kept, e)
		if !now.Before(e.Start) {
			running = append(running, e)
		}
	}
	t.active = kept
	return running
}

// Pending reports whether any effect is scheduled or running.
func (t *Trigger) Pending() bool {
	return len(t.active) > 0
}

// Ambient returns the looping background decorations.
func (t *Trigger) Ambient() []Effect {
	return t.ambient
}

// Render draws running effects onto a strip width cells wide.
// Moving effects advance with progress; the bloom stays centred.
func (t *Trigger) Render(now time.Time, width int) string {
	if width <= 0 {
		return ""
	}
	cells, place := newStrip(width)

	for _, e := range t.Active(now) {
		p := e.Progress(now)
		switch e.Name {
		case FlyAway:
			place(p, e.Glyph)
		case Flutter:
			// Drift a little either side of the start position.
			offset := 0.05
			if int(p*10)%2 == 1 {
				offset = -0.05
			}
			place(e.Pos+offset, e.Glyph)
		default:
			place(e.Pos, e.Glyph)
		}
	}
	return strings.TrimRight(strings.Join(cells, ""), " ")
}

// RenderAmbient draws the background decorations. Each one drifts across
// the strip once per its own period, measured from the unix epoch.
func (t *Trigger) RenderAmbient(now time.Time, width int) string {
	if width <= 0 {
		return ""
	}
	cells, place := newStrip(width)
	for _, e := range t.ambient {
		if e.Duration <= 0 {
			continue
		}
		phase := float64(now.UnixNano()%int64(e.Duration)) / float64(e.Duration)
		pos := e.Pos + phase
		if pos >= 1 {
			pos--
		}
		place(pos, e.Glyph)
	}
	return strings.TrimRight(strings.Join(cells, ""), " ")
}

func newStrip(width int) ([]string, func(pos float64, glyph string)) {
	cells := make([]string, width)
	for i := range cells {
		cells[i] = " "
	}
	place := func(pos float64, glyph string) {
		i := int(pos * float64(width))
		if i < 0 {
			i = 0
		}
		if i >= width {
			i = width - 1
		}
		cells[i] = glyph
	}
	return cells, place
}

func (t *Trigger) makeAmbient() []Effect {
	var out []Effect
	add := func(name Name, glyph string, n int, base, spread float64) {
		for i := 0; i < n; i++ {
			out = append(out, Effect{
				Name:     name,
				Glyph:    glyph,
				Duration: time.Duration((base + t.rng.Float64()*spread) * float64(time.Second)),
				Pos:      t.rng.Float64(),
			})
		}
	}
	add("petal", PetalGlyph, AmbientPetals, 5, 5)
	add("butterfly", ButterflyGlyph, AmbientButterflies, 4, 2)
	add("bird", BirdGlyph, AmbientBirds, 8, 4)
	return out
}
