package todo

import "time"

// IDGenerator hands out task ids derived from wall-clock milliseconds.
// It is not safe for concurrent use.
type IDGenerator struct {
	now  func() time.Time
	last int64
}

// NewIDGenerator returns a generator reading time from now.
// A nil now uses time.Now.
func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

// Observe records an id that already exists so later ids sort after it.
func (g *IDGenerator) Observe(id int64) {
	if id > g.last {
		g.last = id
	}
}

// Next returns a new id strictly greater than every id handed out or observed.
// Same-millisecond calls and clock regressions fall back to last+1.
func (g *IDGenerator) Next() int64 {
	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}
