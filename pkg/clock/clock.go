package clock

import (
	"sync"
	"time"
)

// Clock supplies ledger time in whole seconds. The engine reads it exactly
// once per call and treats the value as authoritative for that call.
type Clock interface {
	Now() uint64
}

// System reads the host wall clock.
type System struct{}

// Now returns the current Unix time in seconds.
func (System) Now() uint64 { return uint64(time.Now().Unix()) }

// Manual is a hand-advanced clock for deterministic tests. Time never moves
// unless Set or Advance is called, and Set refuses to go backwards so the
// monotonicity assumption of the engine holds.
type Manual struct {
	mu  sync.Mutex
	now uint64
}

// NewManual returns a Manual clock starting at the given timestamp.
func NewManual(now uint64) *Manual { return &Manual{now: now} }

// Now returns the current manual time.
func (m *Manual) Now() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Set moves the clock to ts. Values earlier than the current time are ignored.
func (m *Manual) Set(ts uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ts > m.now {
		m.now = ts
	}
}

// Advance moves the clock forward by d seconds.
func (m *Manual) Advance(d uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now += d
}
