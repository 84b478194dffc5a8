// Package clock provides the monotonic wall-clock source used for cooldowns and
// the time-scale multiplier used for motion.
package clock

import (
	"sync"
	"time"
)

// Clock reports the current monotonic time.
// Cooldowns and debounce timers read it; they are never time-scaled.
type Clock interface {
	Now() time.Time
}

// System is the real clock. time.Now carries a monotonic reading.
type System struct{}

// Now returns the current time with monotonic clock reading.
func (System) Now() time.Time {
	return time.Now()
}

// Manual is a controllable Clock for tests and replays.
type Manual struct {
	mu  sync.RWMutex
	now time.Time
}

// NewManual creates a manual clock starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the current manual time.
func (m *Manual) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.now
}

// Set moves the clock to t.
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}

// Advance moves the clock forward by d.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}
