package testutil

import (
	"sync"
	"time"
)

// CalendarClock is a controllable calendar for tests.
//
// It satisfies store.Clock. The day only changes when a test calls Advance or
// Set, so registration dates are reproducible.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type CalendarClock struct {
	mu  sync.Mutex
	day time.Time
}

// NewCalendarClock creates a clock fixed on the given calendar day (UTC).
func NewCalendarClock(year int, month time.Month, day int) *CalendarClock {
	return &CalendarClock{day: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current day.
func (c *CalendarClock) Today() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.day
}

// Advance moves the clock forward by n days (backwards if n is negative).
func (c *CalendarClock) Advance(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.day = c.day.AddDate(0, 0, n)
}

// Set moves the clock to an arbitrary day.
func (c *CalendarClock) Set(day time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
}
