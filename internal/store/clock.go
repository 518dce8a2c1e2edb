package store

import "time"

// Clock supplies the calendar date stamped on new registrations.
type Clock interface {
	Today() time.Time
}

// SystemClock reads the local wall clock.
type SystemClock struct{}

// Today returns the current local date at midnight UTC, so that formatting
// with attendee.DateLayout yields the local calendar day.
func (SystemClock) Today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
