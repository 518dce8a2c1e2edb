package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/inscripciones/internal/attendee"
	"github.com/roach88/inscripciones/internal/testutil"
)

// createTestStore creates a new file-backed store in a temp dir for testing.
// Registration dates come from a clock fixed on 2024-03-01.
func createTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	opts = append([]Option{WithClock(testutil.NewCalendarClock(2024, time.March, 1))}, opts...)
	s, err := Open(path, opts...)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// testAttendee creates an attendee with the required fields filled in.
func testAttendee(firstName, lastName, nationalID string) attendee.Attendee {
	return attendee.Attendee{
		FirstName:  firstName,
		LastName:   lastName,
		NationalID: nationalID,
		Email:      nationalID + "@example.com",
	}
}
