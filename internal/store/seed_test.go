package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/inscripciones/internal/attendee"
)

func TestSampleAttendees(t *testing.T) {
	samples, err := SampleAttendees()
	require.NoError(t, err)
	require.Len(t, samples, 5)

	want := []struct{ first, last, dni, date string }{
		{"María", "Gómez", "30123456", "2024-01-15"},
		{"Carlos", "López", "32234567", "2024-01-16"},
		{"Ana", "Martínez", "34345678", "2024-01-17"},
		{"Pedro", "Rodríguez", "36456789", "2024-01-18"},
		{"Laura", "Fernández", "38567890", "2024-01-19"},
	}
	for i, w := range want {
		assert.Equal(t, w.first, samples[i].FirstName)
		assert.Equal(t, w.last, samples[i].LastName)
		assert.Equal(t, w.dni, samples[i].NationalID)
		assert.Equal(t, w.date, samples[i].RegisteredOn())
		assert.Contains(t, samples[i].Email, "@")
	}
}

func TestSeed_EmptyStore(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	n, err := s.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	total, err := s.CountAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, total)

	counts, err := s.CountByInstitution(ctx)
	require.NoError(t, err)
	assert.Len(t, counts, 5)
	for institution, c := range counts {
		assert.Equal(t, 1, c, institution)
	}
	assert.NotContains(t, counts, attendee.NoInstitution)
}

func TestSeed_KeepsLiteralDates(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	_, err := s.Seed(ctx)
	require.NoError(t, err)

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15", all[0].RegisteredOn())
	assert.Equal(t, "2024-01-19", all[4].RegisteredOn())
}

func TestSeed_NonEmptyStoreUntouched(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	_, err := s.Insert(ctx, testAttendee("Solo", "Uno", "11111111"))
	require.NoError(t, err)

	n, err := s.Seed(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	total, err := s.CountAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestSeed_Idempotent(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	_, err := s.Seed(ctx)
	require.NoError(t, err)
	n, err := s.Seed(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	total, err := s.CountAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
}

func TestSeed_FailedRowLeavesTableEmpty(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	// Reject the third sample row.
	_, err := s.DB().Exec(`
		CREATE TRIGGER reject_third BEFORE INSERT ON inscriptos
		WHEN NEW.dni = '34345678'
		BEGIN SELECT RAISE(ABORT, 'disk full'); END
	`)
	require.NoError(t, err)

	n, err := s.Seed(ctx)
	require.Error(t, err)
	assert.Zero(t, n)

	total, err := s.CountAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, total, "earlier sample rows must not be committed")

	_, err = s.DB().Exec(`DROP TRIGGER reject_third`)
	require.NoError(t, err)

	n, err = s.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	total, err = s.CountAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
}

func TestSeed_ClosedStore(t *testing.T) {
	s := createTestStore(t)
	require.NoError(t, s.Close())

	_, err := s.Seed(context.Background())
	assert.True(t, attendee.IsKind(err, attendee.KindStorageUnavailable), "got %v", err)
}
