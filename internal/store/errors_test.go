package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/inscripciones/internal/attendee"
	"github.com/roach88/inscripciones/internal/testutil"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db, WithClock(testutil.NewCalendarClock(2024, time.March, 1))), mock
}

func TestInsert_WriteFailureIsStorageUnavailable(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO inscriptos").
		WithArgs("Ana", "Martínez", "34345678", "34345678@example.com", "", "2024-03-01", "").
		WillReturnError(errors.New("disk I/O error"))

	_, err := s.Insert(context.Background(), testAttendee("Ana", "Martínez", "34345678"))
	require.Error(t, err)
	assert.True(t, attendee.IsKind(err, attendee.KindStorageUnavailable), "got %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert_UniqueMessageIsDuplicateKey(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO inscriptos").
		WillReturnError(errors.New("UNIQUE constraint failed: inscriptos.dni"))

	_, err := s.Insert(context.Background(), testAttendee("Ana", "Martínez", "34345678"))
	assert.True(t, attendee.IsKind(err, attendee.KindDuplicateKey), "got %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert_ReturnsLastInsertID(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO inscriptos").WillReturnResult(sqlmock.NewResult(42, 1))

	got, err := s.Insert(context.Background(), testAttendee("Ana", "Martínez", "34345678"))
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.ID)
	assert.Equal(t, "2024-03-01", got.RegisteredOn())
}

func TestListAll_QueryFailureIsStorageUnavailable(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT .* FROM inscriptos ORDER BY id ASC").
		WillReturnError(errors.New("database is locked"))

	_, err := s.ListAll(context.Background())
	assert.True(t, attendee.IsKind(err, attendee.KindStorageUnavailable), "got %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAll_RowErrorIsStorageUnavailable(t *testing.T) {
	s, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"id", "nombre", "apellido", "dni", "email", "telefono", "fecha", "institucion"}).
		AddRow(1, "Ana", "Martínez", "34345678", "a@b", "", "2024-01-17", "").
		RowError(0, errors.New("corrupt page"))
	mock.ExpectQuery("FROM inscriptos").WillReturnRows(rows)

	_, err := s.ListAll(context.Background())
	assert.True(t, attendee.IsKind(err, attendee.KindStorageUnavailable), "got %v", err)
}

func TestListAll_BadStoredDate(t *testing.T) {
	s, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"id", "nombre", "apellido", "dni", "email", "telefono", "fecha", "institucion"}).
		AddRow(1, "Ana", "Martínez", "34345678", "a@b", "", "17/01/2024", "")
	mock.ExpectQuery("FROM inscriptos").WillReturnRows(rows)

	_, err := s.ListAll(context.Background())
	assert.True(t, attendee.IsKind(err, attendee.KindStorageUnavailable), "got %v", err)
}

func TestCountAll_FailureIsStorageUnavailable(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT COUNT").WillReturnError(errors.New("no such table: inscriptos"))

	_, err := s.CountAll(context.Background())
	assert.True(t, attendee.IsKind(err, attendee.KindStorageUnavailable), "got %v", err)
}

func TestSearch_BindsTermForEveryColumn(t *testing.T) {
	s, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"id", "nombre", "apellido", "dni", "email", "telefono", "fecha", "institucion"})
	mock.ExpectQuery(`WHERE instr\(nombre, \?\) > 0`).
		WithArgs("x%", "x%", "x%", "x%").
		WillReturnRows(rows)

	got, err := s.Search(context.Background(), "x%")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCanceledContext(t *testing.T) {
	s, _ := newMockStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ListAll(ctx)
	assert.True(t, attendee.IsKind(err, attendee.KindStorageUnavailable))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, isUniqueViolation(nil))
	assert.False(t, isUniqueViolation(errors.New("database is locked")))
	assert.True(t, isUniqueViolation(errors.New("UNIQUE constraint failed: inscriptos.dni")))
}

func TestSeed_RollsBackOnWriteFailure(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COUNT").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("INSERT INTO inscriptos").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO inscriptos").WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec("INSERT INTO inscriptos").WillReturnError(errors.New("database or disk is full"))
	mock.ExpectRollback()

	n, err := s.Seed(context.Background())
	require.Error(t, err)
	assert.Zero(t, n)
	assert.True(t, attendee.IsKind(err, attendee.KindStorageUnavailable), "got %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeed_CommitsOnce(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COUNT").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	for i := 1; i <= 5; i++ {
		mock.ExpectExec("INSERT INTO inscriptos").WillReturnResult(sqlmock.NewResult(int64(i), 1))
	}
	mock.ExpectCommit()

	n, err := s.Seed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
