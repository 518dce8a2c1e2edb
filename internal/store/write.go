package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/roach88/inscripciones/internal/attendee"
)

const insertSQL = `
	INSERT INTO inscriptos
	(nombre, apellido, dni, email, telefono, fecha_inscripcion, institucion)
	VALUES (?, ?, ?, ?, ?, ?, ?)
`

// Insert persists a new attendee stamped with today's date and returns the
// stored record with its assigned id.
//
// Fields are written as given: validation is the caller's job. A repeated
// national ID fails with attendee.KindDuplicateKey and leaves the table
// unchanged.
func (s *Store) Insert(ctx context.Context, a attendee.Attendee) (attendee.Attendee, error) {
	db, err := s.handle(ctx)
	if err != nil {
		return attendee.Attendee{}, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	return execInsert(ctx, db, a, s.clock.Today())
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// execInsert runs the insert statement on x. The caller holds writeMu.
func execInsert(ctx context.Context, x execer, a attendee.Attendee, day time.Time) (attendee.Attendee, error) {
	result, err := x.ExecContext(ctx, insertSQL,
		a.FirstName,
		a.LastName,
		a.NationalID,
		a.Email,
		a.Phone,
		day.Format(attendee.DateLayout),
		a.Institution,
	)
	if err != nil {
		return attendee.Attendee{}, fmt.Errorf("insert attendee: %w", classifyWriteError(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return attendee.Attendee{}, fmt.Errorf("insert attendee: last insert id: %w", unavailable(err))
	}

	a.ID = id
	a.RegistrationDate = day
	return a, nil
}
