package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/inscripciones/internal/attendee"
)

// ListAll returns every attendee in insertion order.
//
// Returns an empty slice (not nil) if the table is empty.
func (s *Store) ListAll(ctx context.Context) ([]attendee.Attendee, error) {
	return s.query(ctx, "list attendees", selectQuery("", stableOrderKey))
}

// Search returns every attendee whose first name, last name, national ID or
// email contains term. Matching is a case-sensitive substring test; an empty
// term matches every record. Results are in insertion order.
func (s *Store) Search(ctx context.Context, term string) ([]attendee.Attendee, error) {
	if term == "" {
		return s.ListAll(ctx)
	}
	where, params := searchPredicate(term)
	return s.query(ctx, "search attendees", selectQuery(where, stableOrderKey), params...)
}

// SortBy returns every attendee ordered ascending by field, ties broken by id.
func (s *Store) SortBy(ctx context.Context, field attendee.SortField) ([]attendee.Attendee, error) {
	order, err := orderBy(field)
	if err != nil {
		return nil, fmt.Errorf("sort attendees: %w", err)
	}
	return s.query(ctx, "sort attendees", selectQuery("", order))
}

// FindByNationalID returns the attendee registered with nationalID.
// Returns attendee.KindNotFound if there is none.
func (s *Store) FindByNationalID(ctx context.Context, nationalID string) (attendee.Attendee, error) {
	db, err := s.handle(ctx)
	if err != nil {
		return attendee.Attendee{}, err
	}

	row := db.QueryRowContext(ctx, selectQuery("dni = ?", stableOrderKey), nationalID)
	a, err := scanAttendee(row)
	if errors.Is(err, sql.ErrNoRows) {
		return attendee.Attendee{}, attendee.NewError(attendee.KindNotFound, attendee.FieldNationalID)
	}
	if err != nil {
		return attendee.Attendee{}, fmt.Errorf("find attendee: %w", unavailable(err))
	}
	return a, nil
}

// CountAll returns the total number of attendees.
func (s *Store) CountAll(ctx context.Context) (int, error) {
	db, err := s.handle(ctx)
	if err != nil {
		return 0, err
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM inscriptos").Scan(&count); err != nil {
		return 0, fmt.Errorf("count attendees: %w", unavailable(err))
	}
	return count, nil
}

// CountByInstitution returns the number of attendees per institution.
// Missing or blank institutions are grouped under attendee.NoInstitution.
func (s *Store) CountByInstitution(ctx context.Context) (map[string]int, error) {
	db, err := s.handle(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT COALESCE(NULLIF(TRIM(institucion), ''), ?) AS grupo, COUNT(*)
		FROM inscriptos
		GROUP BY grupo
		ORDER BY grupo COLLATE BINARY ASC
	`, attendee.NoInstitution)
	if err != nil {
		return nil, fmt.Errorf("count by institution: %w", unavailable(err))
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			institution string
			count       int
		)
		if err := rows.Scan(&institution, &count); err != nil {
			return nil, fmt.Errorf("count by institution: scan: %w", unavailable(err))
		}
		counts[institution] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("count by institution: iterate: %w", unavailable(err))
	}

	return counts, nil
}

// query runs a listing query and scans every row.
func (s *Store) query(ctx context.Context, op, query string, args ...any) ([]attendee.Attendee, error) {
	db, err := s.handle(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, unavailable(err))
	}
	defer rows.Close()

	var out []attendee.Attendee
	for rows.Next() {
		a, err := scanAttendee(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, unavailable(err))
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: iterate: %w", op, unavailable(err))
	}

	// Return empty slice instead of nil
	if out == nil {
		out = []attendee.Attendee{}
	}
	return out, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanAttendee(row scanner) (attendee.Attendee, error) {
	var (
		a    attendee.Attendee
		date string
	)
	err := row.Scan(
		&a.ID,
		&a.FirstName,
		&a.LastName,
		&a.NationalID,
		&a.Email,
		&a.Phone,
		&date,
		&a.Institution,
	)
	if err != nil {
		return attendee.Attendee{}, err
	}

	a.RegistrationDate, err = parseDate(date)
	if err != nil {
		return attendee.Attendee{}, fmt.Errorf("attendee %d: %w", a.ID, err)
	}
	return a, nil
}

// parseDate reads the leading YYYY-MM-DD of a stored date. Empty stays zero.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if len(s) > len(attendee.DateLayout) {
		s = s[:len(attendee.DateLayout)]
	}
	t, err := time.Parse(attendee.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid registration date %q: %w", s, err)
	}
	return t, nil
}
