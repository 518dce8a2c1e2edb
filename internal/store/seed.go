package store

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/inscripciones/internal/attendee"
)

//go:embed seed.yaml
var seedYAML []byte

type seedRow struct {
	FirstName        string `yaml:"first_name"`
	LastName         string `yaml:"last_name"`
	NationalID       string `yaml:"national_id"`
	Email            string `yaml:"email"`
	Phone            string `yaml:"phone"`
	RegistrationDate string `yaml:"registration_date"`
	Institution      string `yaml:"institution"`
}

// SampleAttendees returns the built-in sample records, without ids.
func SampleAttendees() ([]attendee.Attendee, error) {
	var rows []seedRow
	if err := yaml.Unmarshal(seedYAML, &rows); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}

	out := make([]attendee.Attendee, 0, len(rows))
	for _, r := range rows {
		day, err := time.Parse(attendee.DateLayout, r.RegistrationDate)
		if err != nil {
			return nil, fmt.Errorf("parse seed data: %s: %w", r.NationalID, err)
		}
		out = append(out, attendee.Attendee{
			FirstName:        r.FirstName,
			LastName:         r.LastName,
			NationalID:       r.NationalID,
			Email:            r.Email,
			Phone:            r.Phone,
			RegistrationDate: day,
			Institution:      r.Institution,
		})
	}
	return out, nil
}

// Seed loads the sample attendees when the table is empty and returns how
// many were inserted. A non-empty table is left untouched.
//
// The rows are written in one transaction: either all of them are stored or
// none are.
func (s *Store) Seed(ctx context.Context) (int, error) {
	samples, err := SampleAttendees()
	if err != nil {
		return 0, err
	}

	db, err := s.handle(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed: %w", err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("seed: begin: %w", unavailable(err))
	}
	defer tx.Rollback() // No-op if committed

	var count int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM inscriptos").Scan(&count); err != nil {
		return 0, fmt.Errorf("seed: count: %w", unavailable(err))
	}
	if count > 0 {
		return 0, nil
	}

	for _, a := range samples {
		if _, err := execInsert(ctx, tx, a, a.RegistrationDate); err != nil {
			return 0, fmt.Errorf("seed: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("seed: commit: %w", unavailable(err))
	}
	return len(samples), nil
}
