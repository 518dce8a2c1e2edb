// Package export writes attendee listings to files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/roach88/inscripciones/internal/attendee"
)

// Format selects the output encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatYAML Format = "yaml"
)

// Formats lists the supported formats.
var Formats = []Format{FormatCSV, FormatYAML}

// ParseFormat validates a user-supplied format name.
func ParseFormat(name string) (Format, error) {
	for _, f := range Formats {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid export format %q: must be one of %v", name, Formats)
}

// Header is the CSV header row. Column names follow the inscriptos table.
var Header = []string{"id", "nombre", "apellido", "dni", "email", "telefono", "fecha_inscripcion", "institucion"}

// Record is one exported row.
type Record struct {
	ID               int64  `yaml:"id"`
	FirstName        string `yaml:"nombre"`
	LastName         string `yaml:"apellido"`
	NationalID       string `yaml:"dni"`
	Email            string `yaml:"email"`
	Phone            string `yaml:"telefono"`
	RegistrationDate string `yaml:"fecha_inscripcion"`
	Institution      string `yaml:"institucion"`
}

// FromAttendee flattens a into a Record.
func FromAttendee(a attendee.Attendee) Record {
	return Record{
		ID:               a.ID,
		FirstName:        a.FirstName,
		LastName:         a.LastName,
		NationalID:       a.NationalID,
		Email:            a.Email,
		Phone:            a.Phone,
		RegistrationDate: a.RegisteredOn(),
		Institution:      a.Institution,
	}
}

func (r Record) fields() []string {
	return []string{
		strconv.FormatInt(r.ID, 10),
		r.FirstName,
		r.LastName,
		r.NationalID,
		r.Email,
		r.Phone,
		r.RegistrationDate,
		r.Institution,
	}
}

// Write encodes list to w in the given format.
func Write(w io.Writer, format Format, list []attendee.Attendee) error {
	records := make([]Record, len(list))
	for i, a := range list {
		records[i] = FromAttendee(a)
	}

	switch format {
	case FormatCSV:
		return writeCSV(w, records)
	case FormatYAML:
		return writeYAML(w, records)
	default:
		return fmt.Errorf("invalid export format %q", format)
	}
}

func writeCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(r.fields()); err != nil {
			return fmt.Errorf("write csv row %d: %w", r.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, records []Record) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return nil
}
