package attendee

import "fmt"

// SortField is the closed set of fields a listing can be ordered by.
type SortField int

const (
	SortByFirstName SortField = iota + 1
	SortByLastName
	SortByRegistrationDate
)

var sortFieldNames = map[SortField]string{
	SortByFirstName:        "first-name",
	SortByLastName:         "last-name",
	SortByRegistrationDate: "date",
}

// SortFields lists every valid SortField in display order.
func SortFields() []SortField {
	return []SortField{SortByFirstName, SortByLastName, SortByRegistrationDate}
}

func (f SortField) String() string {
	if name, ok := sortFieldNames[f]; ok {
		return name
	}
	return fmt.Sprintf("SortField(%d)", int(f))
}

// Valid reports whether f is one of the declared sort fields.
func (f SortField) Valid() bool {
	_, ok := sortFieldNames[f]
	return ok
}

// ParseSortField maps a user-facing name to a SortField.
// Accepts the canonical names, camelCase forms and the Spanish column names.
func ParseSortField(name string) (SortField, error) {
	switch name {
	case "first-name", "firstName", "nombre":
		return SortByFirstName, nil
	case "last-name", "lastName", "apellido":
		return SortByLastName, nil
	case "date", "registrationDate", "fecha_inscripcion":
		return SortByRegistrationDate, nil
	}
	return 0, fmt.Errorf("unknown sort field %q: must be one of %v", name, SortFields())
}
