package store

import (
	"fmt"

	"github.com/roach88/inscripciones/internal/attendee"
)

// selectColumns is the projection shared by every listing query. Nullable
// columns are coalesced so rows scan straight into strings, and the date is
// read back as plain text whatever the driver does with DATE columns.
const selectColumns = `id, nombre, apellido, dni, email,
	COALESCE(telefono, ''),
	COALESCE(CAST(fecha_inscripcion AS TEXT), ''),
	COALESCE(institucion, '')`

// stableOrderKey is appended to every ORDER BY. Ids are assigned in
// insertion order, so this is the persistent tiebreaker.
const stableOrderKey = "id ASC"

// sortColumns is the only source of identifiers that reach ORDER BY.
var sortColumns = map[attendee.SortField]string{
	attendee.SortByFirstName:        "nombre",
	attendee.SortByLastName:         "apellido",
	attendee.SortByRegistrationDate: "fecha_inscripcion",
}

// searchColumns are matched by Search.
var searchColumns = []string{"nombre", "apellido", "dni", "email"}

// orderBy returns the ORDER BY clause for field.
// COLLATE BINARY keeps text ordering byte-wise and stable across SQLite builds.
func orderBy(field attendee.SortField) (string, error) {
	col, ok := sortColumns[field]
	if !ok {
		return "", fmt.Errorf("unsupported sort field: %v", field)
	}
	return fmt.Sprintf("%s COLLATE BINARY ASC, %s", col, stableOrderKey), nil
}

// searchPredicate returns a WHERE fragment that is true when any searchable
// column contains the bound term, plus the matching parameters.
// instr is case-sensitive and treats % and _ literally.
func searchPredicate(term string) (string, []any) {
	var where string
	params := make([]any, 0, len(searchColumns))
	for i, col := range searchColumns {
		if i > 0 {
			where += " OR "
		}
		where += fmt.Sprintf("instr(%s, ?) > 0", col)
		params = append(params, term)
	}
	return where, params
}

// selectQuery assembles a listing query. where may be empty.
func selectQuery(where, order string) string {
	q := "SELECT " + selectColumns + " FROM inscriptos"
	if where != "" {
		q += " WHERE " + where
	}
	return q + " ORDER BY " + order
}
