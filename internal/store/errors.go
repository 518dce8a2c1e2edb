package store

import (
	"errors"
	"strings"

	"github.com/mattn/go-sqlite3"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/roach88/inscripciones/internal/attendee"
)

// isUniqueViolation reports whether err is a UNIQUE or PRIMARY KEY
// constraint failure from either supported driver.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var cgoErr sqlite3.Error
	if errors.As(err, &cgoErr) {
		return cgoErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			cgoErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	var pureErr *msqlite.Error
	if errors.As(err, &pureErr) {
		switch pureErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
		return false
	}

	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint failed")
}

// classifyWriteError maps a failed INSERT to the attendee error taxonomy.
func classifyWriteError(err error) error {
	if isUniqueViolation(err) {
		return &attendee.Error{
			Kind:  attendee.KindDuplicateKey,
			Field: attendee.FieldNationalID,
			Err:   err,
		}
	}
	return unavailable(err)
}
