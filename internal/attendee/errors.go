package attendee

import (
	"errors"
	"fmt"
)

// Kind categorizes a failure surfaced by validation, storage or the registry.
type Kind string

const (
	// KindMissingRequiredField: first name, last name, national ID or email is empty.
	KindMissingRequiredField Kind = "MISSING_REQUIRED_FIELD"

	// KindInvalidEmailFormat: email does not contain "@".
	KindInvalidEmailFormat Kind = "INVALID_EMAIL_FORMAT"

	// KindInvalidNumericField: a digits-only field holds something else.
	KindInvalidNumericField Kind = "INVALID_NUMERIC_FIELD"

	// KindDuplicateKey: the national ID is already registered.
	KindDuplicateKey Kind = "DUPLICATE_KEY"

	// KindStorageUnavailable: the backing file cannot be opened, read or written.
	KindStorageUnavailable Kind = "STORAGE_UNAVAILABLE"

	// KindNotFound: no attendee matches a lookup.
	KindNotFound Kind = "NOT_FOUND"
)

// Field names used in Error.Field.
const (
	FieldFirstName  = "first name"
	FieldLastName   = "last name"
	FieldNationalID = "national ID"
	FieldEmail      = "email"
	FieldPhone      = "phone"
)

// Error is the single error type of the attendee domain.
type Error struct {
	Kind Kind

	// Field names the offending field, if any.
	Field string

	// Err is the underlying cause (driver error, etc.).
	Err error
}

func (e *Error) Error() string {
	switch {
	case e.Field != "" && e.Err != nil:
		return fmt.Sprintf("%s (field=%s): %v", e.Kind, e.Field, e.Err)
	case e.Field != "":
		return fmt.Sprintf("%s (field=%s)", e.Kind, e.Field)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates an Error without an underlying cause.
func NewError(kind Kind, field string) *Error {
	return &Error{Kind: kind, Field: field}
}

// WrapError creates an Error around cause.
func WrapError(kind Kind, cause error) *Error {
	return &Error{Kind: kind, Err: cause}
}

// KindOf returns the Kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// FieldOf returns the offending field of err, or "".
func FieldOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Field
	}
	return ""
}
