// Package validate checks candidate registrations before they reach the store.
package validate

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/inscripciones/internal/attendee"
)

// Payload normalizes p and checks it. Rules run in order and the first
// failure wins:
//
//  1. first name, last name, national ID and email are required
//  2. email must contain "@"
//  3. national ID must be digits only
//  4. phone, when present, must be digits only
//
// The returned payload is trimmed and NFC-normalized. On failure the error is
// an *attendee.Error and the returned payload is the zero value.
func Payload(p attendee.Payload) (attendee.Payload, error) {
	p = Normalize(p)

	required := []struct {
		field string
		value string
	}{
		{attendee.FieldFirstName, p.FirstName},
		{attendee.FieldLastName, p.LastName},
		{attendee.FieldNationalID, p.NationalID},
		{attendee.FieldEmail, p.Email},
	}
	for _, r := range required {
		if r.value == "" {
			return attendee.Payload{}, attendee.NewError(attendee.KindMissingRequiredField, r.field)
		}
	}

	if !strings.Contains(p.Email, "@") {
		return attendee.Payload{}, attendee.NewError(attendee.KindInvalidEmailFormat, attendee.FieldEmail)
	}

	if !IsDigits(p.NationalID) {
		return attendee.Payload{}, attendee.NewError(attendee.KindInvalidNumericField, attendee.FieldNationalID)
	}

	if p.Phone != "" && !IsDigits(p.Phone) {
		return attendee.Payload{}, attendee.NewError(attendee.KindInvalidNumericField, attendee.FieldPhone)
	}

	return p, nil
}

// Normalize trims surrounding whitespace from every field and applies NFC so
// that composed and decomposed accents compare equal at rest.
func Normalize(p attendee.Payload) attendee.Payload {
	return attendee.Payload{
		FirstName:   clean(p.FirstName),
		LastName:    clean(p.LastName),
		NationalID:  clean(p.NationalID),
		Email:       clean(p.Email),
		Phone:       clean(p.Phone),
		Institution: clean(p.Institution),
	}
}

// SearchTerm puts term in the same Unicode form as stored fields. Whitespace
// is kept: a search term is matched verbatim.
func SearchTerm(term string) string {
	return norm.NFC.String(term)
}

func clean(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// IsDigits reports whether s is non-empty and made only of ASCII digits.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
