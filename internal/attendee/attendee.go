package attendee

import (
	"encoding/json"
	"time"
)

// DateLayout is the on-disk format of the registration date.
const DateLayout = "2006-01-02"

// NoInstitution is the grouping label for attendees without an institution.
const NoInstitution = "none"

// Attendee is a registered participant.
type Attendee struct {
	ID               int64     `json:"id" yaml:"id"`
	FirstName        string    `json:"first_name" yaml:"first_name"`
	LastName         string    `json:"last_name" yaml:"last_name"`
	NationalID       string    `json:"national_id" yaml:"national_id"`
	Email            string    `json:"email" yaml:"email"`
	Phone            string    `json:"phone,omitempty" yaml:"phone,omitempty"`
	RegistrationDate time.Time `json:"-" yaml:"-"`
	Institution      string    `json:"institution,omitempty" yaml:"institution,omitempty"`
}

// RegisteredOn returns the registration date in DateLayout form.
func (a Attendee) RegisteredOn() string {
	if a.RegistrationDate.IsZero() {
		return ""
	}
	return a.RegistrationDate.Format(DateLayout)
}

// MarshalJSON renders RegistrationDate as a plain calendar date.
func (a Attendee) MarshalJSON() ([]byte, error) {
	type plain Attendee
	return json.Marshal(struct {
		plain
		RegistrationDate string `json:"registration_date"`
	}{plain(a), a.RegisteredOn()})
}

// Payload is a candidate registration as typed by a user.
type Payload struct {
	FirstName   string
	LastName    string
	NationalID  string
	Email       string
	Phone       string
	Institution string
}

// Attendee builds an unsaved record from the payload.
// ID and RegistrationDate are assigned by the store.
func (p Payload) Attendee() Attendee {
	return Attendee{
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		NationalID:  p.NationalID,
		Email:       p.Email,
		Phone:       p.Phone,
		Institution: p.Institution,
	}
}
