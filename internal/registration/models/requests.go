package models

import (
	"regexp"
	"strings"

	dErrors "registrar/pkg/domainerrors"
)

// The signup form enforces these same rules in the browser, but the API is
// public and must not trust it.
var (
	usnPattern   = regexp.MustCompile(`^[0-9][A-Z]{2}[0-9]{2}[A-Z]{2}[0-9]{3}$`)
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@sode-edu\.in$`)
	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)
)

var validYears = map[string]bool{"1": true, "2": true, "3": true, "4": true}

// RegistrationRequest is the POST /register payload.
type RegistrationRequest struct {
	Name  string `json:"name"`
	USN   string `json:"usn"`
	Email string `json:"email"`
	Year  string `json:"year"`
	Phone string `json:"phone"`
}

// Normalize canonicalizes the uniqueness keys before validation and storage:
// USN uppercase, email lowercase. The form uppercases USNs before submitting,
// but a direct API call may not, and duplicate checks match literally against
// what is stored.
func (r *RegistrationRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.USN = strings.ToUpper(strings.TrimSpace(r.USN))
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Year = strings.TrimSpace(r.Year)
	r.Phone = strings.TrimSpace(r.Phone)
}

// Validate checks the normalized request against the institutional rules.
func (r *RegistrationRequest) Validate() error {
	if len(r.Name) < 2 {
		return dErrors.New(dErrors.CodeBadRequest, "name must be at least 2 characters")
	}
	if !usnPattern.MatchString(r.USN) {
		return dErrors.New(dErrors.CodeBadRequest, "usn must be in the format 4MW21AD043")
	}
	if !emailPattern.MatchString(r.Email) {
		return dErrors.New(dErrors.CodeBadRequest, "email must end with @sode-edu.in")
	}
	if !validYears[r.Year] {
		return dErrors.New(dErrors.CodeBadRequest, "year must be one of 1, 2, 3, 4")
	}
	if !phonePattern.MatchString(r.Phone) {
		return dErrors.New(dErrors.CodeBadRequest, "phone number must be exactly 10 digits")
	}
	return nil
}

// Participant builds the record to persist. ID is left for the store.
func (r *RegistrationRequest) Participant() Participant {
	return Participant{
		Name:  r.Name,
		USN:   r.USN,
		Email: r.Email,
		Year:  r.Year,
		Phone: r.Phone,
	}
}
