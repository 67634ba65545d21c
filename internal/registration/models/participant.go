package models

// Participant is one accepted registration.
//
// Invariants:
//   - USN is unique across all records (uppercased at the boundary)
//   - Email is unique across all records (lowercased at the boundary)
//   - Records are immutable once written; the system has no update or delete
//
// ID is assigned by the store on insert and is opaque to the rest of the
// system (a UUID in memory and Postgres, an ObjectID hex string in Mongo).
type Participant struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	USN   string `json:"usn"`
	Email string `json:"email"`
	Year  string `json:"year"`
	Phone string `json:"phone"`
}

// RosterEntry is a participant decorated with the department derived from
// their USN. Departments are computed on read, never persisted.
type RosterEntry struct {
	Participant
	Department string `json:"department"`
}
