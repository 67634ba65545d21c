// Package department derives a display department from a University Seat
// Number. Departments are never stored; every surface that shows one (roster
// listing, spreadsheet export) classifies through this package so the mapping
// cannot drift.
package department

import (
	"regexp"
	"strings"
)

// Label is a human-readable department name.
type Label string

const (
	AIDS Label = "AI&DS"
	ENC  Label = "E&C"
	CSE  Label = "CSE"
	// AIML is the default for unrecognized identifiers and for the AI branch
	// code itself.
	AIML Label = "AI&ML"
)

var usnPattern = regexp.MustCompile(`(?i)4MW\d+(AD|AI|EC|CS)`)

// Classify maps a USN to its department. Total: unrecognized input degrades
// to AIML rather than erroring.
func Classify(usn string) Label {
	m := usnPattern.FindStringSubmatch(usn)
	if m == nil {
		return AIML
	}
	switch strings.ToUpper(m[1]) {
	case "AD":
		return AIDS
	case "EC":
		return ENC
	case "CS":
		return CSE
	}
	return AIML
}
