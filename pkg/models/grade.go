package models

import (
	"encoding"
	"fmt"
)

// Grade is the coarse outcome of a review.
// The numeric values line up with the rating scale of the underlying
// memory model, where 1 is a failed recall and 3 a successful one.
type Grade int

const (
	Again Grade = 1 // Card was forgotten.
	Good  Grade = 3 // Card was recalled.
)

var gradeNames = map[Grade]string{
	Again: "again",
	Good:  "good",
}

var gradeByName = map[string]Grade{
	"again": Again,
	"good":  Good,
}

// Compile-time interface checks.
var (
	_ fmt.Stringer             = Grade(0)
	_ encoding.TextMarshaler   = Grade(0)
	_ encoding.TextUnmarshaler = (*Grade)(nil)
)

// IsValid reports whether g is a known grade.
func (g Grade) IsValid() bool {
	_, ok := gradeNames[g]
	return ok
}

// String returns "again" or "good". Invalid values render as "Grade(n)".
func (g Grade) String() string {
	if name, ok := gradeNames[g]; ok {
		return name
	}
	return fmt.Sprintf("Grade(%d)", int(g))
}

// MarshalText implements encoding.TextMarshaler.
func (g Grade) MarshalText() ([]byte, error) {
	name, ok := gradeNames[g]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidGrade, int(g))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *Grade) UnmarshalText(text []byte) error {
	v, ok := gradeByName[string(text)]
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidGrade, text)
	}
	*g = v
	return nil
}
