package models

import "errors"

// Sentinel errors shared across the engine.
// Use errors.Is to check: errors.Is(err, models.ErrNotFound)
var (
	ErrNotFound        = errors.New("lingobot: not found")
	ErrInvalidGrade    = errors.New("lingobot: invalid grade")
	ErrInvalidQuizKind = errors.New("lingobot: invalid quiz kind")
	ErrInvalidMemory   = errors.New("lingobot: invalid memory state")
)
