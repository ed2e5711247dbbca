package models

import (
	"fmt"
	"time"
)

// MemoryModel tracks how well a learner retains a specific card.
// Difficulty and stability are the parameters of the underlying
// memory-strength model; the scheduler projects NextReview from them.
type MemoryModel struct {
	ID          int64      `json:"id" db:"id"`
	CardID      int64      `json:"card_id" db:"card_id"`
	Difficulty  float64    `json:"difficulty" db:"difficulty"` // 1-10 scale
	Stability   float64    `json:"stability" db:"stability"`   // Days of retention, > 0 once reviewed
	Repetitions int        `json:"repetitions" db:"repetitions"`
	Lapses      int        `json:"lapses" db:"lapses"`
	FirstReview *time.Time `json:"first_review" db:"first_review"`
	LastReview  *time.Time `json:"last_review" db:"last_review"`
	NextReview  time.Time  `json:"next_review" db:"next_review"`
}

// Reviewed reports whether the card has ever been graded.
// Repetitions+Lapses == 0 and LastReview == nil must agree; the
// scheduler uses this to pick first-grading vs subsequent-grading logic.
func (m MemoryModel) Reviewed() bool {
	return m.Repetitions+m.Lapses > 0
}

// Validate checks the internal consistency of the memory state.
func (m MemoryModel) Validate() error {
	if m.Repetitions < 0 || m.Lapses < 0 {
		return fmt.Errorf("%w: negative counters (repetitions=%d, lapses=%d)", ErrInvalidMemory, m.Repetitions, m.Lapses)
	}
	if m.Reviewed() {
		if m.LastReview == nil {
			return fmt.Errorf("%w: reviewed card has no last review time", ErrInvalidMemory)
		}
		if m.Stability <= 0 {
			return fmt.Errorf("%w: reviewed card has stability %f", ErrInvalidMemory, m.Stability)
		}
	} else if m.LastReview != nil {
		return fmt.Errorf("%w: unreviewed card has a last review time", ErrInvalidMemory)
	}
	return nil
}

// MemorySnapshot is the part of a MemoryModel captured before a grade is
// applied, so a disputed grade can be rolled back later.
type MemorySnapshot struct {
	Difficulty float64   `json:"difficulty"`
	Stability  float64   `json:"stability"`
	NextReview time.Time `json:"next_review"`
}

// Snapshot captures the rollback state of the memory model.
func (m MemoryModel) Snapshot() MemorySnapshot {
	return MemorySnapshot{
		Difficulty: m.Difficulty,
		Stability:  m.Stability,
		NextReview: m.NextReview,
	}
}

// GradeEvent is one applied grading decision. It is persisted to the
// review log so grades can be audited and disputed.
type GradeEvent struct {
	ID        int64     `json:"id" db:"id"`
	CardID    int64     `json:"card_id" db:"card_id"`
	Grade     Grade     `json:"grade" db:"grade"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
