package models

import "time"

// Card represents a phrase a learner is studying
type Card struct {
	ID         int64     `json:"id" db:"id"`
	UserID     int64     `json:"user_id" db:"user_id"`
	Term       string    `json:"term" db:"term"`             // Phrase in the target language
	Definition string    `json:"definition" db:"definition"` // Meaning in the learner's language
	LangCode   string    `json:"lang_code" db:"lang_code"`   // ISO 639-1 code of the target language
	Flagged    bool      `json:"flagged" db:"flagged"`       // Flagged cards are excluded from lessons
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
