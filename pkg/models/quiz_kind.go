package models

import (
	"encoding"
	"fmt"
)

// QuizKind is one of the three drill modalities. Each kind judges a
// different language direction and uses a different grading strategy.
type QuizKind int

const (
	Dictation QuizKind = iota + 1 // Read the term aloud.
	Listening                     // Say the definition in the learner's language.
	Speaking                      // Translate the definition into the target language.
)

var quizKindNames = map[QuizKind]string{
	Dictation: "dictation",
	Listening: "listening",
	Speaking:  "speaking",
}

var quizKindByName = map[string]QuizKind{
	"dictation": Dictation,
	"listening": Listening,
	"speaking":  Speaking,
}

// langSide says which side of the card the learner's audio is spoken in.
type langSide int

const (
	cardLang    langSide = iota // Audio is in the card's target language.
	learnerLang                 // Audio is in the learner's own language.
)

// transcriptionSide maps each quiz kind to the language the learner's
// recording must be transcribed in. Dictation and speaking are spoken in
// the target language; listening answers are in the learner's language.
var transcriptionSide = map[QuizKind]langSide{
	Dictation: cardLang,
	Listening: learnerLang,
	Speaking:  cardLang,
}

// Compile-time interface checks.
var (
	_ fmt.Stringer             = QuizKind(0)
	_ encoding.TextMarshaler   = QuizKind(0)
	_ encoding.TextUnmarshaler = (*QuizKind)(nil)
)

// IsValid reports whether k is a known quiz kind.
func (k QuizKind) IsValid() bool {
	_, ok := quizKindNames[k]
	return ok
}

// String returns the kind name. Invalid values render as "QuizKind(n)".
func (k QuizKind) String() string {
	if name, ok := quizKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("QuizKind(%d)", int(k))
}

// TranscriptionLang returns the language code the learner's audio should
// be transcribed in for this quiz kind.
func (k QuizKind) TranscriptionLang(cardCode, learnerCode string) string {
	if transcriptionSide[k] == learnerLang {
		return learnerCode
	}
	return cardCode
}

// MarshalText implements encoding.TextMarshaler.
func (k QuizKind) MarshalText() ([]byte, error) {
	name, ok := quizKindNames[k]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidQuizKind, int(k))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *QuizKind) UnmarshalText(text []byte) error {
	v, ok := quizKindByName[string(text)]
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidQuizKind, text)
	}
	*k = v
	return nil
}
