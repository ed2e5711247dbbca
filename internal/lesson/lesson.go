// Package lesson assembles study sessions: it selects due cards and
// attaches the audio prompt reference for each quiz kind. Audio
// synthesis itself lives elsewhere; only the cache reference is
// produced here.
package lesson

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"

	"github.com/example/lingobot/internal/database"
	"github.com/example/lingobot/internal/session"
	"github.com/example/lingobot/pkg/models"
)

// DefaultBatchSize is how many due cards one fetch returns.
const DefaultBatchSize = 10

// Builder assembles session card snapshots from storage.
type Builder struct {
	cards  *database.CardRepository
	memory *database.MemoryRepository
}

// NewBuilder creates a lesson builder over the given repositories.
func NewBuilder(cards *database.CardRepository, memory *database.MemoryRepository) *Builder {
	return &Builder{cards: cards, memory: memory}
}

// FetchDue returns snapshots for up to limit due cards plus the session
// totals. Never-reviewed cards come first, then the most overdue.
func (b *Builder) FetchDue(ctx context.Context, userID int64, limit int) ([]session.CardSnapshot, session.Totals, error) {
	if limit <= 0 {
		limit = DefaultBatchSize
	}
	due, err := b.cards.DueForUser(ctx, userID, limit)
	if err != nil {
		return nil, session.Totals{}, fmt.Errorf("fetch due cards: %w", err)
	}

	snapshots := make([]session.CardSnapshot, 0, len(due))
	for _, card := range due {
		reps := 0
		m, err := b.memory.GetByCard(ctx, card.ID)
		switch {
		case err == nil:
			reps = m.Repetitions
		case !errors.Is(err, models.ErrNotFound):
			return nil, session.Totals{}, fmt.Errorf("fetch memory for card %d: %w", card.ID, err)
		}
		snapshots = append(snapshots, Snapshot(card, reps))
	}

	dueCount, err := b.cards.CountDueForUser(ctx, userID)
	if err != nil {
		return nil, session.Totals{}, fmt.Errorf("count due cards: %w", err)
	}
	return snapshots, session.Totals{Cards: len(snapshots), Due: dueCount}, nil
}

// Snapshot converts a stored card into a session snapshot with audio
// references for all three quiz kinds.
func Snapshot(card models.Card, repetitions int) session.CardSnapshot {
	return session.CardSnapshot{
		ID:          card.ID,
		Term:        card.Term,
		Definition:  card.Definition,
		LangCode:    card.LangCode,
		Repetitions: repetitions,
		Audio: map[models.QuizKind]string{
			models.Dictation: AudioRef(card, models.Dictation),
			models.Listening: AudioRef(card, models.Listening),
			models.Speaking:  AudioRef(card, models.Speaking),
		},
	}
}

// AudioRef returns the cache path of the synthesized prompt for a card
// and quiz kind: speech/<lang>/<md5 of the prompt text>.mp3. The path
// is a pure function of its inputs so repeated synthesis of the same
// prompt hits the same file.
func AudioRef(card models.Card, kind models.QuizKind) string {
	text := promptText(card, kind)
	hash := md5.Sum([]byte(text))
	return fmt.Sprintf("speech/%s/%x.mp3", card.LangCode, hash)
}

// promptText is the spoken prompt for each quiz kind. Dictation and
// listening speak the term; speaking prompts with the definition to be
// translated.
func promptText(card models.Card, kind models.QuizKind) string {
	switch kind {
	case models.Speaking:
		return fmt.Sprintf("In %s: %s", card.LangCode, card.Definition)
	case models.Listening:
		return fmt.Sprintf("Say in English: %s", card.Term)
	default:
		return fmt.Sprintf("Repeat: %s", card.Term)
	}
}
