package database

import (
	"context"

	"github.com/example/lingobot/pkg/models"
)

// Store bundles the repositories behind the storage contract the grading
// orchestrator consumes.
type Store struct {
	Cards  *CardRepository
	Memory *MemoryRepository
}

// NewStore creates a Store over the shared connection.
func NewStore() *Store {
	return &Store{
		Cards:  NewCardRepository(),
		Memory: NewMemoryRepository(),
	}
}

// CardByID returns a card by its ID.
func (s *Store) CardByID(ctx context.Context, id int64) (models.Card, error) {
	return s.Cards.GetByID(ctx, id)
}

// MemoryByCard returns the memory state for a card.
func (s *Store) MemoryByCard(ctx context.Context, cardID int64) (models.MemoryModel, error) {
	return s.Memory.GetByCard(ctx, cardID)
}

// SaveMemory upserts the memory state for a card.
func (s *Store) SaveMemory(ctx context.Context, m models.MemoryModel) error {
	return s.Memory.Save(ctx, m)
}

// AppendGrade records an applied grading decision.
func (s *Store) AppendGrade(ctx context.Context, ev models.GradeEvent) error {
	return s.Memory.AppendGrade(ctx, ev)
}
