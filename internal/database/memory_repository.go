package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/lingobot/pkg/models"
)

// MemoryRepository handles database operations for per-card memory state
type MemoryRepository struct{}

// NewMemoryRepository creates a new repository instance
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// GetByCard returns the memory state for a card
func (r *MemoryRepository) GetByCard(ctx context.Context, cardID int64) (models.MemoryModel, error) {
	var m models.MemoryModel
	query := DB.Rebind(`SELECT * FROM memory_models WHERE card_id = ?`)
	err := DB.GetContext(ctx, &m, query, cardID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.MemoryModel{}, fmt.Errorf("memory for card %d: %w", cardID, models.ErrNotFound)
	}
	if err != nil {
		return models.MemoryModel{}, fmt.Errorf("failed to get memory state: %w", err)
	}
	return m, nil
}

// Save upserts the memory state for a card. Writes are last-write-wins
// per card; the unique card_id constraint serializes concurrent updates.
func (r *MemoryRepository) Save(ctx context.Context, m models.MemoryModel) error {
	if err := m.Validate(); err != nil {
		return err
	}
	query := DB.Rebind(`
		INSERT INTO memory_models (
			card_id, difficulty, stability, repetitions, lapses,
			first_review, last_review, next_review
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(card_id) DO UPDATE SET
			difficulty = excluded.difficulty,
			stability = excluded.stability,
			repetitions = excluded.repetitions,
			lapses = excluded.lapses,
			first_review = excluded.first_review,
			last_review = excluded.last_review,
			next_review = excluded.next_review
	`)
	_, err := DB.ExecContext(ctx, query,
		m.CardID,
		m.Difficulty,
		m.Stability,
		m.Repetitions,
		m.Lapses,
		m.FirstReview,
		m.LastReview,
		m.NextReview,
	)
	if err != nil {
		return fmt.Errorf("failed to save memory state: %w", err)
	}
	return nil
}

// AppendGrade records an applied grading decision in the review log
func (r *MemoryRepository) AppendGrade(ctx context.Context, ev models.GradeEvent) error {
	query := DB.Rebind(`
		INSERT INTO review_log (card_id, grade, created_at) VALUES (?, ?, ?)
	`)
	_, err := DB.ExecContext(ctx, query, ev.CardID, ev.Grade.String(), ev.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append review log: %w", err)
	}
	return nil
}

// GradeHistory returns the review log for a card, newest first
func (r *MemoryRepository) GradeHistory(ctx context.Context, cardID int64, limit int) ([]models.GradeEvent, error) {
	query := DB.Rebind(`
		SELECT id, card_id, grade, created_at FROM review_log
		WHERE card_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`)
	rows, err := DB.QueryxContext(ctx, query, cardID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get review log: %w", err)
	}
	defer rows.Close()

	var events []models.GradeEvent
	for rows.Next() {
		var (
			ev    models.GradeEvent
			grade string
		)
		if err := rows.Scan(&ev.ID, &ev.CardID, &grade, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review log row: %w", err)
		}
		if err := ev.Grade.UnmarshalText([]byte(grade)); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
