package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/lingobot/pkg/models"
)

// CardRepository handles database operations for cards
type CardRepository struct{}

// NewCardRepository creates a new repository instance
func NewCardRepository() *CardRepository {
	return &CardRepository{}
}

// Create inserts a new card
func (r *CardRepository) Create(ctx context.Context, card *models.Card) error {
	query := DB.Rebind(`
		INSERT INTO cards (user_id, term, definition, lang_code, flagged)
		VALUES (?, ?, ?, ?, ?)
	`)
	result, err := DB.ExecContext(ctx, query,
		card.UserID,
		card.Term,
		card.Definition,
		card.LangCode,
		card.Flagged,
	)
	if err != nil {
		return fmt.Errorf("failed to create card: %w", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		card.ID = id
	}
	return nil
}

// GetByID returns a card by its ID
func (r *CardRepository) GetByID(ctx context.Context, id int64) (models.Card, error) {
	var card models.Card
	query := DB.Rebind(`SELECT * FROM cards WHERE id = ?`)
	err := DB.GetContext(ctx, &card, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Card{}, fmt.Errorf("card %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return models.Card{}, fmt.Errorf("failed to get card: %w", err)
	}
	return card, nil
}

// Flag pauses a card so it is excluded from future lessons
func (r *CardRepository) Flag(ctx context.Context, id int64) error {
	query := DB.Rebind(`
		UPDATE cards SET flagged = true, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`)
	result, err := DB.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to flag card: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("card %d: %w", id, models.ErrNotFound)
	}
	return nil
}

// DueForUser returns up to limit unflagged cards due for review, with
// never-reviewed cards first and the most overdue cards after them.
func (r *CardRepository) DueForUser(ctx context.Context, userID int64, limit int) ([]models.Card, error) {
	query := DB.Rebind(`
		SELECT c.* FROM cards c
		LEFT JOIN memory_models m ON m.card_id = c.id
		WHERE c.user_id = ?
		AND c.flagged = false
		AND (m.card_id IS NULL OR m.next_review <= CURRENT_TIMESTAMP)
		ORDER BY (m.card_id IS NULL) DESC, m.next_review ASC
		LIMIT ?
	`)
	var cards []models.Card
	err := DB.SelectContext(ctx, &cards, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get due cards: %w", err)
	}
	return cards, nil
}

// CountDueForUser returns the number of unflagged cards due for review
func (r *CardRepository) CountDueForUser(ctx context.Context, userID int64) (int, error) {
	query := DB.Rebind(`
		SELECT COUNT(*) FROM cards c
		LEFT JOIN memory_models m ON m.card_id = c.id
		WHERE c.user_id = ?
		AND c.flagged = false
		AND (m.card_id IS NULL OR m.next_review <= CURRENT_TIMESTAMP)
	`)
	var count int
	err := DB.GetContext(ctx, &count, query, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count due cards: %w", err)
	}
	return count, nil
}

// UserIDs returns the IDs of all users that own at least one card
func (r *CardRepository) UserIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := DB.SelectContext(ctx, &ids, `SELECT DISTINCT user_id FROM cards`)
	if err != nil {
		return nil, fmt.Errorf("failed to get user IDs: %w", err)
	}
	return ids, nil
}
