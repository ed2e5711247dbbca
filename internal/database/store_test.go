package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/lingobot/pkg/models"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	require.NoError(t, ConnectTest(filepath.Join(t.TempDir(), "test.db")))
	t.Cleanup(func() { _ = Close() })
	return NewStore()
}

func createCard(t *testing.T, store *Store, term string) models.Card {
	t.Helper()
	card := models.Card{UserID: 1, Term: term, Definition: "definition", LangCode: "ko"}
	require.NoError(t, store.Cards.Create(context.Background(), &card))
	require.NotZero(t, card.ID)
	return card
}

func TestCardRoundTrip(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	created := createCard(t, store, "안녕하세요")
	got, err := store.CardByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "안녕하세요", got.Term)
	assert.Equal(t, "ko", got.LangCode)
	assert.False(t, got.Flagged)

	_, err = store.CardByID(ctx, 9999)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestFlagCard(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	card := createCard(t, store, "고맙습니다")
	require.NoError(t, store.Cards.Flag(ctx, card.ID))

	got, err := store.CardByID(ctx, card.ID)
	require.NoError(t, err)
	assert.True(t, got.Flagged)

	assert.ErrorIs(t, store.Cards.Flag(ctx, 9999), models.ErrNotFound)
}

func TestMemoryUpsert(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	card := createCard(t, store, "물")

	_, err := store.MemoryByCard(ctx, card.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	now := time.Now().UTC().Truncate(time.Second)
	m := models.MemoryModel{
		CardID:      card.ID,
		Difficulty:  5.5,
		Stability:   2.3,
		Repetitions: 1,
		FirstReview: &now,
		LastReview:  &now,
		NextReview:  now.AddDate(0, 0, 2),
	}
	require.NoError(t, store.SaveMemory(ctx, m))

	got, err := store.MemoryByCard(ctx, card.ID)
	require.NoError(t, err)
	assert.InDelta(t, 5.5, got.Difficulty, 1e-9)
	assert.Equal(t, 1, got.Repetitions)

	// Second save overwrites in place (last write wins per card).
	m.Repetitions = 2
	m.Stability = 4.1
	require.NoError(t, store.SaveMemory(ctx, m))

	got, err = store.MemoryByCard(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Repetitions)
	assert.InDelta(t, 4.1, got.Stability, 1e-9)
}

func TestSaveMemoryRejectsInvalidState(t *testing.T) {
	store := setupStore(t)
	err := store.SaveMemory(context.Background(), models.MemoryModel{CardID: 1, Repetitions: -1})
	assert.ErrorIs(t, err, models.ErrInvalidMemory)
}

func TestReviewLog(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	card := createCard(t, store, "불")

	base := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, store.AppendGrade(ctx, models.GradeEvent{CardID: card.ID, Grade: models.Again, CreatedAt: base}))
	require.NoError(t, store.AppendGrade(ctx, models.GradeEvent{CardID: card.ID, Grade: models.Good, CreatedAt: base.Add(time.Minute)}))

	history, err := store.Memory.GradeHistory(ctx, card.ID, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, models.Good, history[0].Grade, "newest first")
	assert.Equal(t, models.Again, history[1].Grade)
}

func TestDueForUser(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	fresh := createCard(t, store, "새 카드")
	overdue := createCard(t, store, "밀린 카드")
	future := createCard(t, store, "나중 카드")
	flagged := createCard(t, store, "정지된 카드")
	require.NoError(t, store.Cards.Flag(ctx, flagged.ID))

	past := time.Now().UTC().Add(-48 * time.Hour)
	require.NoError(t, store.SaveMemory(ctx, models.MemoryModel{
		CardID: overdue.ID, Difficulty: 5, Stability: 1, Repetitions: 1,
		FirstReview: &past, LastReview: &past, NextReview: past.Add(time.Hour),
	}))
	require.NoError(t, store.SaveMemory(ctx, models.MemoryModel{
		CardID: future.ID, Difficulty: 5, Stability: 9, Repetitions: 1,
		FirstReview: &past, LastReview: &past, NextReview: time.Now().UTC().Add(72 * time.Hour),
	}))

	due, err := store.Cards.DueForUser(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, fresh.ID, due[0].ID, "never-reviewed cards come first")
	assert.Equal(t, overdue.ID, due[1].ID)

	count, err := store.Cards.CountDueForUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
