package srs

import (
	"math"
	"testing"
	"time"

	"github.com/example/lingobot/pkg/models"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newMemory(cardID int64) models.MemoryModel {
	return models.MemoryModel{CardID: cardID}
}

func reviewedMemory(difficulty, stability float64, reps, lapses int, last time.Time) models.MemoryModel {
	first := last.AddDate(0, 0, -30)
	return models.MemoryModel{
		CardID:      1,
		Difficulty:  difficulty,
		Stability:   stability,
		Repetitions: reps,
		Lapses:      lapses,
		FirstReview: &first,
		LastReview:  &last,
		NextReview:  last.AddDate(0, 0, 3),
	}
}

func TestScheduleFirstGrade(t *testing.T) {
	e := New(Config{})
	for _, grade := range []models.Grade{models.Again, models.Good} {
		m := e.Schedule(newMemory(1), grade, testNow)
		if m.Repetitions != 1 {
			t.Errorf("%v: repetitions = %d, want 1", grade, m.Repetitions)
		}
		if m.FirstReview == nil || !m.FirstReview.Equal(testNow) {
			t.Errorf("%v: first review not set to now", grade)
		}
		if m.LastReview == nil || !m.LastReview.Equal(testNow) {
			t.Errorf("%v: last review not set to now", grade)
		}
		if !m.NextReview.After(testNow) {
			t.Errorf("%v: next review %v not after now", grade, m.NextReview)
		}
		if err := m.Validate(); err != nil {
			t.Errorf("%v: invalid memory state: %v", grade, err)
		}
	}
}

func TestScheduleFirstGradeLapses(t *testing.T) {
	e := New(Config{})
	if got := e.Schedule(newMemory(1), models.Again, testNow).Lapses; got != 1 {
		t.Errorf("again: lapses = %d, want 1", got)
	}
	if got := e.Schedule(newMemory(1), models.Good, testNow).Lapses; got != 0 {
		t.Errorf("good: lapses = %d, want 0", got)
	}
}

func TestScheduleNextReviewAlwaysFuture(t *testing.T) {
	e := New(Config{})
	cases := []struct {
		name string
		m    models.MemoryModel
	}{
		{"new card", newMemory(1)},
		{"same-day review", reviewedMemory(5, 2, 3, 0, testNow.Add(-2*time.Hour))},
		{"overdue review", reviewedMemory(5, 2, 3, 1, testNow.AddDate(0, 0, -40))},
		{"hard card", reviewedMemory(9.8, 0.2, 10, 6, testNow.AddDate(0, 0, -1))},
	}
	for _, tc := range cases {
		for _, grade := range []models.Grade{models.Again, models.Good} {
			got := e.Schedule(tc.m, grade, testNow)
			if !got.NextReview.After(testNow) {
				t.Errorf("%s/%v: next review %v not after %v", tc.name, grade, got.NextReview, testNow)
			}
		}
	}
}

func TestScheduleAgainIsSameDayRetry(t *testing.T) {
	e := New(Config{})
	m := reviewedMemory(5, 10, 4, 0, testNow.AddDate(0, 0, -5))
	got := e.Schedule(m, models.Again, testNow)
	if got.NextReview.Sub(testNow) > 24*time.Hour {
		t.Errorf("again interval %v exceeds a day", got.NextReview.Sub(testNow))
	}
}

func TestScheduleCounters(t *testing.T) {
	e := New(Config{})
	m := reviewedMemory(5, 3, 4, 2, testNow.AddDate(0, 0, -3))

	again := e.Schedule(m, models.Again, testNow)
	if again.Repetitions != 5 {
		t.Errorf("again: repetitions = %d, want 5", again.Repetitions)
	}
	if again.Lapses != 3 {
		t.Errorf("again: lapses = %d, want 3", again.Lapses)
	}

	good := e.Schedule(m, models.Good, testNow)
	if good.Repetitions != 5 {
		t.Errorf("good: repetitions = %d, want 5", good.Repetitions)
	}
	if good.Lapses != 2 {
		t.Errorf("good: lapses = %d, want 2", good.Lapses)
	}
}

func TestScheduleBounds(t *testing.T) {
	e := New(Config{})
	cases := []models.MemoryModel{
		reviewedMemory(1, 0.001, 1, 1, testNow.AddDate(0, 0, -400)),
		reviewedMemory(10, 9000, 50, 0, testNow.AddDate(0, 0, -1)),
		reviewedMemory(3.3, 0.5, 2, 0, testNow.Add(-10*time.Minute)),
	}
	for _, m := range cases {
		for _, grade := range []models.Grade{models.Again, models.Good} {
			got := e.Schedule(m, grade, testNow)
			if math.IsNaN(got.Stability) || got.Stability <= 0 {
				t.Errorf("stability out of bounds: %f", got.Stability)
			}
			if math.IsNaN(got.Difficulty) || got.Difficulty < 1 || got.Difficulty > 10 {
				t.Errorf("difficulty out of bounds: %f", got.Difficulty)
			}
		}
	}
}

func TestScheduleGoodGrowsStability(t *testing.T) {
	e := New(Config{})
	m := reviewedMemory(5, 4, 3, 0, testNow.AddDate(0, 0, -4))
	got := e.Schedule(m, models.Good, testNow)
	if got.Stability <= m.Stability {
		t.Errorf("stability did not grow: %f -> %f", m.Stability, got.Stability)
	}
}

func TestScheduleAgainShrinksStability(t *testing.T) {
	e := New(Config{})
	m := reviewedMemory(5, 20, 6, 0, testNow.AddDate(0, 0, -10))
	got := e.Schedule(m, models.Again, testNow)
	if got.Stability >= m.Stability {
		t.Errorf("stability did not shrink: %f -> %f", m.Stability, got.Stability)
	}
}

func TestScheduleDoesNotMutateInput(t *testing.T) {
	e := New(Config{})
	m := reviewedMemory(5, 3, 4, 2, testNow.AddDate(0, 0, -3))
	before := m
	e.Schedule(m, models.Again, testNow)
	if m.Repetitions != before.Repetitions || m.Lapses != before.Lapses ||
		m.Stability != before.Stability || !m.NextReview.Equal(before.NextReview) {
		t.Error("input memory state was mutated")
	}
}

func TestRollback(t *testing.T) {
	e := New(Config{})
	m := reviewedMemory(5, 3, 4, 2, testNow.AddDate(0, 0, -3))
	prior := models.MemorySnapshot{Difficulty: 4.2, Stability: 2.5, NextReview: testNow.AddDate(0, 0, 2)}

	got := e.Rollback(m, prior)
	if got.Difficulty != 4.2 || got.Stability != 2.5 {
		t.Errorf("snapshot not restored: d=%f s=%f", got.Difficulty, got.Stability)
	}
	if !got.NextReview.Equal(prior.NextReview) {
		t.Errorf("next review = %v, want %v", got.NextReview, prior.NextReview)
	}
	if got.Lapses != 1 {
		t.Errorf("lapses = %d, want 1", got.Lapses)
	}
	if got.Repetitions != m.Repetitions {
		t.Errorf("repetitions changed: %d -> %d", m.Repetitions, got.Repetitions)
	}
}

func TestRollbackLapsesFloorAtZero(t *testing.T) {
	e := New(Config{})
	m := reviewedMemory(5, 3, 4, 0, testNow.AddDate(0, 0, -3))
	prior := models.MemorySnapshot{Difficulty: 4, Stability: 2, NextReview: testNow}

	got := e.Rollback(m, prior)
	if got.Lapses != 0 {
		t.Errorf("lapses = %d, want 0", got.Lapses)
	}
}

func TestRetrievability(t *testing.T) {
	e := New(Config{})
	if got := e.Retrievability(newMemory(1), testNow); got != 0 {
		t.Errorf("unreviewed card retrievability = %f, want 0", got)
	}
	m := reviewedMemory(5, 10, 3, 0, testNow.AddDate(0, 0, -10))
	got := e.Retrievability(m, testNow)
	if got <= 0 || got >= 1 {
		t.Errorf("retrievability = %f, want in (0, 1)", got)
	}
	later := e.Retrievability(m, testNow.AddDate(0, 0, 30))
	if later >= got {
		t.Errorf("retrievability should decay over time: %f -> %f", got, later)
	}
}

func TestMaximumIntervalRespected(t *testing.T) {
	e := New(Config{MaximumInterval: 30})
	m := reviewedMemory(1.5, 5000, 40, 0, testNow.AddDate(0, 0, -30))
	got := e.Schedule(m, models.Good, testNow)
	if got.NextReview.After(testNow.AddDate(0, 0, 31)) {
		t.Errorf("next review %v exceeds maximum interval", got.NextReview)
	}
}
