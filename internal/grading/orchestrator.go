package grading

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/example/lingobot/internal/ai"
	"github.com/example/lingobot/internal/srs"
	"github.com/example/lingobot/internal/transcribe"
	"github.com/example/lingobot/pkg/models"
)

// Storage is the persistence collaborator the orchestrator needs.
// Implementations must return models.ErrNotFound for missing rows.
type Storage interface {
	CardByID(ctx context.Context, id int64) (models.Card, error)
	MemoryByCard(ctx context.Context, cardID int64) (models.MemoryModel, error)
	SaveMemory(ctx context.Context, m models.MemoryModel) error
	AppendGrade(ctx context.Context, ev models.GradeEvent) error
}

// advanceOnPass is the interval-credit policy: a passing verdict only
// advances the memory state for the kinds marked true. Failure applies
// the negative grade at any kind, but credit for knowing a card is only
// granted once the hardest modality (production) succeeds.
var advanceOnPass = map[models.QuizKind]bool{
	models.Dictation: false,
	models.Listening: false,
	models.Speaking:  true,
}

// Result is the tri-state outcome handed back to the session layer.
// SubmissionID correlates log lines across the async grading flow.
type Result struct {
	SubmissionID uuid.UUID
	Kind         models.ResultKind
	Message      string
}

// Orchestrator runs the grading pipeline for one answer and applies the
// scheduling consequences. All expected failures are folded into an
// error Result so the session queue can always advance.
type Orchestrator struct {
	store       Storage
	judge       ai.Oracle
	stt         transcribe.Transcriber
	engine      *srs.Engine
	learnerLang string
	clock       func() time.Time
}

// NewOrchestrator wires the grading pipeline to its collaborators.
// learnerLang is the language code answers to listening quizzes are
// spoken in.
func NewOrchestrator(store Storage, judge ai.Oracle, stt transcribe.Transcriber, engine *srs.Engine, learnerLang string) *Orchestrator {
	return &Orchestrator{
		store:       store,
		judge:       judge,
		stt:         stt,
		engine:      engine,
		learnerLang: learnerLang,
		clock:       time.Now,
	}
}

// SubmitAnswer transcribes the recording, grades it for the given quiz
// kind and persists the scheduling update.
func (o *Orchestrator) SubmitAnswer(ctx context.Context, cardID int64, kind models.QuizKind, audio []byte) Result {
	id := uuid.New()
	if !kind.IsValid() {
		log.Printf("grading %s: rejected unknown quiz kind %d", id, int(kind))
		return Result{SubmissionID: id, Kind: models.ResultError, Message: "Unknown quiz kind"}
	}

	card, err := o.store.CardByID(ctx, cardID)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			log.Printf("grading %s: card lookup failed: %v", id, err)
		}
		return Result{SubmissionID: id, Kind: models.ResultError, Message: "Card not found"}
	}

	transcript := o.stt.Transcribe(ctx, kind.TranscriptionLang(card.LangCode, o.learnerLang), audio)
	if transcript.Kind != transcribe.OK {
		// No grade on a failed transcription; the user retries the recording.
		return Result{SubmissionID: id, Kind: models.ResultError, Message: "Transcription error"}
	}

	verdict, err := o.grade(ctx, card, kind, transcript.Text)
	if err != nil {
		log.Printf("grading %s: card %d %s: %v", id, cardID, kind, err)
		return Result{SubmissionID: id, Kind: models.ResultError, Message: "Grading error"}
	}

	switch verdict.Result {
	case models.Pass:
		if advanceOnPass[kind] {
			if err := o.applyGrade(ctx, cardID, models.Good); err != nil {
				log.Printf("grading %s: failed to apply pass: %v", id, err)
				return Result{SubmissionID: id, Kind: models.ResultError, Message: "Grading error"}
			}
		}
		return Result{SubmissionID: id, Kind: models.ResultSuccess, Message: verdict.Rationale}
	case models.Fail:
		if err := o.applyGrade(ctx, cardID, models.Again); err != nil {
			log.Printf("grading %s: failed to apply fail: %v", id, err)
			return Result{SubmissionID: id, Kind: models.ResultError, Message: "Grading error"}
		}
		return Result{SubmissionID: id, Kind: models.ResultFailure, Message: verdict.Rationale}
	default:
		// Defensive: the pipeline returned neither pass nor fail.
		log.Printf("grading %s: invalid verdict %d for card %d", id, int(verdict.Result), cardID)
		return Result{SubmissionID: id, Kind: models.ResultError, Message: "Invalid grading result"}
	}
}

// FailCard applies the negative grade without consulting the oracle,
// used when the learner gives up on a card.
func (o *Orchestrator) FailCard(ctx context.Context, cardID int64) error {
	if _, err := o.store.CardByID(ctx, cardID); err != nil {
		return err
	}
	return o.applyGrade(ctx, cardID, models.Again)
}

// UndoLastGrade restores the scheduling snapshot taken before a disputed
// grade and persists the rolled-back memory state.
func (o *Orchestrator) UndoLastGrade(ctx context.Context, cardID int64, prior models.MemorySnapshot) error {
	m, err := o.store.MemoryByCard(ctx, cardID)
	if err != nil {
		return fmt.Errorf("undo grade for card %d: %w", cardID, err)
	}
	restored := o.engine.Rollback(m, prior)
	if err := o.store.SaveMemory(ctx, restored); err != nil {
		return fmt.Errorf("undo grade for card %d: %w", cardID, err)
	}
	log.Printf("grading: rolled back card %d, next review %s", cardID, restored.NextReview.Format(time.RFC3339))
	return nil
}

// grade dispatches to the evaluator for the quiz kind.
func (o *Orchestrator) grade(ctx context.Context, card models.Card, kind models.QuizKind, transcript string) (models.Verdict, error) {
	eval, ok := evaluators[kind]
	if !ok {
		return models.Verdict{}, fmt.Errorf("%w: %s", models.ErrInvalidQuizKind, kind)
	}
	in := Input{
		Transcript: transcript,
		Card:       card,
		SubjectID:  fmt.Sprintf("user-%d", card.UserID),
	}
	return eval(ctx, in, o.judge)
}

// applyGrade runs the scheduler and persists the result plus a review
// log entry. A card with no memory row yet starts from a fresh state.
func (o *Orchestrator) applyGrade(ctx context.Context, cardID int64, grade models.Grade) error {
	now := o.clock()
	m, err := o.store.MemoryByCard(ctx, cardID)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			return err
		}
		m = models.MemoryModel{CardID: cardID}
	}
	updated := o.engine.Schedule(m, grade, now)
	if err := o.store.SaveMemory(ctx, updated); err != nil {
		return err
	}
	return o.store.AppendGrade(ctx, models.GradeEvent{CardID: cardID, Grade: grade, CreatedAt: now})
}
