// Package session implements the client-side study session: an ordered
// queue of due cards, the count of grading calls still in flight, and
// the transitions between them. Each action is applied atomically; a
// caller never observes a partially applied state.
package session

import (
	"errors"
	"fmt"
	"log"

	"github.com/example/lingobot/pkg/models"
)

// Errors returned by Dispatch. State is unchanged whenever an error is
// returned.
var (
	ErrUnknownAction  = errors.New("session: unknown action")
	ErrNoPendingGrade = errors.New("session: grade completion without a pending grade")
)

// CardSnapshot is the per-card data a session needs: the phrase itself
// plus the audio prompt reference for each quiz kind.
type CardSnapshot struct {
	ID          int64
	Term        string
	Definition  string
	LangCode    string
	Repetitions int
	Audio       map[models.QuizKind]string
}

// Failure is the most recent failed grading shown to the learner.
type Failure struct {
	CardID  int64
	Message string
}

// Totals are the aggregate counters reported alongside new cards.
type Totals struct {
	Cards int // Cards in the learner's collection.
	Due   int // Cards currently due for review.
}

// Phase describes where the session is in its lifecycle.
type Phase int

const (
	Active   Phase = iota + 1 // A card is available to quiz.
	Draining                  // Queue empty, grading calls still in flight.
	Complete                  // Queue empty, nothing in flight.
)

// State is a study session. Values are treated as immutable: Dispatch
// returns a new State and never mutates its receiver's slices or maps
// in place.
type State struct {
	queue         []int64
	cards         map[int64]CardSnapshot
	pendingGrades int
	lastFailure   *Failure
	totals        Totals
}

// New creates a session from an initial set of cards. Queue order
// follows the order the cards are given in.
func New(cards []CardSnapshot, totals Totals) State {
	s := State{
		cards:  make(map[int64]CardSnapshot, len(cards)),
		totals: totals,
	}
	for _, c := range cards {
		s.queue = append(s.queue, c.ID)
		s.cards[c.ID] = c
	}
	return s
}

// Action is a session transition. The concrete types below are the only
// valid actions; anything else is rejected with ErrUnknownAction.
type Action interface {
	isAction()
}

// WillGrade records that a grading call for the card was issued.
type WillGrade struct{ CardID int64 }

// DidGrade records the completion of a grading call. Completions may
// arrive out of submission order.
type DidGrade struct {
	CardID  int64
	Result  models.ResultKind
	Message string
}

// GaveUp removes the card from the session without a grading call.
type GaveUp struct{ CardID int64 }

// FlagQuiz pauses the card out of this session without a grading call.
type FlagQuiz struct{ CardID int64 }

// AddMore appends newly fetched cards to the queue.
type AddMore struct {
	Cards  []CardSnapshot
	Totals Totals
}

func (WillGrade) isAction() {}
func (DidGrade) isAction()  {}
func (GaveUp) isAction()    {}
func (FlagQuiz) isAction()  {}
func (AddMore) isAction()   {}

// Dispatch applies an action and returns the resulting state. Unknown
// actions and precondition violations are logged and returned as typed
// errors with the state unchanged.
func (s State) Dispatch(action Action) (State, error) {
	switch a := action.(type) {
	case WillGrade:
		out := s
		out.pendingGrades = s.pendingGrades + 1
		return out, nil

	case DidGrade:
		if s.pendingGrades == 0 {
			log.Printf("session: DID_GRADE for card %d with no pending grade", a.CardID)
			return s, fmt.Errorf("%w: card %d", ErrNoPendingGrade, a.CardID)
		}
		out := s.removeFromQueue(a.CardID)
		out.pendingGrades = s.pendingGrades - 1
		if a.Result == models.ResultFailure {
			out.lastFailure = &Failure{CardID: a.CardID, Message: a.Message}
		}
		return out, nil

	case GaveUp:
		return s.removeFromQueue(a.CardID), nil

	case FlagQuiz:
		return s.removeFromQueue(a.CardID), nil

	case AddMore:
		out := s
		out.totals = a.Totals
		out.queue = append([]int64(nil), s.queue...)
		cards := make(map[int64]CardSnapshot, len(s.cards)+len(a.Cards))
		for id, c := range s.cards {
			cards[id] = c
		}
		for _, c := range a.Cards {
			if _, exists := cards[c.ID]; exists {
				// Never overwrite a card already in the session.
				continue
			}
			cards[c.ID] = c
			out.queue = append(out.queue, c.ID)
		}
		out.cards = cards
		return out, nil

	default:
		log.Printf("session: rejected unknown action %T", action)
		return s, fmt.Errorf("%w: %T", ErrUnknownAction, action)
	}
}

// removeFromQueue returns a copy of the state with the card filtered out
// of the queue. Removal is by ID, so out-of-order completions are safe.
func (s State) removeFromQueue(cardID int64) State {
	out := s
	queue := make([]int64, 0, len(s.queue))
	for _, id := range s.queue {
		if id != cardID {
			queue = append(queue, id)
		}
	}
	out.queue = queue
	return out
}

// CurrentQuiz is the quiz the learner should take next.
type CurrentQuiz struct {
	CardID      int64
	Term        string
	Definition  string
	Kind        models.QuizKind
	Audio       string
	Repetitions int
}

// Current returns the quiz for the card at the front of the queue, or
// false when the queue is empty.
func (s State) Current() (CurrentQuiz, bool) {
	if len(s.queue) == 0 {
		return CurrentQuiz{}, false
	}
	card, ok := s.cards[s.queue[0]]
	if !ok {
		return CurrentQuiz{}, false
	}
	kind := LessonKind(card.ID, card.Repetitions)
	return CurrentQuiz{
		CardID:      card.ID,
		Term:        card.Term,
		Definition:  card.Definition,
		Kind:        kind,
		Audio:       card.Audio[kind],
		Repetitions: card.Repetitions,
	}, true
}

// Phase reports whether the session is active, draining in-flight
// grades, or complete.
func (s State) Phase() Phase {
	if len(s.queue) > 0 {
		return Active
	}
	if s.pendingGrades > 0 {
		return Draining
	}
	return Complete
}

// PendingGrades returns the number of grading calls in flight.
func (s State) PendingGrades() int {
	return s.pendingGrades
}

// LastFailure returns the most recent failed grading, if any.
func (s State) LastFailure() *Failure {
	return s.lastFailure
}

// Totals returns the aggregate counters from the last fetch.
func (s State) Totals() Totals {
	return s.totals
}

// Queued reports whether the card is still in the queue.
func (s State) Queued(cardID int64) bool {
	for _, id := range s.queue {
		if id == cardID {
			return true
		}
	}
	return false
}

// QueueLen returns the number of cards left in the queue.
func (s State) QueueLen() int {
	return len(s.queue)
}

// LessonKind derives the quiz kind for a card deterministically from its
// ID and repetition count: new cards drill dictation, then cards
// alternate between listening and speaking.
//
// TODO: the backend should assign the kind and send only the matching
// audio; this client-side derivation is kept for compatibility with
// existing learner progress and must stay reproducible.
func LessonKind(cardID int64, repetitions int) models.QuizKind {
	if repetitions < 2 {
		return models.Dictation
	}
	if (cardID+int64(repetitions))%2 == 0 {
		return models.Listening
	}
	return models.Speaking
}
