// Package grading turns a free-form transcription into a pass/fail
// verdict via the judgment oracle, and ties verdicts to the scheduler.
package grading

import (
	"context"
	"fmt"

	"github.com/example/lingobot/internal/ai"
	"github.com/example/lingobot/pkg/models"
)

// Input carries one answer through an evaluator.
type Input struct {
	Transcript string
	Card       models.Card
	SubjectID  string
}

// Evaluator grades a transcript against a card for one quiz kind.
type Evaluator func(ctx context.Context, in Input, judge ai.Oracle) (models.Verdict, error)

// evaluators maps each quiz kind to its grading strategy. The map is the
// single source of truth for kind dispatch; an unknown kind never reaches
// an evaluator.
var evaluators = map[models.QuizKind]Evaluator{
	models.Dictation: evaluateDictation,
	models.Listening: evaluateListening,
	models.Speaking:  evaluateSpeaking,
}

const exactMatchMessage = "Exact match. Nice work!"

const promptFooter = `
Punctuation, spelling and spacing do not matter; the text came from
speech transcription. Answer with the yes_or_no function. If the answer
is "no", whyNot must explain the mistake in one short sentence. You will
be penalized for vague "no" responses.`

// pass builds a passing verdict with a user-facing message.
func pass(message string) models.Verdict {
	return models.Verdict{Result: models.Pass, Rationale: message}
}

// fail builds a failing verdict, falling back to a default message when
// the oracle gave no reason.
func fail(whyNot string) models.Verdict {
	if whyNot == "" {
		whyNot = "No reason provided."
	}
	return models.Verdict{Result: models.Fail, Rationale: whyNot}
}

// evaluateDictation checks that the transcript is a faithful reading of
// the card's term.
func evaluateDictation(ctx context.Context, in Input, judge ai.Oracle) (models.Verdict, error) {
	if exactMatch(in.Transcript, in.Card.Term) {
		return pass(exactMatchMessage), nil
	}
	question := fmt.Sprintf(`A language learning app user was asked to read this
phrase aloud: "%s" (meaning: "%s").
The user's input is a transcription of what they said.
Is it a faithful reading of the phrase?`+promptFooter,
		in.Card.Term, in.Card.Definition)

	answer, err := judge.YesOrNo(ctx, in.Transcript, question, in.SubjectID)
	if err != nil {
		return models.Verdict{}, err
	}
	if answer.No() {
		return fail(answer.WhyNot), nil
	}
	return pass("You passed the dictation quiz!"), nil
}

// evaluateListening checks that the transcript states the card's meaning
// in the learner's language.
func evaluateListening(ctx context.Context, in Input, judge ai.Oracle) (models.Verdict, error) {
	if exactMatch(in.Transcript, in.Card.Definition) {
		return pass(exactMatchMessage), nil
	}
	question := fmt.Sprintf(`Sentence B: "%s" (%s)
Sentence C: "%s" (EN)

When translated, is sentence A equivalent in meaning to sentence B and C?
The meaning is more important than the words used.`+promptFooter,
		in.Card.Term, in.Card.LangCode, in.Card.Definition)

	userInput := fmt.Sprintf("Sentence A: %s (EN)", in.Transcript)
	answer, err := judge.YesOrNo(ctx, userInput, question, in.SubjectID)
	if err != nil {
		return models.Verdict{}, err
	}
	if answer.No() {
		return fail(answer.WhyNot), nil
	}
	return pass("You passed the listening quiz!"), nil
}

// evaluateSpeaking checks a translation into the target language in two
// stages. Grammar gates meaning: a grammatically broken sentence can
// still look semantically close, so the meaning check only runs once the
// sentence is valid and in the right language.
func evaluateSpeaking(ctx context.Context, in Input, judge ai.Oracle) (models.Verdict, error) {
	if exactMatch(in.Transcript, in.Card.Term) {
		return pass(exactMatchMessage), nil
	}

	grammarQuestion := fmt.Sprintf(`Grade a sentence spoken into a language learning
app. Answer yes if the sentence is grammatically correct and in the
specified language (ISO 639-1 code '%s'). Answer no if it does not
follow the language's syntax and semantics or is not in the specified
language. Incomplete sentences are OK if they are grammatically
correct.`+promptFooter, in.Card.LangCode)

	grammar, err := judge.YesOrNo(ctx, in.Transcript, grammarQuestion, in.SubjectID)
	if err != nil {
		return models.Verdict{}, err
	}
	if grammar.No() {
		return fail(grammar.WhyNot), nil
	}

	meaningQuestion := fmt.Sprintf(`Sentence B: "%s" (%s)
Sentence C: "%s" (EN)

When translated, is sentence A equivalent to sentence B and C?
The meaning is more important than the words used.`+promptFooter,
		in.Card.Term, in.Card.LangCode, in.Card.Definition)

	userInput := fmt.Sprintf("Sentence A: %s (%s)", in.Transcript, in.Card.LangCode)
	meaning, err := judge.YesOrNo(ctx, userInput, meaningQuestion, in.SubjectID)
	if err != nil {
		return models.Verdict{}, err
	}
	if meaning.No() {
		return fail(meaning.WhyNot), nil
	}
	return pass("You passed the speaking quiz!"), nil
}
