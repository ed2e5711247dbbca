package lesson

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/lingobot/pkg/models"
)

var card = models.Card{ID: 1, Term: "안녕하세요", Definition: "Hello", LangCode: "ko"}

func TestAudioRefDeterministic(t *testing.T) {
	ref := AudioRef(card, models.Dictation)
	assert.Equal(t, ref, AudioRef(card, models.Dictation))
	assert.True(t, strings.HasPrefix(ref, "speech/ko/"))
	assert.True(t, strings.HasSuffix(ref, ".mp3"))
}

func TestAudioRefVariesByKind(t *testing.T) {
	refs := map[string]bool{}
	for _, kind := range []models.QuizKind{models.Dictation, models.Listening, models.Speaking} {
		refs[AudioRef(card, kind)] = true
	}
	assert.Len(t, refs, 3, "each kind gets its own prompt audio")
}

func TestSnapshotCarriesAllAudioRefs(t *testing.T) {
	snap := Snapshot(card, 3)
	assert.Equal(t, card.ID, snap.ID)
	assert.Equal(t, 3, snap.Repetitions)
	assert.Len(t, snap.Audio, 3)
	assert.Equal(t, AudioRef(card, models.Speaking), snap.Audio[models.Speaking])
}
