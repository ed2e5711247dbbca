package grading

import (
	"strings"
	"unicode"
)

// normalize lowercases the input and strips punctuation and whitespace,
// so transcription artifacts never fail an otherwise exact answer.
func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// exactMatch reports whether the transcript matches the target after
// normalization.
func exactMatch(transcript, target string) bool {
	return normalize(transcript) == normalize(target)
}
