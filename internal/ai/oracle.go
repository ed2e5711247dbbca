// Package ai provides the judgment oracle: an external yes/no reasoning
// service used to grade free-form answers.
package ai

import (
	"context"
	"errors"
	"fmt"
)

// ErrOracleProtocol reports a response that violates the yes/no contract.
// Protocol violations are never treated as verdicts.
var ErrOracleProtocol = errors.New("ai: oracle protocol violation")

// YesNo is the oracle's answer. WhyNot is required when the response is
// "no" and must be empty when it is "yes".
type YesNo struct {
	Response string `json:"response"`
	WhyNot   string `json:"whyNot,omitempty"`
}

// No reports whether the oracle answered "no".
func (y YesNo) No() bool {
	return y.Response == "no"
}

// Oracle answers yes/no questions about a piece of user input.
// subjectID identifies the learner for usage attribution.
type Oracle interface {
	YesOrNo(ctx context.Context, userInput, question, subjectID string) (YesNo, error)
}

// validate enforces the response shape. Anything other than a well-formed
// yes or no is a protocol error.
func validate(y YesNo) error {
	switch y.Response {
	case "yes":
		if y.WhyNot != "" {
			return fmt.Errorf("%w: whyNot present on a yes response", ErrOracleProtocol)
		}
	case "no":
		if y.WhyNot == "" {
			return fmt.Errorf("%w: whyNot missing on a no response", ErrOracleProtocol)
		}
	default:
		return fmt.Errorf("%w: response %q is neither yes nor no", ErrOracleProtocol, y.Response)
	}
	return nil
}
