package models

// VerdictResult is the binary outcome of a grading pipeline.
type VerdictResult int

const (
	Pass VerdictResult = iota + 1
	Fail
)

// String returns "pass" or "fail".
func (r VerdictResult) String() string {
	switch r {
	case Pass:
		return "pass"
	case Fail:
		return "fail"
	}
	return "unknown"
}

// Verdict is the outcome of grading one answer. Rationale is user-facing
// and never consulted by scheduling logic.
type Verdict struct {
	Result    VerdictResult `json:"result"`
	Rationale string        `json:"rationale"`
}

// ResultKind is the tri-state outcome reported back to the session layer.
// Errors are a distinct state so the queue can advance deterministically
// even when grading could not complete.
type ResultKind int

const (
	ResultSuccess ResultKind = iota + 1
	ResultFailure
	ResultError
)

// String returns "success", "failure" or "error".
func (r ResultKind) String() string {
	switch r {
	case ResultSuccess:
		return "success"
	case ResultFailure:
		return "failure"
	case ResultError:
		return "error"
	}
	return "unknown"
}
