package editor

import "github.com/solatis/triggerkeeper/internal/types"

// Validation is the derived validity of a trigger condition.
// A failure gates submission but never blocks further editing.
type Validation struct {
	Err error
}

// Valid reports whether the condition passed every check.
func (v Validation) Valid() bool {
	return v.Err == nil
}

// Message returns the field-level error message, or "" when valid.
func (v Validation) Message() string {
	if v.Err == nil {
		return ""
	}
	return v.Err.Error()
}

// Validate checks a structured term list. Checks run in priority order and
// only the first failure is reported:
//
//  1. fewer than two distinct candidates exist (ErrTooFewCandidates)
//  2. fewer than two terms reference a delegate (ErrTooFewSelected)
//  3. a term references a delegate missing from candidates (ErrUnselectedDelegate)
func Validate(terms []types.Term, candidates types.Candidates) Validation {
	if candidates.Distinct() < types.MinTerms {
		return Validation{Err: types.ErrTooFewCandidates}
	}

	selected := 0
	for _, t := range terms {
		if t.Complete() {
			selected++
		}
	}
	if selected < types.MinTerms {
		return Validation{Err: types.ErrTooFewSelected}
	}

	for _, t := range terms {
		if t.Complete() && !candidates.Contains(t.DelegateID) {
			return Validation{Err: types.ErrUnselectedDelegate}
		}
	}
	return Validation{}
}
