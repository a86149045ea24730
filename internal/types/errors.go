package types

import "errors"

// Sentinel errors for triggerkeeper operations.
var (
	// ErrInvalidCondition indicates a condition outside the closed set, or an
	// empty condition on a term after the first.
	ErrInvalidCondition = errors.New("invalid condition")

	// ErrInvalidFirstCondition indicates a binary combinator on the first term.
	ErrInvalidFirstCondition = errors.New("first term condition must be empty or NOT")

	// ErrSyntax indicates malformed canonical text.
	ErrSyntax = errors.New("syntax error in trigger condition")

	// ErrEmptyExpression indicates a trigger condition with no text or no terms.
	ErrEmptyExpression = errors.New("trigger condition is required")

	// ErrUnknownDelegate indicates a delegate id not present in the candidate list.
	ErrUnknownDelegate = errors.New("unknown delegate monitor")

	// ErrDuplicateDelegate indicates a delegate already referenced by another term.
	ErrDuplicateDelegate = errors.New("delegate monitor already selected")

	// ErrIndexOutOfRange indicates a term index outside the current term list.
	ErrIndexOutOfRange = errors.New("term index out of range")

	// ErrMinimumTerms indicates a removal that would leave fewer than MinTerms slots.
	ErrMinimumTerms = errors.New("composite condition requires at least two terms")
)

// Validation failures. Reported as values by the editor, never returned from
// mutating operations.
var (
	ErrTooFewCandidates   = errors.New("requires at least two associated monitors")
	ErrTooFewSelected     = errors.New("requires at least two monitors selected")
	ErrUnselectedDelegate = errors.New("using an unselected delegate")
)
