// internal/types/terms.go
package types

/*
 * Term model for composite trigger conditions.
 *
 * A composite condition is a flat, left-associative chain of terms. Each term
 * references one delegate monitor and carries the condition that joins it to
 * the previous term:
 *
 *   [{"" m1}, {AND m2}, {OR NOT m3}]  ->  (monitor[id=m1] && monitor[id=m2] || !monitor[id=m3])
 *
 * Key types:
 *   - Term: one (condition, delegate) pair
 *   - Condition: closed enum, see types.go
 *
 * Editor-only state (popover open flags) is kept by internal/editor and never
 * stored on a Term, so the compiler's pure functions never see it.
 */

// Term is one operand in a composite trigger condition.
type Term struct {
	Condition    Condition `json:"condition" yaml:"condition"`
	DelegateID   string    `json:"delegate_id,omitempty" yaml:"delegate_id,omitempty"`
	DelegateName string    `json:"delegate_name,omitempty" yaml:"delegate_name,omitempty"` // display only, not compiled
}

// Complete reports whether the term references a delegate.
func (t Term) Complete() bool {
	return t.DelegateID != ""
}

// Placeholder returns the empty term for the given slot position.
// Index 0 gets no condition, every later slot defaults to AND.
func Placeholder(index int) Term {
	if index == 0 {
		return Term{Condition: ConditionNone}
	}
	return Term{Condition: ConditionAnd}
}

// MinTerms is the number of editable slots a composite condition always offers.
const MinTerms = 2
