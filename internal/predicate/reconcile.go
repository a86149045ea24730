// internal/predicate/reconcile.go
package predicate

import "github.com/solatis/triggerkeeper/internal/types"

/*
 * Term list repair against the current candidate list.
 *
 * Runs on load and whenever the candidate list changes. Self-healing, never
 * reported as an error:
 *
 *   1. A term whose delegate is no longer a candidate, or that repeats a
 *      delegate already referenced earlier, is removed while more than
 *      MinTerms terms would remain; otherwise it is reset to the placeholder
 *      for its position (no condition at index 0, AND after).
 *   2. Delegate names are refreshed from the candidate list.
 *   3. A binary combinator left on the first term is cleared.
 *   4. Fewer than MinTerms terms are padded with placeholders.
 *
 * Reconcile(Reconcile(t, c), c) == Reconcile(t, c).
 */

// Reconcile repairs terms against candidates. The input slice is not modified.
func Reconcile(terms []types.Term, candidates types.Candidates) []types.Term {
	out := make([]types.Term, 0, max(len(terms), types.MinTerms))
	seen := make(map[string]struct{}, len(terms))
	remaining := len(terms)

	for _, t := range terms {
		if !t.Complete() {
			t.DelegateName = ""
			out = append(out, t)
			continue
		}

		c, ok := candidates.Lookup(t.DelegateID)
		if _, dup := seen[t.DelegateID]; ok && !dup && types.Referenceable(c.ID) {
			seen[c.ID] = struct{}{}
			t.DelegateName = c.Name
			out = append(out, t)
			continue
		}

		if remaining > types.MinTerms {
			remaining--
			continue
		}
		out = append(out, types.Placeholder(len(out)))
	}

	if len(out) > 0 && !out[0].Condition.ValidFirst() {
		out[0].Condition = types.ConditionNone
	}

	for len(out) < types.MinTerms {
		out = append(out, types.Placeholder(len(out)))
	}
	return out
}

// DefaultTerms returns the two empty placeholder slots of a fresh expression.
func DefaultTerms() []types.Term {
	return []types.Term{types.Placeholder(0), types.Placeholder(1)}
}

// AutoSelect seeds a new expression with up to the first two candidates.
// Slots left without a candidate stay as placeholders.
func AutoSelect(candidates types.Candidates) []types.Term {
	terms := DefaultTerms()
	slot := 0
	seen := make(map[string]struct{}, types.MinTerms)
	for _, c := range candidates {
		if slot == len(terms) {
			break
		}
		if _, dup := seen[c.ID]; dup || !types.Referenceable(c.ID) {
			continue
		}
		seen[c.ID] = struct{}{}
		terms[slot].DelegateID = c.ID
		terms[slot].DelegateName = c.Name
		slot++
	}
	return terms
}
