// internal/editor/terms.go
package editor

import (
	"fmt"
	"strings"

	"github.com/solatis/triggerkeeper/internal/predicate"
	"github.com/solatis/triggerkeeper/internal/types"
	"go.uber.org/zap"
)

/*
 * Structured (graphical) trigger condition editor.
 *
 * Presents each term as an editable (condition, delegate) slot. Every
 * mutation recompiles the term list and writes the canonical text through to
 * the backing field, so the field is always authoritative and the term list
 * is only a view-model over it.
 *
 * Slot policy:
 *   - at least MinTerms slots always exist; RemoveTerm is refused at two
 *   - AddTerm is disabled once every candidate is referenced
 *   - removing index 0 clears the new first condition; no other removal
 *     touches neighbouring conditions
 *   - closing a term that was opened blank and is still blank removes it
 *
 * Popover open state is ephemeral and kept in maps keyed by term index,
 * outside the Term record.
 */

// TermList is the structured editor for one trigger condition field.
type TermList struct {
	fields     Fields
	path       string
	candidates types.Candidates
	terms      []types.Term

	open        map[int]bool
	openedBlank map[int]bool

	session types.SessionID
	log     *zap.Logger
}

// NewTermList seeds a structured editor from the field at path and writes the
// seeded canonical text back.
//
// Existing text (or any text in edit mode) is parsed and reconciled against
// candidates. An unset field in create mode is seeded with up to the first two
// candidates.
func NewTermList(fields Fields, path string, candidates types.Candidates, opts ...Option) *TermList {
	o := newOptions(opts)
	l := &TermList{
		fields:      fields,
		path:        path,
		candidates:  append(types.Candidates(nil), candidates...),
		open:        make(map[int]bool),
		openedBlank: make(map[int]bool),
		session:     o.session,
		log:         o.sessionLogger(path),
	}

	text := fields.Get(path)
	if o.edit || o.fromText || strings.TrimSpace(text) != "" {
		l.terms = predicate.Reconcile(l.parse(text), l.candidates)
	} else {
		l.terms = predicate.AutoSelect(l.candidates)
	}

	l.log.Debug("structured editor seeded",
		zap.Bool("edit", o.edit),
		zap.Int("candidates", len(l.candidates)),
		zap.Array("terms", termsLog(l.terms)))
	l.commit()
	return l
}

// parse converts field text to terms, logging text that will be discarded.
func (l *TermList) parse(text string) []types.Term {
	terms, err := predicate.ParseStrict(text, l.candidates)
	if err != nil {
		l.log.Warn("discarding malformed trigger condition",
			zap.String("text", text),
			zap.Error(err))
		return []types.Term{}
	}
	return terms
}

// Session returns the edit session id.
func (l *TermList) Session() types.SessionID {
	return l.session
}

// Terms returns a copy of the current term list.
func (l *TermList) Terms() []types.Term {
	return append([]types.Term(nil), l.terms...)
}

// Len returns the number of slots.
func (l *TermList) Len() int {
	return len(l.terms)
}

// Text returns the canonical text for the current terms.
func (l *TermList) Text() string {
	return predicate.Compile(l.terms)
}

// Candidates returns a copy of the candidate list the editor validates against.
func (l *TermList) Candidates() types.Candidates {
	return append(types.Candidates(nil), l.candidates...)
}

// IsOpen reports whether the slot's expression popover is open.
func (l *TermList) IsOpen(index int) bool {
	return l.open[index]
}

// CanAdd reports whether an unused candidate remains for a new slot.
func (l *TermList) CanAdd() bool {
	return len(l.Unused()) > 0
}

// CanRemove reports whether a slot may be removed without dropping below MinTerms.
func (l *TermList) CanRemove() bool {
	return len(l.terms) > types.MinTerms
}

// Unused returns candidates not referenced by any slot, in candidate order.
func (l *TermList) Unused() []types.Candidate {
	return l.available(-1)
}

// Options returns the candidates selectable in the slot at index: every
// unused candidate plus the slot's own selection.
func (l *TermList) Options(index int) ([]types.Candidate, error) {
	if err := l.check(index); err != nil {
		return nil, err
	}
	return l.available(index), nil
}

// ConditionOptions returns the conditions selectable in the slot at index.
func (l *TermList) ConditionOptions(index int) ([]ConditionOption, error) {
	if err := l.check(index); err != nil {
		return nil, err
	}
	return ConditionOptions(index), nil
}

// Validate reports the derived validity of the current terms.
func (l *TermList) Validate() Validation {
	return Validate(l.terms, l.candidates)
}

// SelectCandidate sets the delegate of the slot at index. An empty id clears
// the slot back to its position placeholder.
func (l *TermList) SelectCandidate(index int, id string) error {
	if err := l.check(index); err != nil {
		return err
	}

	if id == "" {
		l.terms[index] = types.Placeholder(index)
	} else {
		c, ok := l.candidates.Lookup(id)
		if !ok || !types.Referenceable(id) {
			return fmt.Errorf("%w: %s", types.ErrUnknownDelegate, id)
		}
		if other := l.indexOf(id); other >= 0 && other != index {
			return fmt.Errorf("%w: %s", types.ErrDuplicateDelegate, id)
		}
		l.terms[index].DelegateID = c.ID
		l.terms[index].DelegateName = c.Name
	}

	l.log.Debug("candidate selected", zap.Int("index", index), zap.String("delegate_id", id))
	l.commit()
	l.fields.Touch(l.path)
	return nil
}

// ChangeCondition overwrites the condition of the slot at index.
// Neighbouring slots are never adjusted.
func (l *TermList) ChangeCondition(index int, cond types.Condition) error {
	if err := l.check(index); err != nil {
		return err
	}
	if _, err := types.ParseCondition(string(cond)); err != nil {
		return err
	}
	if index == 0 && !cond.ValidFirst() {
		return fmt.Errorf("%w: %q", types.ErrInvalidFirstCondition, cond)
	}
	if index > 0 && !cond.ValidFollowing() {
		return fmt.Errorf("%w: %q at index %d", types.ErrInvalidCondition, cond, index)
	}

	l.terms[index].Condition = cond
	l.log.Debug("condition changed", zap.Int("index", index), zap.String("condition", string(cond)))
	l.commit()
	return nil
}

// AddTerm appends an AND slot holding the first unused candidate.
// Returns false without changes when no candidate is unused.
func (l *TermList) AddTerm() bool {
	unused := l.Unused()
	if len(unused) == 0 {
		return false
	}

	next := unused[0]
	l.terms = append(l.terms, types.Term{
		Condition:    types.ConditionAnd,
		DelegateID:   next.ID,
		DelegateName: next.Name,
	})
	l.log.Debug("term added", zap.Int("index", len(l.terms)-1), zap.String("delegate_id", next.ID))
	l.commit()
	return true
}

// RemoveTerm deletes the slot at index. Returns ErrMinimumTerms while only
// MinTerms slots exist.
func (l *TermList) RemoveTerm(index int) error {
	if err := l.check(index); err != nil {
		return err
	}
	if !l.CanRemove() {
		return types.ErrMinimumTerms
	}

	l.removeAt(index)
	l.log.Debug("term removed", zap.Int("index", index))
	l.commit()
	return nil
}

// OpenTerm opens the slot's expression popover.
func (l *TermList) OpenTerm(index int) error {
	if err := l.check(index); err != nil {
		return err
	}
	l.open[index] = true
	l.openedBlank[index] = !l.terms[index].Complete()
	return nil
}

// CloseTerm closes the slot's expression popover. A slot opened blank and
// left blank is removed when the slot minimum allows it.
func (l *TermList) CloseTerm(index int) error {
	if err := l.check(index); err != nil {
		return err
	}

	wasBlank := l.openedBlank[index]
	delete(l.open, index)
	delete(l.openedBlank, index)

	if wasBlank && !l.terms[index].Complete() && l.CanRemove() {
		l.removeAt(index)
		l.log.Debug("abandoned blank term removed", zap.Int("index", index))
		l.commit()
	}
	l.fields.Touch(l.path)
	return nil
}

// SetCandidates replaces the candidate list and reconciles the terms against it.
func (l *TermList) SetCandidates(candidates types.Candidates) {
	l.candidates = append(types.Candidates(nil), candidates...)
	before := len(l.terms)
	l.terms = predicate.Reconcile(l.terms, l.candidates)

	for i := range l.open {
		if i >= len(l.terms) {
			delete(l.open, i)
			delete(l.openedBlank, i)
		}
	}

	l.log.Debug("candidates changed",
		zap.Int("candidates", len(l.candidates)),
		zap.Int("terms_before", before),
		zap.Int("terms_after", len(l.terms)))
	l.commit()
}

// removeAt deletes a slot and re-keys the open state. Removing the first slot
// clears the new first condition.
func (l *TermList) removeAt(index int) {
	l.terms = append(l.terms[:index], l.terms[index+1:]...)
	if index == 0 && len(l.terms) > 0 {
		l.terms[0].Condition = types.ConditionNone
	}
	l.open = shiftDown(l.open, index)
	l.openedBlank = shiftDown(l.openedBlank, index)
}

// commit writes the canonical text through to the backing field.
func (l *TermList) commit() {
	text := predicate.Compile(l.terms)
	l.fields.Set(l.path, text)
	l.log.Debug("trigger condition written", zap.String("text", text))
}

func (l *TermList) check(index int) error {
	if index < 0 || index >= len(l.terms) {
		return fmt.Errorf("%w: %d (len %d)", types.ErrIndexOutOfRange, index, len(l.terms))
	}
	return nil
}

func (l *TermList) indexOf(id string) int {
	for i, t := range l.terms {
		if t.DelegateID == id {
			return i
		}
	}
	return -1
}

// available lists candidates unused by every slot except own (-1 for none).
func (l *TermList) available(own int) []types.Candidate {
	used := make(map[string]struct{}, len(l.terms))
	for i, t := range l.terms {
		if i != own && t.Complete() {
			used[t.DelegateID] = struct{}{}
		}
	}

	var out []types.Candidate
	for _, c := range l.candidates {
		if _, ok := used[c.ID]; ok || !types.Referenceable(c.ID) {
			continue
		}
		used[c.ID] = struct{}{}
		out = append(out, c)
	}
	return out
}

// shiftDown drops key removed and moves every later key down by one.
func shiftDown(m map[int]bool, removed int) map[int]bool {
	out := make(map[int]bool, len(m))
	for k, v := range m {
		switch {
		case k < removed:
			out[k] = v
		case k > removed:
			out[k-1] = v
		}
	}
	return out
}
