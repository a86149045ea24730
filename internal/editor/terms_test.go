// internal/editor/terms_test.go
package editor

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/solatis/triggerkeeper/internal/formstate"
	"github.com/solatis/triggerkeeper/internal/predicate"
	"github.com/solatis/triggerkeeper/internal/types"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const field = "triggers.0.condition"

var (
	twoCandidates = types.Candidates{
		{ID: "m1", Name: "CPU"},
		{ID: "m2", Name: "Mem"},
	}
	threeCandidates = types.Candidates{
		{ID: "m1", Name: "CPU"},
		{ID: "m2", Name: "Mem"},
		{ID: "m3", Name: "Disk"},
	}
)

func newList(t *testing.T, text string, candidates types.Candidates, opts ...Option) (*TermList, *formstate.Memory) {
	t.Helper()
	form := formstate.NewMemory(map[string]string{field: text})
	return NewTermList(form, field, candidates, opts...), form
}

func TestTermList_CreateAutoSelects(t *testing.T) {
	_, form := newList(t, "", twoCandidates)

	want := "(monitor[id=m1] && monitor[id=m2])"
	if got := form.Get(field); got != want {
		t.Errorf("field = %q, want %q", got, want)
	}
}

func TestTermList_EditModeSeedsFromText(t *testing.T) {
	l, form := newList(t, "", twoCandidates, WithEditMode(true))

	if diff := cmp.Diff(predicate.DefaultTerms(), l.Terms()); diff != "" {
		t.Errorf("Terms() mismatch (-want +got):\n%s", diff)
	}
	if got := form.Get(field); got != "()" {
		t.Errorf("field = %q, want %q", got, "()")
	}
}

func TestTermList_ExistingTextIsReconciled(t *testing.T) {
	l, form := newList(t, "monitor[id=m3]||!monitor[id=m1]", twoCandidates, WithEditMode(true))

	want := []types.Term{
		{Condition: types.ConditionNone},
		{Condition: types.ConditionOrNot, DelegateID: "m1", DelegateName: "CPU"},
	}
	if diff := cmp.Diff(want, l.Terms()); diff != "" {
		t.Errorf("Terms() mismatch (-want +got):\n%s", diff)
	}
	if got, want := form.Get(field), "(!monitor[id=m1])"; got != want {
		t.Errorf("field = %q, want %q", got, want)
	}
}

func TestTermList_MalformedTextIsDiscardedWithWarning(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	l, form := newList(t, "(monitor[id=m1] &&", twoCandidates,
		WithEditMode(true), WithLogger(zap.New(core)), WithSessionID("s-1"))

	if diff := cmp.Diff(predicate.DefaultTerms(), l.Terms()); diff != "" {
		t.Errorf("Terms() mismatch (-want +got):\n%s", diff)
	}
	if got := form.Get(field); got != "()" {
		t.Errorf("field = %q, want %q", got, "()")
	}

	entries := logs.FilterMessage("discarding malformed trigger condition").All()
	if len(entries) != 1 {
		t.Fatalf("got %d warn entries, want 1", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["session_id"] != "s-1" || ctx["field"] != field {
		t.Errorf("log context = %v, want session_id=s-1 field=%s", ctx, field)
	}
}

func TestTermList_RemoveDisallowedAtTwo(t *testing.T) {
	l, _ := newList(t, "", twoCandidates)

	if l.CanRemove() {
		t.Error("CanRemove() = true with two terms")
	}
	if l.CanAdd() {
		t.Error("CanAdd() = true with every candidate referenced")
	}
	if err := l.RemoveTerm(1); !errors.Is(err, types.ErrMinimumTerms) {
		t.Errorf("RemoveTerm(1) error = %v, want ErrMinimumTerms", err)
	}
	if l.AddTerm() {
		t.Error("AddTerm() = true with no unused candidate")
	}
	if l.Len() != 2 {
		t.Errorf("Len() = %d, want 2", l.Len())
	}

	l.SetCandidates(threeCandidates)
	if !l.AddTerm() {
		t.Fatal("AddTerm() = false with an unused candidate")
	}
	if !l.CanRemove() {
		t.Error("CanRemove() = false with three terms")
	}
	if err := l.RemoveTerm(2); err != nil {
		t.Errorf("RemoveTerm(2) error = %v", err)
	}
}

func TestTermList_AddTerm(t *testing.T) {
	l, form := newList(t, "", threeCandidates)

	if !l.AddTerm() {
		t.Fatal("AddTerm() = false")
	}
	want := types.Term{Condition: types.ConditionAnd, DelegateID: "m3", DelegateName: "Disk"}
	if got := l.Terms()[2]; got != want {
		t.Errorf("added term = %+v, want %+v", got, want)
	}
	if got, want := form.Get(field), "(monitor[id=m1] && monitor[id=m2] && monitor[id=m3])"; got != want {
		t.Errorf("field = %q, want %q", got, want)
	}
}

func TestTermList_RemoveFirstClearsCondition(t *testing.T) {
	l, form := newList(t, "(!monitor[id=m1] || monitor[id=m2] && monitor[id=m3])", threeCandidates)

	if err := l.RemoveTerm(0); err != nil {
		t.Fatalf("RemoveTerm(0) error = %v", err)
	}
	if got := l.Terms()[0].Condition; got != types.ConditionNone {
		t.Errorf("first condition = %q, want none", got)
	}
	if got, want := form.Get(field), "(monitor[id=m2] && monitor[id=m3])"; got != want {
		t.Errorf("field = %q, want %q", got, want)
	}
}

func TestTermList_RemoveMiddleKeepsNeighbours(t *testing.T) {
	l, form := newList(t, "(monitor[id=m1] || monitor[id=m2] && !monitor[id=m3])", threeCandidates)

	if err := l.RemoveTerm(1); err != nil {
		t.Fatalf("RemoveTerm(1) error = %v", err)
	}
	if got, want := form.Get(field), "(monitor[id=m1] && !monitor[id=m3])"; got != want {
		t.Errorf("field = %q, want %q", got, want)
	}
}

func TestTermList_SelectCandidate(t *testing.T) {
	l, form := newList(t, "(monitor[id=m1] || monitor[id=m2])", threeCandidates)

	if err := l.SelectCandidate(1, "m3"); err != nil {
		t.Fatalf("SelectCandidate(1, m3) error = %v", err)
	}
	if got, want := form.Get(field), "(monitor[id=m1] || monitor[id=m3])"; got != want {
		t.Errorf("field = %q, want %q", got, want)
	}
	if !form.Touched(field) {
		t.Error("field not touched after selection")
	}
	if got := l.Terms()[1].DelegateName; got != "Disk" {
		t.Errorf("DelegateName = %q, want Disk", got)
	}

	if err := l.SelectCandidate(1, "m1"); !errors.Is(err, types.ErrDuplicateDelegate) {
		t.Errorf("SelectCandidate(1, m1) error = %v, want ErrDuplicateDelegate", err)
	}
	if err := l.SelectCandidate(1, "nope"); !errors.Is(err, types.ErrUnknownDelegate) {
		t.Errorf("SelectCandidate(1, nope) error = %v, want ErrUnknownDelegate", err)
	}
	if err := l.SelectCandidate(5, "m2"); !errors.Is(err, types.ErrIndexOutOfRange) {
		t.Errorf("SelectCandidate(5, m2) error = %v, want ErrIndexOutOfRange", err)
	}

	// Reselecting a slot's own delegate is allowed.
	if err := l.SelectCandidate(1, "m3"); err != nil {
		t.Errorf("SelectCandidate(1, m3) again error = %v", err)
	}
}

func TestTermList_SelectNoneResetsToPlaceholder(t *testing.T) {
	l, form := newList(t, "(monitor[id=m1] || !monitor[id=m2])", twoCandidates)

	if err := l.SelectCandidate(1, ""); err != nil {
		t.Fatalf("SelectCandidate(1, \"\") error = %v", err)
	}
	if got, want := l.Terms()[1], types.Placeholder(1); got != want {
		t.Errorf("term = %+v, want %+v", got, want)
	}
	if got, want := form.Get(field), "(monitor[id=m1])"; got != want {
		t.Errorf("field = %q, want %q", got, want)
	}
}

func TestTermList_ChangeCondition(t *testing.T) {
	l, form := newList(t, "", threeCandidates)
	l.AddTerm()

	if err := l.ChangeCondition(1, types.ConditionOrNot); err != nil {
		t.Fatalf("ChangeCondition(1, OR NOT) error = %v", err)
	}
	if err := l.ChangeCondition(0, types.ConditionNot); err != nil {
		t.Fatalf("ChangeCondition(0, NOT) error = %v", err)
	}
	if got, want := form.Get(field), "(!monitor[id=m1] || !monitor[id=m2] && monitor[id=m3])"; got != want {
		t.Errorf("field = %q, want %q", got, want)
	}

	tests := []struct {
		index int
		cond  types.Condition
		want  error
	}{
		{0, types.ConditionAnd, types.ErrInvalidFirstCondition},
		{0, types.ConditionOrNot, types.ErrInvalidFirstCondition},
		{1, types.ConditionNone, types.ErrInvalidCondition},
		{1, types.Condition("XOR"), types.ErrInvalidCondition},
		{3, types.ConditionAnd, types.ErrIndexOutOfRange},
	}
	for _, tt := range tests {
		if err := l.ChangeCondition(tt.index, tt.cond); !errors.Is(err, tt.want) {
			t.Errorf("ChangeCondition(%d, %q) error = %v, want %v", tt.index, tt.cond, err, tt.want)
		}
	}

	// Rejected changes never reach the field.
	if got, want := form.Get(field), "(!monitor[id=m1] || !monitor[id=m2] && monitor[id=m3])"; got != want {
		t.Errorf("field = %q, want %q", got, want)
	}
}

func TestTermList_CloseRemovesAbandonedBlank(t *testing.T) {
	l, form := newList(t, "", threeCandidates)
	l.AddTerm()
	if err := l.SelectCandidate(2, ""); err != nil {
		t.Fatal(err)
	}

	if err := l.OpenTerm(2); err != nil {
		t.Fatal(err)
	}
	if !l.IsOpen(2) {
		t.Error("IsOpen(2) = false after OpenTerm")
	}
	if err := l.CloseTerm(2); err != nil {
		t.Fatal(err)
	}

	if l.Len() != 2 {
		t.Errorf("Len() = %d, want 2", l.Len())
	}
	if l.IsOpen(2) {
		t.Error("IsOpen(2) = true after close")
	}
	if !form.Touched(field) {
		t.Error("field not touched after close")
	}
}

func TestTermList_CloseKeepsCompletedOrMinimum(t *testing.T) {
	l, _ := newList(t, "", threeCandidates)
	l.AddTerm()
	l.SelectCandidate(2, "")

	// Completed during the interaction: kept.
	l.OpenTerm(2)
	l.SelectCandidate(2, "m3")
	l.CloseTerm(2)
	if l.Len() != 3 {
		t.Errorf("Len() = %d after completing blank, want 3", l.Len())
	}

	// Opened complete and cleared: kept, it did not start blank.
	l.OpenTerm(2)
	l.SelectCandidate(2, "")
	l.CloseTerm(2)
	if l.Len() != 3 {
		t.Errorf("Len() = %d after clearing complete term, want 3", l.Len())
	}

	// Two slots minimum wins over blank removal.
	m, _ := newList(t, "", types.Candidates{{ID: "m1", Name: "CPU"}})
	m.OpenTerm(1)
	m.CloseTerm(1)
	if m.Len() != 2 {
		t.Errorf("Len() = %d at minimum, want 2", m.Len())
	}
}

func TestTermList_OpenStateFollowsRemoval(t *testing.T) {
	l, _ := newList(t, "(monitor[id=m1] && monitor[id=m2] && monitor[id=m3])", threeCandidates)

	l.OpenTerm(2)
	if err := l.RemoveTerm(0); err != nil {
		t.Fatal(err)
	}
	if !l.IsOpen(1) {
		t.Error("IsOpen(1) = false, want open state shifted down")
	}
	if l.IsOpen(2) {
		t.Error("IsOpen(2) = true after removal")
	}
}

func TestTermList_Options(t *testing.T) {
	l, _ := newList(t, "(monitor[id=m1] && monitor[id=m3])", threeCandidates)

	got, err := l.Options(1)
	if err != nil {
		t.Fatal(err)
	}
	want := []types.Candidate{{ID: "m2", Name: "Mem"}, {ID: "m3", Name: "Disk"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Options(1) mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]types.Candidate{{ID: "m2", Name: "Mem"}}, l.Unused()); diff != "" {
		t.Errorf("Unused() mismatch (-want +got):\n%s", diff)
	}

	conds, err := l.ConditionOptions(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(conds) != 2 {
		t.Errorf("ConditionOptions(0) = %v, want None and NOT", conds)
	}
}

func TestTermList_RejectsUnreferenceableIDs(t *testing.T) {
	candidates := append(types.Candidates{{ID: "x]y", Name: "Bracket"}, {ID: " m9 ", Name: "Padded"}}, threeCandidates...)
	l, form := newList(t, "(monitor[id=m1] && monitor[id=m2])", candidates)

	for _, id := range []string{"x]y", " m9 "} {
		if err := l.SelectCandidate(1, id); !errors.Is(err, types.ErrUnknownDelegate) {
			t.Errorf("SelectCandidate(1, %q) error = %v, want ErrUnknownDelegate", id, err)
		}
	}
	if got, want := form.Get(field), "(monitor[id=m1] && monitor[id=m2])"; got != want {
		t.Errorf("field = %q, want %q", got, want)
	}

	got, err := l.Options(1)
	if err != nil {
		t.Fatal(err)
	}
	want := []types.Candidate{{ID: "m2", Name: "Mem"}, {ID: "m3", Name: "Disk"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Options(1) mismatch (-want +got):\n%s", diff)
	}
}

func TestTermList_PunctuatedIDSurvivesModeSwitch(t *testing.T) {
	candidates := types.Candidates{{ID: "a(b", Name: "Paren"}, {ID: "id[0", Name: "Index"}}
	l, form := newList(t, "", candidates)

	if got, want := form.Get(field), "(monitor[id=a(b] && monitor[id=id[0])"; got != want {
		t.Fatalf("field = %q, want %q", got, want)
	}

	again := NewTermList(form, field, candidates, WithEditMode(true))
	if diff := cmp.Diff(l.Terms(), again.Terms()); diff != "" {
		t.Errorf("reopened terms mismatch (-want +got):\n%s", diff)
	}
}

func TestTermList_SetCandidatesReconciles(t *testing.T) {
	l, form := newList(t, "(monitor[id=m1] && monitor[id=m2])", twoCandidates)

	l.SetCandidates(types.Candidates{{ID: "m1", Name: "CPU"}})

	want := []types.Term{
		{Condition: types.ConditionNone, DelegateID: "m1", DelegateName: "CPU"},
		{Condition: types.ConditionAnd},
	}
	if diff := cmp.Diff(want, l.Terms()); diff != "" {
		t.Errorf("Terms() mismatch (-want +got):\n%s", diff)
	}
	if got, want := form.Get(field), "(monitor[id=m1])"; got != want {
		t.Errorf("field = %q, want %q", got, want)
	}
	if got := l.Validate().Message(); got != types.ErrTooFewCandidates.Error() {
		t.Errorf("Validate() = %q, want %q", got, types.ErrTooFewCandidates)
	}
}
