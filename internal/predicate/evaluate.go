// internal/predicate/evaluate.go
package predicate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/solatis/triggerkeeper/internal/types"
)

/*
 * Reference evaluator for compiled trigger conditions.
 *
 * Mirrors what a downstream evaluator does with canonical text: each
 * monitor[id=X] atom reads the triggered state of delegate X, and the chain is
 * folded strictly left to right with no precedence between && and ||:
 *
 *   (a || b && !c)  ->  ((monitor["a"] || monitor["b"]) && !monitor["c"])
 *
 * The text is parsed with ParseStrict and lowered to an expr-lang program
 * once; Evaluate can then run repeatedly against different state maps.
 *
 * A bare NOT on a following term (no combinator) joins with &&.
 */

// Program is a compiled trigger condition ready for evaluation.
type Program struct {
	text      string
	source    string
	delegates []string
	program   *vm.Program
}

// NewProgram compiles canonical text into an evaluable program.
// Returns ErrSyntax for malformed text and ErrEmptyExpression when the text
// references no monitors.
func NewProgram(text string) (*Program, error) {
	terms, err := ParseStrict(text, nil)
	if err != nil {
		return nil, err
	}
	if len(terms) == 0 {
		return nil, types.ErrEmptyExpression
	}

	source := lower(terms)
	env := map[string]any{"monitor": map[string]bool{}}
	program, err := expr.Compile(source, expr.Env(env), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("failed to compile condition: %w", err)
	}

	delegates := make([]string, 0, len(terms))
	for _, t := range terms {
		delegates = append(delegates, t.DelegateID)
	}

	return &Program{
		text:      text,
		source:    source,
		delegates: delegates,
		program:   program,
	}, nil
}

// Delegates returns the referenced delegate ids in source order.
func (p *Program) Delegates() []string {
	out := make([]string, len(p.delegates))
	copy(out, p.delegates)
	return out
}

// Text returns the canonical text the program was compiled from.
func (p *Program) Text() string {
	return p.text
}

// Source returns the lowered expr-lang source, for diagnostics.
func (p *Program) Source() string {
	return p.source
}

// Evaluate runs the program against delegate trigger states.
// Every referenced delegate must have a state; a missing one returns
// ErrUnknownDelegate rather than defaulting to false.
func (p *Program) Evaluate(states map[string]bool) (bool, error) {
	for _, id := range p.delegates {
		if _, ok := states[id]; !ok {
			return false, fmt.Errorf("%w: %s", types.ErrUnknownDelegate, id)
		}
	}

	output, err := expr.Run(p.program, map[string]any{"monitor": states})
	if err != nil {
		return false, fmt.Errorf("failed to evaluate condition: %w", err)
	}

	result, ok := output.(bool)
	if !ok {
		return false, fmt.Errorf("condition did not return a boolean")
	}
	return result, nil
}

// Evaluate compiles text and runs it once against states.
func Evaluate(text string, states map[string]bool) (bool, error) {
	p, err := NewProgram(text)
	if err != nil {
		return false, err
	}
	return p.Evaluate(states)
}

// lower builds a left-nested expr-lang expression from a non-empty chain.
func lower(terms []types.Term) string {
	acc := operand(terms[0].Condition.Negated(), terms[0].DelegateID)
	for _, t := range terms[1:] {
		op := t.Condition.Combinator()
		if op == "" {
			op = "&&"
		}
		var b strings.Builder
		b.WriteByte('(')
		b.WriteString(acc)
		b.WriteByte(' ')
		b.WriteString(op)
		b.WriteByte(' ')
		b.WriteString(operand(t.Condition.Negated(), t.DelegateID))
		b.WriteByte(')')
		acc = b.String()
	}
	return acc
}

func operand(negated bool, id string) string {
	ref := "monitor[" + strconv.Quote(id) + "]"
	if negated {
		return "!" + ref
	}
	return ref
}
