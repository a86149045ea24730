// internal/predicate/compile.go
package predicate

import (
	"strings"

	"github.com/solatis/triggerkeeper/internal/types"
)

/*
 * Term list -> canonical text.
 *
 * Output form:
 *
 *   (<first> <op> monitor[id=<id>] <op> monitor[id=<id>] ...)
 *
 * Operator mapping for following terms:
 *
 *   AND -> &&    OR -> ||    AND NOT -> && !    OR NOT -> || !    NOT -> !
 *
 * The first emitted term renders as monitor[id=<id>] or !monitor[id=<id>].
 *
 * Incomplete terms (empty delegate id) are skipped so a half-filled editor
 * still produces parseable text. When leading terms are skipped, the first
 * emitted term drops its binary combinator and keeps only its negation; a
 * combinator with no left operand would not parse. A following term with no
 * condition joins with &&, the placeholder default.
 *
 * Compile is pure and never fails. An all-empty list compiles to "()".
 */

// Compile serializes terms to canonical text.
func Compile(terms []types.Term) string {
	var b strings.Builder
	b.WriteByte('(')

	emitted := 0
	for _, t := range terms {
		if !t.Complete() {
			continue
		}
		if emitted == 0 {
			writeOperand(&b, t.Condition.Negated(), t.DelegateID)
		} else {
			writeFollowing(&b, t)
		}
		emitted++
	}

	b.WriteByte(')')
	return b.String()
}

func writeFollowing(b *strings.Builder, t types.Term) {
	b.WriteByte(' ')
	switch t.Condition {
	case types.ConditionNot:
		writeOperand(b, true, t.DelegateID)
		return
	case types.ConditionNone:
		b.WriteString("&& ")
	default:
		b.WriteString(t.Condition.Combinator())
		b.WriteByte(' ')
	}
	writeOperand(b, t.Condition.Negated(), t.DelegateID)
}

func writeOperand(b *strings.Builder, negated bool, id string) {
	if negated {
		b.WriteByte('!')
	}
	b.WriteString(atomPrefix)
	b.WriteString(id)
	b.WriteByte(']')
}
