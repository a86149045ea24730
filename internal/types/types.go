// Package types provides domain models shared across triggerkeeper components.
//
// Zero-dependency design: types.go, terms.go and errors.go use only the
// standard library so the predicate compiler stays importable without the CLI
// stack. Session id helpers in ids.go import uuid but are isolated.
package types

import (
	"fmt"
	"strings"
)

// Condition is the boolean combinator attached to a term.
// The operator belongs to the term it precedes: t0 <op1> t1 <op2> t2 ...
type Condition string

const (
	ConditionNone   Condition = ""
	ConditionAnd    Condition = "AND"
	ConditionOr     Condition = "OR"
	ConditionNot    Condition = "NOT"
	ConditionAndNot Condition = "AND NOT"
	ConditionOrNot  Condition = "OR NOT"
)

// Conditions lists every valid condition in catalog order.
var Conditions = []Condition{
	ConditionNone,
	ConditionAnd,
	ConditionOr,
	ConditionNot,
	ConditionAndNot,
	ConditionOrNot,
}

// ParseCondition validates s against the closed condition set.
func ParseCondition(s string) (Condition, error) {
	for _, c := range Conditions {
		if string(c) == s {
			return c, nil
		}
	}
	return ConditionNone, fmt.Errorf("%w: %q", ErrInvalidCondition, s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
// Out-of-enum values are rejected when a term file is decoded, not when it is compiled.
func (c *Condition) UnmarshalText(text []byte) error {
	parsed, err := ParseCondition(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ValidFirst reports whether c may appear on the first term.
func (c Condition) ValidFirst() bool {
	return c == ConditionNone || c == ConditionNot
}

// ValidFollowing reports whether c may appear on any term after the first.
func (c Condition) ValidFollowing() bool {
	switch c {
	case ConditionAnd, ConditionOr, ConditionNot, ConditionAndNot, ConditionOrNot:
		return true
	default:
		return false
	}
}

// Negated reports whether the term operand is negated.
func (c Condition) Negated() bool {
	return c == ConditionNot || c == ConditionAndNot || c == ConditionOrNot
}

// Combinator returns the binary operator token joining the term to its
// predecessor ("&&", "||"), or "" when the condition has none.
func (c Condition) Combinator() string {
	switch c {
	case ConditionAnd, ConditionAndNot:
		return "&&"
	case ConditionOr, ConditionOrNot:
		return "||"
	default:
		return ""
	}
}

// Candidate is one delegate monitor available for selection.
type Candidate struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Candidates is the externally supplied ordered candidate list.
// The core only reads it.
type Candidates []Candidate

// Lookup returns the candidate with the given id.
func (cs Candidates) Lookup(id string) (Candidate, bool) {
	if id == "" {
		return Candidate{}, false
	}
	for _, c := range cs {
		if c.ID == id {
			return c, true
		}
	}
	return Candidate{}, false
}

// Contains reports whether id refers to a current candidate.
func (cs Candidates) Contains(id string) bool {
	_, ok := cs.Lookup(id)
	return ok
}

// Referenceable reports whether id survives a round-trip through canonical
// text: non-empty, no surrounding whitespace, no ']'.
func Referenceable(id string) bool {
	return id != "" && strings.TrimSpace(id) == id && !strings.Contains(id, "]")
}

// Distinct counts distinct referenceable candidate ids.
func (cs Candidates) Distinct() int {
	seen := make(map[string]struct{}, len(cs))
	for _, c := range cs {
		if Referenceable(c.ID) {
			seen[c.ID] = struct{}{}
		}
	}
	return len(seen)
}
