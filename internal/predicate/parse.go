// internal/predicate/parse.go
package predicate

import (
	"fmt"

	"github.com/solatis/triggerkeeper/internal/types"
)

/*
 * Canonical text -> term list.
 *
 * Grammar (flat, left-associative, no precedence among terms):
 *
 *   expr  := '(' chain? ')' | chain?
 *   chain := first next*
 *   first := '!'? atom
 *   next  := ('&&' | '||') '!'? atom
 *          | '!' atom
 *
 * The outer parentheses are optional on input because free-text users may
 * omit them; Compile always emits them. A bare '!' after a term is the NOT
 * condition on a following slot.
 *
 * ParseStrict reports the first syntax error. Parse is total: any error
 * degrades to an empty term list, which callers seed through Reconcile.
 * Neither function fabricates placeholders.
 */

// Parse converts canonical text into terms, resolving names from candidates.
// Malformed text yields an empty, non-nil slice.
func Parse(text string, candidates types.Candidates) []types.Term {
	terms, err := ParseStrict(text, candidates)
	if err != nil {
		return []types.Term{}
	}
	return terms
}

// ParseStrict converts canonical text into terms.
// Returns a *SyntaxError (errors.Is types.ErrSyntax) on malformed input.
// Names of ids missing from candidates are left blank.
func ParseStrict(text string, candidates types.Candidates) ([]types.Term, error) {
	tokens, err := tokenize(text)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens}
	terms, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	for i := range terms {
		if c, ok := candidates.Lookup(terms[i].DelegateID); ok {
			terms[i].DelegateName = c.Name
		}
	}
	return terms, nil
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) advance() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokenEOF {
		p.pos++
	}
	return tok
}

func (p *parser) expect(kind tokenKind) (token, error) {
	tok := p.advance()
	if tok.kind != kind {
		return tok, unexpected(tok, kind)
	}
	return tok, nil
}

func (p *parser) parseExpr() ([]types.Term, error) {
	terms := []types.Term{}

	wrapped := p.peek().kind == tokenLParen
	if wrapped {
		p.advance()
	}

	closing := tokenEOF
	if wrapped {
		closing = tokenRParen
	}

	if p.peek().kind != closing {
		chain, err := p.parseChain()
		if err != nil {
			return nil, err
		}
		terms = chain
	}

	if wrapped {
		if _, err := p.expect(tokenRParen); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(tokenEOF); err != nil {
		return nil, err
	}
	return terms, nil
}

func (p *parser) parseChain() ([]types.Term, error) {
	first, err := p.parseOperand(types.ConditionNone)
	if err != nil {
		return nil, err
	}
	terms := []types.Term{first}

	for {
		var cond types.Condition
		switch p.peek().kind {
		case tokenAnd:
			p.advance()
			cond = types.ConditionAnd
		case tokenOr:
			p.advance()
			cond = types.ConditionOr
		case tokenNot:
			// Bare negation on a following slot; parseOperand consumes the '!'.
			cond = types.ConditionNone
		default:
			return terms, nil
		}

		term, err := p.parseOperand(cond)
		if err != nil {
			return nil, err
		}
		terms = append(terms, term)
	}
}

// parseOperand parses '!'? atom and folds the negation into cond.
func (p *parser) parseOperand(cond types.Condition) (types.Term, error) {
	negated := false
	if p.peek().kind == tokenNot {
		p.advance()
		negated = true
	}

	tok, err := p.expect(tokenAtom)
	if err != nil {
		return types.Term{}, err
	}
	return types.Term{
		Condition:  withNegation(cond, negated),
		DelegateID: tok.value,
	}, nil
}

// withNegation folds a preceding '!' into the combinator's condition.
func withNegation(cond types.Condition, negated bool) types.Condition {
	if !negated {
		return cond
	}
	switch cond {
	case types.ConditionAnd:
		return types.ConditionAndNot
	case types.ConditionOr:
		return types.ConditionOrNot
	default:
		return types.ConditionNot
	}
}

func unexpected(tok token, want tokenKind) error {
	return &SyntaxError{
		Offset: tok.pos,
		Msg:    fmt.Sprintf("expected %v, found %v", want, tok.kind),
	}
}
