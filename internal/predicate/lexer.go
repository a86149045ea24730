// internal/predicate/lexer.go
package predicate

import (
	"fmt"
	"strings"

	"github.com/solatis/triggerkeeper/internal/types"
)

/*
 * Tokenizer for canonical trigger condition text.
 *
 * Explicit state machine over a fixed token set:
 *
 *   (  )  &&  ||  !  monitor[id=<identifier>]
 *
 * Whitespace between tokens is skipped. The atom is lexed as one token so that
 * "monitor[id=" must appear verbatim; the identifier is everything up to the
 * closing bracket, trimmed of surrounding whitespace. Any other byte produces
 * a SyntaxError carrying its offset.
 */

// atomPrefix opens a delegate reference.
const atomPrefix = "monitor[id="

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenLParen
	tokenRParen
	tokenAnd
	tokenOr
	tokenNot
	tokenAtom
)

func (k tokenKind) String() string {
	switch k {
	case tokenEOF:
		return "end of input"
	case tokenLParen:
		return "'('"
	case tokenRParen:
		return "')'"
	case tokenAnd:
		return "'&&'"
	case tokenOr:
		return "'||'"
	case tokenNot:
		return "'!'"
	case tokenAtom:
		return "monitor reference"
	default:
		return "unknown token"
	}
}

type token struct {
	kind  tokenKind
	value string // delegate id for tokenAtom
	pos   int    // byte offset in input
}

// SyntaxError reports malformed trigger condition text.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%v at offset %d: %s", types.ErrSyntax, e.Offset, e.Msg)
}

// Unwrap enables errors.Is(err, types.ErrSyntax).
func (e *SyntaxError) Unwrap() error {
	return types.ErrSyntax
}

type lexer struct {
	input string
	pos   int
}

// tokenize scans the whole input. The returned slice always ends with tokenEOF.
func tokenize(input string) ([]token, error) {
	l := &lexer{input: input}
	var tokens []token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.kind == tokenEOF {
			return tokens, nil
		}
	}
}

func (l *lexer) next() (token, error) {
	l.skipSpace()
	if l.pos >= len(l.input) {
		return token{kind: tokenEOF, pos: l.pos}, nil
	}

	start := l.pos
	switch l.input[l.pos] {
	case '(':
		l.pos++
		return token{kind: tokenLParen, pos: start}, nil
	case ')':
		l.pos++
		return token{kind: tokenRParen, pos: start}, nil
	case '!':
		l.pos++
		return token{kind: tokenNot, pos: start}, nil
	case '&':
		return l.pair('&', tokenAnd)
	case '|':
		return l.pair('|', tokenOr)
	case 'm':
		if strings.HasPrefix(l.input[l.pos:], atomPrefix) {
			return l.atom()
		}
	}
	return token{}, &SyntaxError{Offset: start, Msg: fmt.Sprintf("unexpected character %q", l.input[start])}
}

// pair lexes a doubled operator byte ("&&", "||").
func (l *lexer) pair(c byte, kind tokenKind) (token, error) {
	start := l.pos
	if l.pos+1 < len(l.input) && l.input[l.pos+1] == c {
		l.pos += 2
		return token{kind: kind, pos: start}, nil
	}
	return token{}, &SyntaxError{Offset: start, Msg: fmt.Sprintf("expected %q", string([]byte{c, c}))}
}

// atom lexes monitor[id=<identifier>]. The identifier runs to the first ']'.
func (l *lexer) atom() (token, error) {
	start := l.pos
	body := start + len(atomPrefix)
	end := strings.IndexByte(l.input[body:], ']')
	if end < 0 {
		return token{}, &SyntaxError{Offset: start, Msg: "unterminated monitor reference"}
	}
	id := strings.TrimSpace(l.input[body : body+end])
	if id == "" {
		return token{}, &SyntaxError{Offset: start, Msg: "empty monitor id"}
	}
	l.pos = body + end + 1
	return token{kind: tokenAtom, value: id, pos: start}, nil
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case ' ', '\t', '\n', '\r':
			l.pos++
		default:
			return
		}
	}
}
