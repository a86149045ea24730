package manifest

import (
	"errors"
	"fmt"
	"os"

	"github.com/solatis/triggerkeeper/internal/editor"
	"github.com/solatis/triggerkeeper/internal/types"
)

/*
 * Editor scripts.
 *
 * A script is a recorded sequence of editor interactions replayed against a
 * Container on an in-memory form:
 *
 *   search_type: query
 *   text: "(monitor[id=m1] || monitor[id=m2])"
 *   steps:
 *     - op: mode
 *       mode: graph
 *     - op: condition
 *       index: 1
 *       condition: AND NOT
 *
 * Structured ops (select, condition, add, remove, open, close) require graph
 * mode; text ops (change, blur) require query mode.
 */

// Op names a single editor interaction.
type Op string

const (
	OpSelect     Op = "select"
	OpCondition  Op = "condition"
	OpAdd        Op = "add"
	OpRemove     Op = "remove"
	OpOpen       Op = "open"
	OpClose      Op = "close"
	OpChange     Op = "change"
	OpBlur       Op = "blur"
	OpMode       Op = "mode"
	OpCandidates Op = "candidates"
)

var (
	// ErrUnknownOp indicates a step with an op outside the known set.
	ErrUnknownOp = errors.New("unknown script op")

	// ErrWrongMode indicates a step that needs the other editor mode.
	ErrWrongMode = errors.New("op not available in current editor mode")
)

// Step is one recorded interaction.
type Step struct {
	Op         Op                `yaml:"op"`
	Index      int               `yaml:"index,omitempty"`
	ID         string            `yaml:"id,omitempty"`
	Condition  types.Condition   `yaml:"condition,omitempty"`
	Text       string            `yaml:"text,omitempty"`
	Mode       editor.SearchType `yaml:"mode,omitempty"`
	Candidates types.Candidates  `yaml:"candidates,omitempty"`
}

// Script is a starting form state plus the steps to replay on it.
type Script struct {
	SearchType editor.SearchType `yaml:"search_type,omitempty"`
	Text       string            `yaml:"text,omitempty"`
	Edit       bool              `yaml:"edit,omitempty"`
	Candidates types.Candidates  `yaml:"candidates,omitempty"`
	Steps      []Step            `yaml:"steps"`
}

// LoadScript reads an editor script.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return ParseScript(data)
}

// ParseScript decodes an editor script document.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := decodeStrict(data, &s); err != nil {
		return nil, fmt.Errorf("invalid script: %w", err)
	}
	for i, st := range s.Steps {
		if !st.Op.valid() {
			return nil, fmt.Errorf("step %d: %w: %q", i, ErrUnknownOp, st.Op)
		}
	}
	return &s, nil
}

func (o Op) valid() bool {
	switch o {
	case OpSelect, OpCondition, OpAdd, OpRemove, OpOpen, OpClose,
		OpChange, OpBlur, OpMode, OpCandidates:
		return true
	}
	return false
}

// Replay applies every step to c in order, stopping at the first failure.
// OpAdd with no unused candidate is a no-op, not a failure.
func Replay(c *editor.Container, steps []Step) error {
	for i, st := range steps {
		if err := Apply(c, st); err != nil {
			return fmt.Errorf("step %d (%s): %w", i, st.Op, err)
		}
	}
	return nil
}

// Apply runs a single step against c.
func Apply(c *editor.Container, st Step) error {
	switch st.Op {
	case OpMode:
		return c.SetSearchType(st.Mode)
	case OpCandidates:
		c.SetCandidates(st.Candidates)
		return nil
	case OpChange, OpBlur:
		t := c.Text()
		if t == nil {
			return ErrWrongMode
		}
		if st.Op == OpChange {
			t.Change(st.Text)
		} else {
			t.Blur()
		}
		return nil
	}

	l := c.Structured()
	if l == nil {
		return ErrWrongMode
	}
	switch st.Op {
	case OpSelect:
		return l.SelectCandidate(st.Index, st.ID)
	case OpCondition:
		return l.ChangeCondition(st.Index, st.Condition)
	case OpAdd:
		l.AddTerm()
		return nil
	case OpRemove:
		return l.RemoveTerm(st.Index)
	case OpOpen:
		return l.OpenTerm(st.Index)
	case OpClose:
		return l.CloseTerm(st.Index)
	}
	return fmt.Errorf("%w: %q", ErrUnknownOp, st.Op)
}
