// internal/editor/container.go
package editor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/solatis/triggerkeeper/internal/types"
	"go.uber.org/zap"
)

// SearchType is the parent monitor flag selecting the editor presentation.
type SearchType string

const (
	// SearchTypeGraph selects the structured editor.
	SearchTypeGraph SearchType = "graph"

	// SearchTypeQuery selects the free-text editor.
	SearchTypeQuery SearchType = "query"
)

// ErrInvalidSearchType indicates a search type other than graph or query.
var ErrInvalidSearchType = errors.New("invalid search type")

// ParseSearchType converts s (case-insensitive) to a SearchType.
func ParseSearchType(s string) (SearchType, error) {
	switch SearchType(strings.ToLower(strings.TrimSpace(s))) {
	case SearchTypeGraph:
		return SearchTypeGraph, nil
	case SearchTypeQuery:
		return SearchTypeQuery, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSearchType, s)
}

// Container mounts exactly one editor for a field, chosen by search type.
//
// The field is handed off only on mode switch. Entering structured mode
// parses and reconciles the current text once before the term list is
// exposed; leaving it leaves the already canonical text alone.
type Container struct {
	fields     Fields
	path       string
	candidates types.Candidates
	mode       SearchType
	opts       []Option

	structured *TermList
	text       *TextEditor

	session types.SessionID
	log     *zap.Logger
}

// NewContainer mounts the editor for searchType on the field at path.
func NewContainer(fields Fields, path string, candidates types.Candidates, searchType SearchType, opts ...Option) (*Container, error) {
	mode, err := ParseSearchType(string(searchType))
	if err != nil {
		return nil, err
	}

	o := newOptions(opts)
	// Children share the container's session.
	opts = append(append([]Option(nil), opts...), WithSessionID(o.session))

	c := &Container{
		fields:     fields,
		path:       path,
		candidates: append(types.Candidates(nil), candidates...),
		opts:       opts,
		session:    o.session,
		log:        o.sessionLogger(path),
	}
	c.mount(mode, false)
	return c, nil
}

// Session returns the edit session id shared by both child editors.
func (c *Container) Session() types.SessionID {
	return c.session
}

// Mode returns the active search type.
func (c *Container) Mode() SearchType {
	return c.mode
}

// Structured returns the structured editor, or nil in query mode.
func (c *Container) Structured() *TermList {
	return c.structured
}

// Text returns the free-text editor, or nil in graph mode.
func (c *Container) Text() *TextEditor {
	return c.text
}

// Value returns the current field text.
func (c *Container) Value() string {
	return c.fields.Get(c.path)
}

// Validate reports the active editor's validation.
func (c *Container) Validate() Validation {
	if c.structured != nil {
		return c.structured.Validate()
	}
	return c.text.Validate()
}

// SetSearchType switches the active editor. Switching to the current mode is
// a no-op.
func (c *Container) SetSearchType(searchType SearchType) error {
	mode, err := ParseSearchType(string(searchType))
	if err != nil {
		return err
	}
	if mode == c.mode {
		return nil
	}

	c.log.Info("editor mode switched",
		zap.String("from", string(c.mode)),
		zap.String("to", string(mode)))
	c.mount(mode, true)
	return nil
}

// SetCandidates replaces the candidate list. The structured editor, if
// mounted, reconciles against it immediately.
func (c *Container) SetCandidates(candidates types.Candidates) {
	c.candidates = append(types.Candidates(nil), candidates...)
	if c.structured != nil {
		c.structured.SetCandidates(c.candidates)
	}
}

// mount replaces the active child. A switched-to structured editor always
// seeds from the field text, never from AutoSelect.
func (c *Container) mount(searchType SearchType, switched bool) {
	c.mode = searchType
	switch searchType {
	case SearchTypeGraph:
		opts := c.opts
		if switched {
			opts = append(append([]Option(nil), opts...), fromText())
		}
		c.text = nil
		c.structured = NewTermList(c.fields, c.path, c.candidates, opts...)
	case SearchTypeQuery:
		c.structured = nil
		c.text = NewTextEditor(c.fields, c.path, c.opts...)
	}
}
