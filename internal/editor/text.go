// internal/editor/text.go
package editor

import (
	"strings"

	"github.com/solatis/triggerkeeper/internal/types"
	"go.uber.org/zap"
)

// TextEditor is the free-text editor for one trigger condition field.
//
// Text is written through verbatim on every change and never reformatted,
// so transiently malformed input survives until the structured editor is
// opened and canonicalizes it.
type TextEditor struct {
	fields  Fields
	path    string
	session types.SessionID
	log     *zap.Logger
}

// NewTextEditor binds a free-text editor to the field at path.
func NewTextEditor(fields Fields, path string, opts ...Option) *TextEditor {
	o := newOptions(opts)
	return &TextEditor{
		fields:  fields,
		path:    path,
		session: o.session,
		log:     o.sessionLogger(path),
	}
}

// Session returns the edit session id.
func (e *TextEditor) Session() types.SessionID {
	return e.session
}

// Text returns the raw field text.
func (e *TextEditor) Text() string {
	return e.fields.Get(e.path)
}

// Change writes text through unchanged.
func (e *TextEditor) Change(text string) {
	e.fields.Set(e.path, text)
	e.log.Debug("trigger condition text changed", zap.Int("length", len(text)))
}

// Blur marks the field touched.
func (e *TextEditor) Blur() {
	e.fields.Touch(e.path)
}

// Validate requires non-blank text. Syntax is not checked in this mode.
func (e *TextEditor) Validate() Validation {
	if strings.TrimSpace(e.Text()) == "" {
		return Validation{Err: types.ErrEmptyExpression}
	}
	return Validation{}
}
