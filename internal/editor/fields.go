// Package editor provides the structured and free-text trigger condition
// editors and the container that switches between them.
//
// Editors never own form state. They read and write one field through the
// Fields interface; the compiler in internal/predicate is the only place
// text is converted to terms and back.
package editor

import (
	"github.com/solatis/triggerkeeper/internal/types"
	"go.uber.org/zap"
)

// Fields is the form-state capability set the editors depend on.
// Implemented by *formstate.Memory.
type Fields interface {
	Get(path string) string
	Set(path, value string)
	Touch(path string)
}

// Option configures an editor or container.
type Option func(*options)

type options struct {
	logger   *zap.Logger
	edit     bool
	fromText bool
	session  types.SessionID
}

// WithLogger sets the logger. Defaults to zap.NewNop().
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithEditMode marks the session as editing an existing trigger.
// Edit sessions always seed from the field text, even when it is empty.
func WithEditMode(edit bool) Option {
	return func(o *options) {
		o.edit = edit
	}
}

// WithSessionID sets the session id attached to log entries.
func WithSessionID(id types.SessionID) Option {
	return func(o *options) {
		o.session = id
	}
}

// fromText forces the structured editor to seed by parsing the field.
func fromText() Option {
	return func(o *options) {
		o.fromText = true
	}
}

func newOptions(opts []Option) options {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.session == "" {
		o.session = types.NewSessionID()
	}
	return o
}

// sessionLogger scopes l to one field and session.
func (o options) sessionLogger(path string) *zap.Logger {
	return o.logger.With(
		zap.String("session_id", string(o.session)),
		zap.String("field", path),
	)
}
