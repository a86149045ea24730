package editor

import (
	"github.com/solatis/triggerkeeper/internal/types"
	"go.uber.org/zap/zapcore"
)

// termLog renders a term as a structured log object.
type termLog types.Term

func (t termLog) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("condition", string(t.Condition))
	if t.DelegateID != "" {
		enc.AddString("delegate_id", t.DelegateID)
	}
	if t.DelegateName != "" {
		enc.AddString("delegate_name", t.DelegateName)
	}
	return nil
}

// termsLog renders a term list as a structured log array.
type termsLog []types.Term

func (ts termsLog) MarshalLogArray(enc zapcore.ArrayEncoder) error {
	for _, t := range ts {
		if err := enc.AppendObject(termLog(t)); err != nil {
			return err
		}
	}
	return nil
}
