package editor

import "github.com/solatis/triggerkeeper/internal/types"

// ConditionOption describes one selectable condition for the UI.
type ConditionOption struct {
	Condition types.Condition `json:"condition" yaml:"condition"`
	Label     string          `json:"label" yaml:"label"`
}

var conditionLabels = map[types.Condition]string{
	types.ConditionNone:   "None",
	types.ConditionAnd:    "AND",
	types.ConditionOr:     "OR",
	types.ConditionNot:    "NOT",
	types.ConditionAndNot: "AND NOT",
	types.ConditionOrNot:  "OR NOT",
}

// ConditionOptions returns the conditions allowed at a slot position.
// The first slot offers only None and NOT.
func ConditionOptions(index int) []ConditionOption {
	var opts []ConditionOption
	for _, c := range types.Conditions {
		if (index == 0 && c.ValidFirst()) || (index > 0 && c.ValidFollowing()) {
			opts = append(opts, ConditionOption{Condition: c, Label: conditionLabels[c]})
		}
	}
	return opts
}
