// Package normalize turns untrusted model output into invariant-bearing exercises.
//
// Every field is read through a rule listing the names a model is known to use for
// it, primary name first. Per-field damage is repaired; only a payload with nothing
// usable in it is rejected.
package normalize

import (
	"github.com/tidwall/gjson"
)

type fieldRule struct {
	names []string
}

var (
	questionsField   = fieldRule{names: []string{"questions", "items", "quiz"}}
	questionField    = fieldRule{names: []string{"question", "questionText", "question_text", "stem"}}
	optionsField     = fieldRule{names: []string{"options", "choices", "answers"}}
	correctField     = fieldRule{names: []string{"correctAnswer", "correct_answer", "correctIndex", "correct_index", "answer"}}
	explanationField = fieldRule{names: []string{"explanation", "rationale", "reason"}}
	textField        = fieldRule{names: []string{"text"}}
)

// lookup returns the first present field, or a zero Result.
func (r fieldRule) lookup(obj gjson.Result) gjson.Result {
	for _, name := range r.names {
		if v := obj.Get(name); v.Exists() {
			return v
		}
	}
	return gjson.Result{}
}

// text reads a scalar field as a string; objects and arrays do not count as text.
func (r fieldRule) text(obj gjson.Result) string {
	v := r.lookup(obj)
	switch v.Type {
	case gjson.String, gjson.Number, gjson.True, gjson.False:
		return v.String()
	default:
		return ""
	}
}
