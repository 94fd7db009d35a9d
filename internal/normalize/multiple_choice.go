package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/tidwall/gjson"

	"exercise-forge/internal/domain"
)

var (
	optionSeparators = regexp.MustCompile(`[,;]`)
	leadingInt       = regexp.MustCompile(`^[+-]?\d+`)
	answerLetter     = regexp.MustCompile(`^\(?([A-Da-d])[).:]?$`)
)

// MultipleChoice extracts questions from a payload. Each question comes out with
// exactly four distinct options and a correct index in [0, 3]. expectedCount is the
// requested count; a different number of questions is accepted as returned.
func MultipleChoice(payload domain.RawModelPayload, expectedCount int) ([]domain.MultipleChoiceQuestion, error) {
	entries := locateQuestions(payload.Root())

	questions := make([]domain.MultipleChoiceQuestion, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsObject() {
			continue
		}
		questions = append(questions, normalizeQuestion(entry))
	}

	if len(questions) == 0 {
		return nil, domain.NewEmptyResultError("model returned no usable questions").
			WithContext("expected", expectedCount)
	}
	return questions, nil
}

// locateQuestions finds the question list: the questions field when it is a list,
// a lone question object wrapped into a list, or else the first top-level list.
func locateQuestions(root gjson.Result) []gjson.Result {
	if root.IsArray() {
		return root.Array()
	}
	if !root.IsObject() {
		return nil
	}

	q := questionsField.lookup(root)
	switch {
	case q.IsArray():
		return q.Array()
	case q.IsObject():
		return []gjson.Result{q}
	}

	var found []gjson.Result
	root.ForEach(func(_, v gjson.Result) bool {
		if v.IsArray() {
			found = v.Array()
			return false
		}
		return true
	})
	return found
}

func normalizeQuestion(entry gjson.Result) domain.MultipleChoiceQuestion {
	options := extractOptions(optionsField.lookup(entry))
	correct := resolveCorrectIndex(correctField.lookup(entry), options)
	return domain.MultipleChoiceQuestion{
		Question:     questionField.text(entry),
		Options:      distinctOptions(options, correct),
		CorrectIndex: correct,
		Explanation:  explanationField.text(entry),
	}
}

// extractOptions reads options from a list, an object's values in document order,
// or a comma/semicolon separated string, then pads or truncates to four.
func extractOptions(v gjson.Result) []string {
	var opts []string
	switch {
	case v.IsArray():
		opts = lo.Map(v.Array(), func(o gjson.Result, _ int) string { return optionText(o) })
	case v.IsObject():
		v.ForEach(func(_, o gjson.Result) bool {
			opts = append(opts, optionText(o))
			return true
		})
	case v.Type == gjson.String:
		opts = lo.Filter(
			lo.Map(optionSeparators.Split(v.Str, -1), func(s string, _ int) string { return strings.TrimSpace(s) }),
			func(s string, _ int) bool { return s != "" },
		)
	}

	for len(opts) < domain.OptionCount {
		opts = append(opts, placeholderOption(len(opts)))
	}
	return opts[:domain.OptionCount]
}

// optionText renders one option. Object options ({"label":"A","text":"..."}) use
// their text-like field.
func optionText(o gjson.Result) string {
	switch {
	case o.IsObject():
		for _, name := range []string{"text", "option", "value", "content", "label"} {
			if v := o.Get(name); v.Type == gjson.String {
				return strings.TrimSpace(v.Str)
			}
		}
		return o.Raw
	case o.Type == gjson.Null:
		return ""
	default:
		return strings.TrimSpace(o.String())
	}
}

func placeholderOption(i int) string {
	return "Option " + domain.OptionLetter(i)
}

// resolveCorrectIndex accepts a number, a numeric string in range, a letter A-D or
// the text of one of the options. Anything else falls back to 0. The result is
// clamped to the option range.
func resolveCorrectIndex(v gjson.Result, options []string) int {
	n := len(options)
	idx := 0

	switch v.Type {
	case gjson.Number:
		switch f := v.Float(); {
		case f < 0:
			idx = 0
		case f >= float64(n-1):
			idx = n - 1
		default:
			idx = int(f)
		}
	case gjson.String:
		s := strings.TrimSpace(v.Str)
		if m := leadingInt.FindString(s); m != "" {
			if num, err := strconv.Atoi(m); err == nil && num >= 0 && num < n {
				idx = num
				break
			}
		}
		if m := answerLetter.FindStringSubmatch(s); m != nil {
			idx = int(strings.ToUpper(m[1])[0] - 'A')
			break
		}
		if i := lo.IndexOf(lo.Map(options, func(o string, _ int) string { return strings.ToLower(o) }), strings.ToLower(s)); i >= 0 {
			idx = i
		}
	}

	if idx < 0 {
		return 0
	}
	if idx > n-1 {
		return n - 1
	}
	return idx
}

// distinctOptions keeps positions stable and replaces empty or repeated options with
// a placeholder. The copy at the correct index always survives.
func distinctOptions(options []string, correct int) []string {
	out := make([]string, len(options))
	copy(out, options)

	seen := make(map[string]int, len(out))
	claim := func(i int) {
		if out[i] == "" {
			out[i] = uniquePlaceholder(i, seen)
		}
		key := strings.ToLower(out[i])
		if _, dup := seen[key]; dup {
			out[i] = uniquePlaceholder(i, seen)
			key = strings.ToLower(out[i])
		}
		seen[key] = i
	}

	claim(correct)
	for i := range out {
		if i != correct {
			claim(i)
		}
	}
	return out
}

func uniquePlaceholder(i int, seen map[string]int) string {
	p := placeholderOption(i)
	for n := 2; ; n++ {
		if _, taken := seen[strings.ToLower(p)]; !taken {
			return p
		}
		p = fmt.Sprintf("%s (%d)", placeholderOption(i), n)
	}
}
