package domain

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// ExerciseKind is the exercise type, spelled the way the proxy body spells it.
type ExerciseKind string

const (
	KindMultipleChoice ExerciseKind = "multipleChoice"
	KindGapFill        ExerciseKind = "gapFill"
)

const (
	OptionCount          = 4
	MinQuestionCount     = 1
	MaxQuestionCount     = 10
	DefaultQuestionCount = 5
	MaxKnowledgePointLen = 500

	// GapPlaceholder replaces every [GAP:answer] marker in the display text.
	GapPlaceholder = "_____"
)

// ParseExerciseKind accepts the wire name of a kind.
func ParseExerciseKind(s string) (ExerciseKind, bool) {
	switch ExerciseKind(strings.TrimSpace(s)) {
	case KindMultipleChoice:
		return KindMultipleChoice, true
	case KindGapFill:
		return KindGapFill, true
	default:
		return "", false
	}
}

// ExerciseRequest is built once per submission. It is passed by value and never mutated.
type ExerciseRequest struct {
	Kind           ExerciseKind
	KnowledgePoint string
	// DesiredCount is only meaningful for multiple choice; zero for gap fill.
	DesiredCount int
}

// NewExerciseRequest validates the raw submission fields. A zero count on a
// multiple-choice request falls back to DefaultQuestionCount.
func NewExerciseRequest(kind, knowledgePoint string, count int) (ExerciseRequest, error) {
	var errs ValidationErrors

	k, ok := ParseExerciseKind(kind)
	if strings.TrimSpace(kind) == "" {
		errs = append(errs, NewMissingFieldError("type"))
	} else if !ok {
		errs = append(errs, NewInvalidFormatError("type", kind))
	}

	point := strings.TrimSpace(knowledgePoint)
	if point == "" {
		errs = append(errs, NewMissingFieldError("knowledgePoint"))
	} else if n := utf8.RuneCountInString(point); n > MaxKnowledgePointLen {
		errs = append(errs, NewOutOfRangeError("knowledgePoint", n, 1, MaxKnowledgePointLen))
	}

	if k == KindMultipleChoice {
		if count == 0 {
			count = DefaultQuestionCount
		}
		if count < MinQuestionCount || count > MaxQuestionCount {
			errs = append(errs, NewOutOfRangeError("count", count, MinQuestionCount, MaxQuestionCount))
		}
	} else {
		count = 0
	}

	if len(errs) > 0 {
		return ExerciseRequest{}, errs
	}
	return ExerciseRequest{Kind: k, KnowledgePoint: point, DesiredCount: count}, nil
}

// MultipleChoiceQuestion always carries exactly four options and an in-range answer.
// Field names follow the vendor contract so a normalized question can be fed back in.
type MultipleChoiceQuestion struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctAnswer"`
	Explanation  string   `json:"explanation"`
}

// CorrectLetter renders the answer the way learners see it (A-D).
func (q MultipleChoiceQuestion) CorrectLetter() string {
	return OptionLetter(q.CorrectIndex)
}

// OptionLetter maps 0..25 to A..Z; anything else renders as its number.
func OptionLetter(i int) string {
	if i < 0 || i > 25 {
		return strconv.Itoa(i)
	}
	return string(rune('A' + i))
}

type Gap struct {
	Index  int    `json:"id"`
	Answer string `json:"answer"`
}

// GapFillExercise has one Gap per GapPlaceholder in DisplayText, in reading order.
type GapFillExercise struct {
	DisplayText string `json:"text"`
	Gaps        []Gap  `json:"gaps"`
	Explanation string `json:"explanation"`
}

// PlaceholderCount counts the blanks in the display text.
func (e GapFillExercise) PlaceholderCount() int {
	return strings.Count(e.DisplayText, GapPlaceholder)
}

// MarkedText puts each answer back into its blank as a [GAP:answer] marker, giving
// the shape a model would have produced for this exercise.
func (e GapFillExercise) MarkedText() string {
	var b strings.Builder
	rest := e.DisplayText
	for _, g := range e.Gaps {
		i := strings.Index(rest, GapPlaceholder)
		if i < 0 {
			break
		}
		b.WriteString(rest[:i])
		b.WriteString("[GAP:" + g.Answer + "]")
		rest = rest[i+len(GapPlaceholder):]
	}
	b.WriteString(rest)
	return b.String()
}
