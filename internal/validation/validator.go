package validation

import (
	"fmt"
	"regexp"
	"strings"

	"exercise-forge/internal/domain"
)

const (
	maxSessionIDLen = 64
	maxAnswerLen    = 200
)

var validSessionID = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Validator checks request fields that the domain constructors do not cover.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// ValidateSessionID accepts an empty id (untracked) or a short opaque token.
func (v *Validator) ValidateSessionID(sessionID string) domain.ValidationErrors {
	if sessionID == "" {
		return nil
	}
	if len(sessionID) > maxSessionIDLen || !validSessionID.MatchString(sessionID) {
		return domain.ValidationErrors{domain.NewInvalidFormatError("X-Session-ID", sessionID)}
	}
	return nil
}

// ValidateGradeMultipleChoice checks that the questions still hold the invariants
// they were served with, and that every answer refers to a real question and option.
func (v *Validator) ValidateGradeMultipleChoice(questions []domain.MultipleChoiceQuestion, answers map[int]int) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if len(questions) == 0 {
		errors = append(errors, domain.NewMissingFieldError("questions"))
		return errors
	}
	for i, q := range questions {
		field := fmt.Sprintf("questions[%d]", i)
		if len(q.Options) != domain.OptionCount {
			errors = append(errors, domain.NewOutOfRangeError(field+".options", len(q.Options), domain.OptionCount, domain.OptionCount))
		}
		if q.CorrectIndex < 0 || q.CorrectIndex >= domain.OptionCount {
			errors = append(errors, domain.NewOutOfRangeError(field+".correctAnswer", q.CorrectIndex, 0, domain.OptionCount-1))
		}
	}
	for qi, choice := range answers {
		if qi < 0 || qi >= len(questions) {
			errors = append(errors, domain.NewOutOfRangeError("answers", qi, 0, len(questions)-1))
			continue
		}
		if choice < 0 || choice >= domain.OptionCount {
			errors = append(errors, domain.NewOutOfRangeError(fmt.Sprintf("answers[%d]", qi), choice, 0, domain.OptionCount-1))
		}
	}

	return errors
}

// ValidateGradeGapFill checks the blank/gap correspondence and the answer list.
func (v *Validator) ValidateGradeGapFill(exercise domain.GapFillExercise, answers []string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if len(exercise.Gaps) == 0 {
		errors = append(errors, domain.NewMissingFieldError("exercise.gaps"))
		return errors
	}
	if n := exercise.PlaceholderCount(); n != len(exercise.Gaps) {
		errors = append(errors, domain.NewOutOfRangeError("exercise.text", n, len(exercise.Gaps), len(exercise.Gaps)))
	}
	if len(answers) > len(exercise.Gaps) {
		errors = append(errors, domain.NewOutOfRangeError("answers", len(answers), 0, len(exercise.Gaps)))
	}
	for i, a := range answers {
		if len(strings.TrimSpace(a)) > maxAnswerLen {
			errors = append(errors, domain.NewOutOfRangeError(fmt.Sprintf("answers[%d]", i), len(a), 0, maxAnswerLen))
		}
	}

	return errors
}
