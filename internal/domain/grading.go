package domain

import (
	"strings"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
)

// nearMissMinLen keeps one-letter typos on short words ("a" vs "an") from counting as close.
const nearMissMinLen = 4

// AnswerResult is the verdict for one question or one gap.
type AnswerResult struct {
	Index    int    `json:"index"`
	Given    string `json:"given"`
	Expected string `json:"expected"`
	Correct  bool   `json:"correct"`
	NearMiss bool   `json:"nearMiss,omitempty"`
}

type GradeReport struct {
	Results []AnswerResult `json:"results"`
	Correct int            `json:"correct"`
	Total   int            `json:"total"`
}

// GradeMultipleChoice compares chosen option indexes (keyed by question index) with
// the correct ones. A missing answer is wrong.
func GradeMultipleChoice(questions []MultipleChoiceQuestion, answers map[int]int) GradeReport {
	results := lo.Map(questions, func(q MultipleChoiceQuestion, i int) AnswerResult {
		res := AnswerResult{Index: i, Expected: q.CorrectLetter()}
		chosen, ok := answers[i]
		if !ok {
			return res
		}
		res.Given = OptionLetter(chosen)
		res.Correct = chosen == q.CorrectIndex
		return res
	})
	return newGradeReport(results)
}

// GradeGapFill compares answers (by gap index) case-insensitively after trimming.
func GradeGapFill(exercise GapFillExercise, answers []string) GradeReport {
	results := lo.Map(exercise.Gaps, func(g Gap, i int) AnswerResult {
		given := ""
		if i < len(answers) {
			given = strings.TrimSpace(answers[i])
		}
		res := AnswerResult{Index: g.Index, Given: given, Expected: g.Answer}
		res.Correct = strings.EqualFold(given, g.Answer)
		if !res.Correct && given != "" && utf8.RuneCountInString(g.Answer) >= nearMissMinLen {
			res.NearMiss = fuzzy.LevenshteinDistance(strings.ToLower(given), strings.ToLower(g.Answer)) == 1
		}
		return res
	})
	return newGradeReport(results)
}

func newGradeReport(results []AnswerResult) GradeReport {
	return GradeReport{
		Results: results,
		Correct: lo.CountBy(results, func(r AnswerResult) bool { return r.Correct }),
		Total:   len(results),
	}
}
