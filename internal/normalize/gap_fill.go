package normalize

import (
	"regexp"
	"strings"

	"github.com/samber/lo"

	"exercise-forge/internal/domain"
)

// gapSentinel stands in for a blank until literal underscores are dealt with.
const gapSentinel = "\x00"

var (
	gapMarker = regexp.MustCompile(`\[GAP:(.*?)\]`)
	// A blank the model typed itself would be indistinguishable from ours.
	literalBlank = regexp.MustCompile(`_{5,}`)
	// Literal underscores touching a blank would merge into it.
	gluedBlank = regexp.MustCompile(`_*\x00_*`)
)

// GapFill rewrites the [GAP:answer] markers in the payload text into blanks and
// collects the answers in reading order.
func GapFill(payload domain.RawModelPayload) (domain.GapFillExercise, error) {
	root := payload.Root()
	text := textField.text(root)
	if strings.TrimSpace(text) == "" {
		return domain.GapFillExercise{}, domain.NewEmptyResultError("model returned no exercise text")
	}

	var gaps []domain.Gap
	display := gapMarker.ReplaceAllStringFunc(strings.ReplaceAll(text, gapSentinel, ""), func(marker string) string {
		answer := gapMarker.FindStringSubmatch(marker)[1]
		gaps = append(gaps, domain.Gap{Index: len(gaps), Answer: strings.TrimSpace(answer)})
		return gapSentinel
	})
	display = gluedBlank.ReplaceAllString(display, gapSentinel)
	display = literalBlank.ReplaceAllString(display, "____")
	display = strings.ReplaceAll(display, gapSentinel, domain.GapPlaceholder)

	if len(gaps) == 0 {
		return domain.GapFillExercise{}, domain.NewEmptyResultError("model text contains no gaps")
	}
	if lo.EveryBy(gaps, func(g domain.Gap) bool { return g.Answer == "" }) {
		return domain.GapFillExercise{}, domain.NewEmptyResultError("every gap has an empty answer").
			WithContext("gaps", len(gaps))
	}

	return domain.GapFillExercise{
		DisplayText: display,
		Gaps:        gaps,
		Explanation: explanationField.text(root),
	}, nil
}
