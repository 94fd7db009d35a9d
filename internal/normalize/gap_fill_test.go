package normalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exercise-forge/internal/domain"
)

func TestGapFill(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantText    string
		wantAnswers []string
	}{
		{
			name:        "single gap",
			raw:         `{"text":"He [GAP:went] (go) to school.","explanation":"past simple"}`,
			wantText:    "He _____ (go) to school.",
			wantAnswers: []string{"went"},
		},
		{
			name:        "answers trimmed and ordered",
			raw:         `{"text":"I [GAP: have ] (have) two [GAP:children] (child) and one [GAP:dog ] (dog)."}`,
			wantText:    "I _____ (have) two _____ (child) and one _____ (dog).",
			wantAnswers: []string{"have", "children", "dog"},
		},
		{
			name:        "adjacent markers",
			raw:         `{"text":"[GAP:a][GAP:b]"}`,
			wantText:    "__________",
			wantAnswers: []string{"a", "b"},
		},
		{
			name:        "one empty answer among others is kept",
			raw:         `{"text":"She [GAP:is] (be) [GAP: ] here."}`,
			wantText:    "She _____ (be) _____ here.",
			wantAnswers: []string{"is", ""},
		},
		{
			name:        "blanks typed by the model are shortened",
			raw:         `{"text":"Fill ________ in: he [GAP:ran] (run)."}`,
			wantText:    "Fill ____ in: he _____ (run).",
			wantAnswers: []string{"ran"},
		},
		{
			name:        "underscores touching a gap are dropped",
			raw:         `{"text":"__[GAP:went]___ to school."}`,
			wantText:    "_____ to school.",
			wantAnswers: []string{"went"},
		},
		{
			name:        "underscores between gaps are dropped",
			raw:         `{"text":"____[GAP:a]____[GAP:b]____"}`,
			wantText:    "__________",
			wantAnswers: []string{"a", "b"},
		},
		{
			name:        "single underscores around every gap",
			raw:         `{"text":"_[GAP:a]_[GAP:b]_[GAP:c]_[GAP:d]_"}`,
			wantText:    strings.Repeat("_", 20),
			wantAnswers: []string{"a", "b", "c", "d"},
		},
		{
			name:        "underscores inside an answer are kept",
			raw:         `{"text":"Call [GAP:get_user_by_id] now."}`,
			wantText:    "Call _____ now.",
			wantAnswers: []string{"get_user_by_id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex, err := GapFill(mustPayload(t, tt.raw))
			require.NoError(t, err)

			assert.Equal(t, tt.wantText, ex.DisplayText)
			assert.NotContains(t, ex.DisplayText, "[GAP:")
			assert.Equal(t, len(ex.Gaps), ex.PlaceholderCount())
			require.Len(t, ex.Gaps, len(tt.wantAnswers))
			for i, g := range ex.Gaps {
				assert.Equal(t, i, g.Index)
				assert.Equal(t, tt.wantAnswers[i], g.Answer)
			}
		})
	}
}

func TestGapFill_Explanation(t *testing.T) {
	ex, err := GapFill(mustPayload(t, `{"text":"He [GAP:went] (go).","explanation":"Use the past simple."}`))
	require.NoError(t, err)
	assert.Equal(t, "Use the past simple.", ex.Explanation)
	assert.Equal(t, []domain.Gap{{Index: 0, Answer: "went"}}, ex.Gaps)
}

func TestGapFill_Empty(t *testing.T) {
	for _, raw := range []string{
		`{"text":""}`,
		`{"text":"No gaps at all."}`,
		`{"text":"[GAP:] and [GAP:  ]"}`,
		`{"text":["He [GAP:went]"]}`,
		`{"explanation":"missing text"}`,
	} {
		t.Run(raw, func(t *testing.T) {
			_, err := GapFill(mustPayload(t, raw))
			assert.ErrorIs(t, err, domain.ErrEmptyResult)
		})
	}
}

func TestGapFill_Idempotent(t *testing.T) {
	first, err := GapFill(mustPayload(t, `{"text":"They [GAP:were] (be) late because the bus [GAP:broke] (break) down.","explanation":"e"}`))
	require.NoError(t, err)

	again, err := domain.NewRawModelPayload(map[string]string{
		"text":        first.MarkedText(),
		"explanation": first.Explanation,
	})
	require.NoError(t, err)
	second, err := GapFill(again)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
