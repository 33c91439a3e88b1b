package repository

import (
	"testing"
	"time"

	"golang-trading-journal/internal/insight"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCoachingNoteResponse(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "plain json",
			input: `{"note":"Take a break after losses.","tone":"cautionary","focus_areas":["discipline"]}`,
			want:  "Take a break after losses.",
		},
		{
			name:  "json fenced",
			input: "```json\n{\"note\":\"Keep journaling.\",\"tone\":\"encouraging\",\"focus_areas\":[]}\n```",
			want:  "Keep journaling.",
		},
		{
			name:  "bare fence",
			input: "```\n{\"note\":\"Trade smaller.\",\"tone\":\"neutral\",\"focus_areas\":[\"sizing\"]}\n```",
			want:  "Trade smaller.",
		},
		{
			name:    "not json",
			input:   "sorry, I cannot help with that",
			wantErr: true,
		},
		{
			name:    "missing note",
			input:   `{"tone":"neutral","focus_areas":[]}`,
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := parseCoachingNoteResponse(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, result.Note)
		})
	}
}

func TestBuildCoachingNotePrompt(t *testing.T) {
	insights := []insight.Insight{
		{
			ID:          "i1",
			Type:        insight.TypeWarning,
			Title:       "Emotional Danger Zone",
			Description: "Only 20% of your trades are profitable when your emotion level is 3.",
			Confidence:  70,
			Priority:    insight.PriorityHigh,
			Actionable:  true,
			CreatedAt:   time.Now(),
		},
	}

	prompt := BuildCoachingNotePrompt(insights)

	assert.Contains(t, prompt, "Emotional Danger Zone")
	assert.Contains(t, prompt, "priority=high")
	assert.Contains(t, prompt, `"note"`)
}
