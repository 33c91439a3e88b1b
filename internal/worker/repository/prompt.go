package repository

import (
	"fmt"
	"strings"

	"golang-trading-journal/internal/insight"
)

// BuildCoachingNotePrompt renders the insight batch into a prompt that asks
// the model for a short coaching reflection in strict JSON.
func BuildCoachingNotePrompt(insights []insight.Insight) string {
	var sb strings.Builder

	sb.WriteString("You are a supportive trading psychology coach. ")
	sb.WriteString("Below are behavioral insights generated from a trader's journal. ")
	sb.WriteString("Write one short coaching note (2-4 sentences) that helps the trader act on them.\n\n")
	sb.WriteString("Insights:\n")

	for i, ins := range insights {
		sb.WriteString(fmt.Sprintf("%d. [%s | priority=%s | confidence=%.0f] %s: %s\n",
			i+1, ins.Type, ins.Priority, ins.Confidence, ins.Title, ins.Description))
	}

	sb.WriteString(`
Respond with ONLY a JSON object, no markdown fences, in this exact shape:
{
  "note": "the coaching note text",
  "tone": "encouraging|cautionary|neutral",
  "focus_areas": ["short phrases naming what to work on"]
}
`)

	return sb.String()
}
