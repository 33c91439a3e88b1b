package telegram

import (
	"fmt"
	"strings"
	"time"

	"golang-trading-journal/internal/insight"
)

// FormatInsightAlert formats a batch of freshly generated insights into a
// Markdown message, highest priority first (the engine already sorts them).
// Telegram caps messages at 4096 characters, so the list is truncated with a
// trailing note when it would overflow.
func FormatInsightAlert(userID string, insights []insight.Insight) string {
	const maxLen = 4090

	var b strings.Builder
	b.WriteString("🧠 *New Trading Psychology Insights*\n")
	b.WriteString(fmt.Sprintf("👤 User: `%s`\n\n", userID))

	for i, in := range insights {
		entry := formatInsightEntry(in)
		if b.Len()+len(entry) > maxLen {
			b.WriteString(fmt.Sprintf("_...and %d more insights._\n", len(insights)-i))
			break
		}
		b.WriteString(entry)
	}

	return b.String()
}

func formatInsightEntry(in insight.Insight) string {
	var icon string
	switch in.Priority {
	case insight.PriorityHigh:
		icon = "🔴"
	case insight.PriorityMedium:
		icon = "🟡"
	default:
		icon = "🟢"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s *%s*\n", icon, in.Title))
	b.WriteString(fmt.Sprintf("%s\n", in.Description))
	b.WriteString(fmt.Sprintf("🎯 Confidence: %.0f%%\n\n", in.Confidence))
	return b.String()
}

// FormatErrorAlertMessage formats an operational error alert.
func FormatErrorAlertMessage(at time.Time, message string) string {
	return fmt.Sprintf("🚨 *Insight Worker Alert*\n🕐 %s\n\n%s",
		at.Format("2006-01-02 15:04:05"), message)
}
