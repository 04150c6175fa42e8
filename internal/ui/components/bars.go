package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/trending-dashboard-tui/internal/models"
	"github.com/j-veylop/trending-dashboard-tui/internal/ui/styles"
)

type barRow struct {
	label string
	count int
}

// RenderHashtagBars charts the first limit hashtag counts.
func RenderHashtagBars(tags []models.HashtagCount, limit, width int) string {
	tags = tags[:clampLimit(limit, len(tags))]
	rows := make([]barRow, 0, len(tags))
	for _, t := range tags {
		rows = append(rows, barRow{t.Tag, t.Count})
	}
	return rankedBars(rows, width, lipgloss.NewStyle().Foreground(styles.Hashtag))
}

// RenderKeywordBars charts the first limit keyword counts.
func RenderKeywordBars(words []models.KeywordCount, limit, width int) string {
	words = words[:clampLimit(limit, len(words))]
	rows := make([]barRow, 0, len(words))
	for _, w := range words {
		rows = append(rows, barRow{w.Word, w.Count})
	}
	return rankedBars(rows, width, lipgloss.NewStyle().Foreground(styles.Keyword))
}

func clampLimit(limit, n int) int {
	return min(max(limit, 0), n)
}

// rankedBars draws one line per row: the label right-aligned, a bar scaled
// to the largest count, then the count.
func rankedBars(rows []barRow, width int, tint lipgloss.Style) string {
	if len(rows) == 0 {
		return ""
	}

	labelWidth, peak := 0, 1
	for _, r := range rows {
		labelWidth = max(labelWidth, lipgloss.Width(r.label))
		peak = max(peak, r.count)
	}
	span := max(width-labelWidth-10, 10)

	lines := make([]string, len(rows))
	for i, r := range rows {
		pad := strings.Repeat(" ", labelWidth-lipgloss.Width(r.label))
		bar := tint.Render(strings.Repeat("█", r.count*span/peak))
		lines[i] = fmt.Sprintf("%s%s │%s %d", pad, r.label, bar, r.count)
	}
	return strings.Join(lines, "\n")
}
