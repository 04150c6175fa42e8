package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/trending-dashboard-tui/internal/models"
	"github.com/j-veylop/trending-dashboard-tui/internal/ui/styles"
)

// RenderWordCloud lays keywords out as wrapped, weighted text. Heavier words
// are bold and upper-cased; the lightest third is faint.
func RenderWordCloud(words []models.KeywordCount, width int) string {
	if len(words) == 0 {
		return styles.HelpStyle.Render("No keywords yet")
	}
	if width < 10 {
		width = 10
	}

	top := words[0].Count
	if top <= 0 {
		top = 1
	}

	var (
		lines []string
		line  []string
		used  int
	)
	for i, w := range words {
		weight := float64(w.Count) / float64(top)
		text := w.Word
		style := lipgloss.NewStyle().Foreground(styles.WordCloudPalette[i%len(styles.WordCloudPalette)])
		switch {
		case weight >= 0.66:
			text = strings.ToUpper(text)
			style = style.Bold(true)
		case weight < 0.33:
			style = style.Faint(true)
		}

		n := lipgloss.Width(text)
		if used > 0 && used+1+n > width {
			lines = append(lines, strings.Join(line, " "))
			line, used = nil, 0
		}
		if used > 0 {
			used++
		}
		line = append(line, style.Render(text))
		used += n
	}
	if len(line) > 0 {
		lines = append(lines, strings.Join(line, " "))
	}

	return strings.Join(lines, "\n")
}
