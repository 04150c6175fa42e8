package suggestions

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/trending-dashboard-tui/internal/models"
	"github.com/j-veylop/trending-dashboard-tui/internal/suggest"
	"github.com/j-veylop/trending-dashboard-tui/internal/ui/styles"
)

// View renders the suggestion tab.
func (m *Model) View() string {
	width := max(m.width-6, 40)

	sections := []string{
		styles.TitleStyle.Render("Title Suggestions"),
		styles.HelpStyle.Render("Hooks from trending titles, combined with your topic."),
		"",
		m.renderInput(width),
	}

	snap := m.state.GetSnapshot()
	if snap == nil {
		sections = append(sections, styles.HelpStyle.Render("Waiting for the first trending fetch..."))
	} else {
		sections = append(sections,
			m.renderTitles(snap.Analysis, snap.Suggestions, width),
			m.renderHashtags(snap.Suggestions, width),
		)
	}

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Model) renderInput(width int) string {
	border := styles.BlurredBorderStyle
	if m.input.Focused() {
		border = styles.FocusedBorderStyle
	}
	return border.Width(width).Render(m.input.View())
}

func (m *Model) renderTitles(a models.Analysis, sg models.Suggestions, width int) string {
	rows := []string{styles.CardTitleStyle.Render("Titles")}

	if len(sg.Titles) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  Enter a topic to generate titles"))
		return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	}

	if suggest.UsedFallback(a) {
		rows = append(rows, styles.WarningTextStyle.Render("  No hooks in the current batch, using stock hooks"))
	}
	for i, title := range sg.Titles {
		line := ansi.Truncate(title, max(width-10, 10), "…")
		rows = append(rows, fmt.Sprintf("  %2d. %s", i+1, line))
	}

	return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderHashtags(sg models.Suggestions, width int) string {
	rows := []string{styles.CardTitleStyle.Render("Hashtags")}

	if len(sg.Hashtags) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No hashtags yet"))
	} else {
		tag := lipgloss.NewStyle().Foreground(styles.Hashtag)
		rendered := make([]string, len(sg.Hashtags))
		for i, h := range sg.Hashtags {
			rendered[i] = tag.Render(h)
		}
		rows = append(rows, lipgloss.NewStyle().Width(width-6).Render("  "+strings.Join(rendered, " ")))
	}

	return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
