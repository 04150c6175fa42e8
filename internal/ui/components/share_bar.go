package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/trending-dashboard-tui/internal/ui/styles"
)

// ShareBar shows what fraction of all recorded uploads fall in one hour.
type ShareBar struct {
	bar progress.Model
}

// NewShareBar returns a gradient bar without the built-in percentage,
// which View renders itself in the share colour.
func NewShareBar() ShareBar {
	return ShareBar{bar: progress.New(
		progress.WithScaledGradient("#6c5ce7", "#ff6b9d"),
		progress.WithWidth(30),
		progress.WithoutPercentage(),
	)}
}

// SetWidth sets the default bar width.
func (s *ShareBar) SetWidth(width int) {
	s.bar.Width = width
}

// View renders "label  bar  NN%" within width cells.
func (s ShareBar) View(percent float64, label string, width int) string {
	s.bar.Width = max(width-30, 10)
	ratio := min(max(percent, 0), 100) / 100

	return lipgloss.JoinHorizontal(lipgloss.Center,
		styles.ProgressLabelStyle.Width(15).Render(label),
		s.bar.ViewAs(ratio),
		" ",
		styles.GetShareStyle(percent).Width(6).Align(lipgloss.Right).Render(fmt.Sprintf("%.0f%%", percent)),
	)
}

// Share returns part as a percentage of total, or 0 when total is 0.
func Share(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
