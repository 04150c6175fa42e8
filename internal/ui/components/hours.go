package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/j-veylop/trending-dashboard-tui/internal/models"
	"github.com/j-veylop/trending-dashboard-tui/internal/ui/styles"
)

// heatBlocks are the heatmap cells from quiet to busy.
var heatBlocks = []rune{'░', '▒', '▓', '█'}

var (
	heatCold, _ = colorful.Hex("#4e4e4e")
	heatHot, _  = colorful.Hex("#ff6b9d")
)

// heatShade blends from cold to hot; t is clamped to [0,1].
func heatShade(t float64) lipgloss.Color {
	t = min(max(t, 0), 1)
	return lipgloss.Color(heatCold.BlendLab(heatHot, t).Clamped().Hex())
}

// RenderHourHistogram plots the 24-hour upload distribution.
func RenderHourHistogram(dist [models.HoursPerDay]int, width, height int) string {
	series := make([]float64, models.HoursPerDay)
	total := 0
	for h, c := range dist {
		series[h] = float64(c)
		total += c
	}
	if total == 0 {
		return styles.HelpStyle.Render("No upload hours recorded yet")
	}

	return asciigraph.Plot(series,
		asciigraph.Width(max(width, models.HoursPerDay)),
		asciigraph.Height(max(height, 3)),
		asciigraph.Precision(0),
		asciigraph.SeriesColors(asciigraph.HotPink),
		asciigraph.Caption("uploads per hour of day (00 to 23)"),
	)
}

// RenderHourlyHeatmap draws one cell per hour between "00" and "23"
// labels. Best hours are bold and underlined.
func RenderHourlyHeatmap(dist [models.HoursPerDay]int, best []models.HourCount) string {
	peak := 1
	for _, c := range dist {
		peak = max(peak, c)
	}
	isBest := make(map[int]bool, len(best))
	for _, b := range best {
		isBest[b.Hour] = true
	}

	var b strings.Builder
	b.WriteString("00 ")
	for hour, c := range dist {
		level := c * (len(heatBlocks) - 1) / peak
		cell := lipgloss.NewStyle().Foreground(heatShade(float64(c) / float64(peak)))
		if isBest[hour] {
			cell = cell.Bold(true).Underline(true)
		}
		b.WriteString(cell.Render(string(heatBlocks[level])))
		if hour == 11 {
			b.WriteByte(' ')
		}
	}
	b.WriteString(" 23")
	return b.String()
}
