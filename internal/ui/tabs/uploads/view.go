package uploads

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/trending-dashboard-tui/internal/models"
	"github.com/j-veylop/trending-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/trending-dashboard-tui/internal/ui/styles"
)

const maxRunsShown = 10

// View renders the uploads tab.
func (m *Model) View() string {
	snap := m.state.GetSnapshot()
	tr, dist, stats := m.state.GetHistory()

	if (snap == nil || !snap.Hours.HasHistory()) && stats.TotalSamples == 0 {
		return m.renderEmpty(snap)
	}

	var sections []string
	sections = append(sections, m.renderHeader(tr, stats))

	var hours models.HourInsight
	if snap != nil {
		hours = snap.Hours
	}
	if hours.AlertActive {
		sections = append(sections, m.renderAlert(hours), "")
	}

	sections = append(sections,
		m.renderBestHours(hours),
		m.renderDistribution(tr, dist, hours.BestHours),
	)
	if snap != nil {
		sections = append(sections, m.renderRuns(snap.RecentRuns))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderEmpty(snap *models.Snapshot) string {
	rows := []string{
		styles.TitleStyle.Render("Upload Times"),
		"",
		styles.HelpStyle.Render("No upload hours recorded yet."),
		styles.HelpStyle.Render("Hours accumulate as trending videos are fetched."),
	}
	if snap != nil {
		rows = append(rows, "", m.renderRuns(snap.RecentRuns))
	}
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) cardWidth() int {
	return max(m.width-6, 40)
}

func (m *Model) renderHeader(tr models.TimeRange, stats models.StoreStats) string {
	title := styles.TitleStyle.Render("Upload Times")

	rangeStyle := lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Primary)
	rangeIndicator := rangeStyle.Render(fmt.Sprintf("[t] %s", tr.String()))

	header := lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", rangeIndicator)

	var subtitle string
	if !stats.FirstRecorded.IsZero() {
		parts := []string{
			fmt.Sprintf("%s samples since %s", humanize.Comma(int64(stats.TotalSamples)), stats.FirstRecorded.Format("Jan 2, 2006")),
		}
		if c := stats.Compacted(); c > 0 {
			parts = append(parts, fmt.Sprintf("%s compacted", humanize.Comma(int64(c))))
		}
		subtitle = styles.HelpStyle.Render(strings.Join(parts, " · "))
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, subtitle, "")
}

func (m *Model) renderAlert(h models.HourInsight) string {
	return styles.AlertBannerStyle.Render(
		fmt.Sprintf("Now (%02d:00) is one of the best hours to upload", h.CurrentHour))
}

func (m *Model) renderBestHours(h models.HourInsight) string {
	width := m.cardWidth()

	var rows []string
	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("★")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Best Hours to Upload")), "")

	if len(h.BestHours) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  Not enough history yet"))
		return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	}

	for _, bh := range h.BestHours {
		label := fmt.Sprintf("%02d:00-%02d:00", bh.Hour, (bh.Hour+1)%models.HoursPerDay)
		if bh.Hour == h.CurrentHour {
			label = styles.BestHourStyle.Render(label)
		}
		share := components.Share(bh.Count, h.TotalSamples)
		rows = append(rows, "  "+m.shareBar.View(share, label, width-8))
	}

	if len(h.BatchHours) > 0 {
		batch := slices.Clone(h.BatchHours)
		slices.Sort(batch)
		batch = slices.Compact(batch)
		hours := make([]string, len(batch))
		for i, hr := range batch {
			hours[i] = fmt.Sprintf("%02d", hr)
		}
		rows = append(rows, "", styles.HelpStyle.Render("  Latest batch published at hours: "+strings.Join(hours, " ")))
	}

	return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderDistribution(tr models.TimeRange, dist [models.HoursPerDay]int, best []models.HourCount) string {
	width := m.cardWidth()

	var rows []string
	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("🕐")
	rows = append(rows,
		fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Hourly Pattern ("+tr.String()+")")),
		"",
	)

	total := 0
	for _, c := range dist {
		total += c
	}
	if total == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No uploads recorded in this range"))
		return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	}

	chart := components.RenderHourHistogram(dist, max(width-12, 30), 8)
	for line := range strings.SplitSeq(chart, "\n") {
		rows = append(rows, "  "+line)
	}
	rows = append(rows, "", "  "+components.RenderHourlyHeatmap(dist, best))

	return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderRuns(runs []models.FetchRun) string {
	width := m.cardWidth()

	rows := []string{styles.CardTitleStyle.Render("Recent Fetches"), ""}
	if len(runs) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No fetches recorded"))
		return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	}

	for i, run := range runs {
		if i == maxRunsShown {
			break
		}
		status := "ok"
		switch {
		case run.Failed():
			status = "failed: " + run.Error
		case run.Cached:
			status = "cached"
		}
		line := fmt.Sprintf("  %-14s %s  %3d videos  %s",
			humanize.Time(run.FetchedAt), run.Region, run.ItemCount, status)
		rows = append(rows, styles.GetRunStyle(run.Failed(), run.Cached).Render(line))
	}

	return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
