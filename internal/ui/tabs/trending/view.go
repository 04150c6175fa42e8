package trending

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/trending-dashboard-tui/internal/models"
	"github.com/j-veylop/trending-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/trending-dashboard-tui/internal/ui/styles"
)

const barLimit = 10

// View renders the trending tab.
func (m *Model) View() string {
	snap := m.state.GetSnapshot()
	if snap == nil {
		return m.renderLoading()
	}

	sections := []string{m.renderTitle(snap)}
	if snap.Batch.Err != nil {
		sections = append(sections, m.renderFetchError(snap.Batch.Err))
	}
	sections = append(sections, m.renderItems(snap.Batch))

	if m.showCloud {
		sections = append(sections, m.renderCloud(snap.Analysis))
	} else {
		sections = append(sections, m.renderCharts(snap.Analysis))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

// renderLoading renders the loading state.
func (m *Model) renderLoading() string {
	return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
}

func (m *Model) renderTitle(snap *models.Snapshot) string {
	title := styles.TitleStyle.Render("Trending Now")

	b := snap.Batch
	parts := []string{fmt.Sprintf("Region %s", b.Region)}
	if !b.FetchedAt.IsZero() {
		parts = append(parts, "fetched "+humanize.Time(b.FetchedAt))
	}
	if b.Cached {
		parts = append(parts, "cached")
	}
	if len(b.Items) > 0 {
		parts = append(parts, humanize.Comma(int64(b.TotalViews()))+" total views")
	}
	subtitle := styles.HelpStyle.Render(strings.Join(parts, " · "))

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderFetchError(err error) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		styles.ErrorTextStyle.Render("Failed to fetch trending videos: "+err.Error()),
		styles.HelpStyle.Render("Check the API key, quota limits or region settings. Press r to retry."),
		"",
	)
}

func (m *Model) cardWidth() int {
	return max(m.width-6, 40)
}

func (m *Model) renderItems(b models.Batch) string {
	width := m.cardWidth()

	var rows []string
	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◈")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Videos")))

	if b.IsEmpty() {
		emptyIcon := lipgloss.NewStyle().Foreground(styles.Subtle).Render("○")
		rows = append(rows, fmt.Sprintf("  %s %s", emptyIcon, styles.HelpStyle.Render("No trending videos")))
		return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	}

	views := make([]float64, len(b.Items))
	for i, item := range b.Items {
		views[i] = float64(item.Statistics.ViewCount)
	}
	rows = append(rows, styles.HelpStyle.Render("  views by rank ")+components.RenderSparkline(views, min(len(views), width-20)), "")

	start := max(0, m.selectedIndex-itemsPerPage/2)
	end := min(len(b.Items), start+itemsPerPage)
	for i := start; i < end; i++ {
		rows = append(rows, m.renderItem(i, b.Items[i], i == m.selectedIndex, width-8))
	}
	rows = append(rows, "", styles.HelpStyle.Render(fmt.Sprintf("  %d of %d", m.selectedIndex+1, len(b.Items))))

	return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderItem(rank int, item models.TrendingItem, selected bool, width int) string {
	prefix := "  "
	if selected {
		prefix = styles.FocusedStyle.Render("▸ ")
	}

	stats := fmt.Sprintf("%s views", humanize.Comma(int64(item.Statistics.ViewCount)))
	if !item.PublishedAt.IsZero() {
		stats += " · " + humanize.Time(item.PublishedAt)
	}

	title := ansi.Truncate(item.Title, max(width-6, 10), "…")
	line := fmt.Sprintf("%s%2d. %s", prefix, rank+1, lipgloss.NewStyle().Bold(selected).Render(title))
	if !selected {
		return line
	}

	detail := styles.HelpStyle.Render(fmt.Sprintf("      %s · %s", item.ChannelTitle, stats))
	return lipgloss.JoinVertical(lipgloss.Left, line, detail)
}

func (m *Model) renderCharts(a models.Analysis) string {
	width := m.cardWidth()
	chartWidth := max(width-8, 30)

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Top Hashtags"))
	if len(a.Hashtags) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No hashtags found"))
	} else {
		rows = append(rows, components.RenderHashtagBars(a.Hashtags, barLimit, chartWidth))
	}

	rows = append(rows, "", styles.CardTitleStyle.Render("Top Keywords"))
	if len(a.Keywords) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No keywords found"))
	} else {
		rows = append(rows, components.RenderKeywordBars(a.Keywords, barLimit, chartWidth))
	}

	return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderCloud(a models.Analysis) string {
	width := m.cardWidth()
	rows := []string{
		styles.CardTitleStyle.Render("Keyword Cloud"),
		components.RenderWordCloud(a.Keywords, width-8),
	}
	return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
