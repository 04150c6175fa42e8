package info

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/trending-dashboard-tui/internal/ui/styles"
	"github.com/j-veylop/trending-dashboard-tui/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	sections := []string{
		m.renderTitle(),
		m.renderConfigCard(),
		m.renderStoreCard(),
		m.renderAboutCard(),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

// renderTitle renders the info tab title.
func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Configuration and application information")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	return min(max(m.width-6, 50), 90)
}

// maskKey hides all but the last four characters of an API key.
func maskKey(k string) string {
	if k == "" {
		return "(not set)"
	}
	if len(k) <= 4 {
		return strings.Repeat("•", len(k))
	}
	return strings.Repeat("•", 8) + k[len(k)-4:]
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

// renderConfigCard renders the configuration card.
func (m *Model) renderConfigCard() string {
	rows := []string{styles.CardTitleStyle.Render("Configuration"), ""}

	if m.config == nil {
		rows = append(rows, styles.HelpStyle.Render("Configuration not loaded"))
		return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	}

	c := m.config
	apiKey := maskKey(c.APIKey)
	if m.revealKey && c.APIKey != "" {
		apiKey = c.APIKey
	}

	rows = append(rows,
		m.renderConfigRow("API Key", apiKey),
		m.renderConfigRow("Region", c.RegionCode),
		m.renderConfigRow("Max Results", strconv.Itoa(c.MaxResults)),
		m.renderConfigRow("Refresh Every", c.RefreshInterval.String()),
		m.renderConfigRow("Timezone", c.Timezone),
		m.renderConfigRow("Hook Policy", c.HookPolicy),
		m.renderConfigRow("Database", c.DatabasePath),
		m.renderConfigRow("Retention", c.HistoryRetention.String()),
		m.renderConfigRow("Stop-words URL", orNone(c.StopwordsURL)),
		m.renderConfigRow("Stop-words File", orNone(c.StopwordsPath)),
		m.renderConfigRow("Word Cloud", orNone(c.WordCloudPath)),
		m.renderConfigRow("Log File", orNone(c.LogPath)),
		m.renderConfigRow("Alerts", onOff(c.AlertsEnabled)),
	)

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// renderStoreCard summarizes the latest run and the history store.
func (m *Model) renderStoreCard() string {
	rows := []string{styles.CardTitleStyle.Render("Status"), ""}

	if updated := m.state.GetLastUpdated(); updated.IsZero() {
		rows = append(rows, m.renderConfigRow("Last Run", "never"))
	} else {
		rows = append(rows, m.renderConfigRow("Last Run", humanize.Time(updated)))
	}

	if snap := m.state.GetSnapshot(); snap != nil {
		rows = append(rows,
			m.renderConfigRow("Videos", strconv.Itoa(len(snap.Batch.Items))),
			m.renderConfigRow("Hashtags", strconv.Itoa(len(snap.Analysis.Hashtags))),
			m.renderConfigRow("Hooks", strconv.Itoa(len(snap.Analysis.Hooks))),
		)
		if snap.WordCloud != "" {
			rows = append(rows, m.renderConfigRow("Cloud Image", snap.WordCloud))
		}
	}
	if err := m.state.GetLastError(); err != nil {
		rows = append(rows, m.renderConfigRow("Last Error", styles.ErrorTextStyle.Render(err.Error())))
	}

	st := m.state.GetStatus()
	if st.StopWords != "" {
		breaker := styles.SuccessTextStyle.Render("closed")
		if st.BreakerOpen {
			breaker = styles.ErrorTextStyle.Render("open, calls paused")
		}
		rows = append(rows,
			"",
			m.renderConfigRow("Stop-words", st.StopWords),
			m.renderConfigRow("Active Policy", st.HookPolicy),
			m.renderConfigRow("Upstream", breaker),
			m.renderConfigRow("History", st.History),
		)
		if !st.CacheExpires.IsZero() {
			rows = append(rows, m.renderConfigRow("Cache Expires", humanize.Time(st.CacheExpires)))
		}
	}

	_, _, stats := m.state.GetHistory()
	rows = append(rows,
		"",
		m.renderConfigRow("Upload Samples", humanize.Comma(int64(stats.TotalSamples))),
		m.renderConfigRow("Raw Samples", humanize.Comma(int64(stats.RawSamples))),
		m.renderConfigRow("Fetch Runs", fmt.Sprintf("%d (%d failed)", stats.FetchRuns, stats.FailedRuns)),
	)

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderConfigRow renders a configuration key-value row.
func (m *Model) renderConfigRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(18).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

// renderAboutCard renders the about/version information card.
func (m *Model) renderAboutCard() string {
	rows := []string{
		styles.CardTitleStyle.Render("About Trending Dashboard TUI"),
		"",
		m.renderConfigRow("Version", version.GetVersion()),
		m.renderConfigRow("Build Date", version.GetDate()),
		m.renderConfigRow("Git Commit", version.GetCommit()),
		m.renderConfigRow("Go Version", runtime.Version()),
		m.renderConfigRow("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)),
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
