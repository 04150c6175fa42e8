package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/trending-dashboard-tui/internal/ui/styles"
)

// toastLook pairs each notification kind with its marker and colour.
var toastLook = map[NotificationType]struct {
	marker string
	style  lipgloss.Style
}{
	NotificationSuccess: {"✓", styles.SuccessTextStyle},
	NotificationError:   {"✗", styles.ErrorTextStyle.Bold(true)},
	NotificationWarning: {"⚠", styles.WarningTextStyle},
	NotificationInfo:    {"•", styles.InfoTextStyle},
	NotificationLoading: {"", styles.InfoTextStyle},
}

// View renders navbar, active tab and status line, then layers the help
// panel and toasts on top.
func (m *Model) View() string {
	if !m.ready {
		return lipgloss.NewStyle().Padding(1, 2).Render(m.spinner.View() + " Loading...")
	}

	body := m.renderPlaceholder()
	if tab := m.currentTab(); tab != nil {
		body = tab.View()
	}
	screen := lipgloss.JoinVertical(lipgloss.Left, m.renderNavbar(), body, m.renderStatusLine())

	if m.showHelp {
		panel := m.renderHelp()
		x := (m.width - lipgloss.Width(panel)) / 2
		y := (m.height - lipgloss.Height(panel)) / 2
		screen = placeOver(screen, panel, x, y)
	}
	if toasts := m.renderToasts(); toasts != "" {
		screen = placeOver(screen, toasts, m.width-lipgloss.Width(toasts)-2, 2)
	}
	return screen
}

func (m *Model) renderNavbar() string {
	cells := make([]string, 0, len(m.tabs))
	for i := range m.tabs {
		id := TabID(i)
		if id == m.activeTab {
			cells = append(cells, styles.NavActiveStyle.Render(fmt.Sprintf("[%d] %s", i+1, id)))
			continue
		}
		cells = append(cells, styles.NavInactiveStyle.Render(fmt.Sprintf(" %d  %s", i+1, id)))
	}
	return styles.NavBarStyle.Width(m.width).Render(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
}

// renderStatusLine shows region, freshness of the batch and the help hint.
func (m *Model) renderStatusLine() string {
	parts := []string{}
	if snap := m.state.GetSnapshot(); snap != nil {
		batch := snap.Batch
		parts = append(parts, batch.Region)
		if !batch.FetchedAt.IsZero() {
			parts = append(parts, "fetched "+humanize.Time(batch.FetchedAt))
		}
		if batch.Cached {
			parts = append(parts, "cached")
		}
	}
	if st := m.state.GetStatus(); !st.CacheExpires.IsZero() {
		parts = append(parts, "next fetch "+humanize.Time(st.CacheExpires))
	}
	if m.state.AnyLoading() {
		parts = append(parts, m.spinner.View()+" working")
	}
	parts = append(parts, "? help")
	return styles.StatusLineStyle.Render(strings.Join(parts, " · "))
}

func (m *Model) renderHelp() string {
	groups := m.keymap.FullHelp()
	if tab := m.currentTab(); tab != nil {
		if keys := tab.ShortHelp(); len(keys) > 0 {
			groups = append(groups, keys)
		}
	}

	return styles.HelpPanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("Keyboard Shortcuts"),
		m.help.FullHelpView(groups),
		"",
		styles.HelpStyle.Render("? or esc to close"),
	))
}

// renderToasts stacks live notifications, newest last.
func (m *Model) renderToasts() string {
	notes := m.state.GetNotifications()
	if len(notes) == 0 {
		return ""
	}

	toasts := make([]string, 0, len(notes))
	for _, n := range notes {
		look := toastLook[n.Type]
		marker := look.marker
		if n.Type == NotificationLoading {
			marker = m.spinner.View()
		}
		toasts = append(toasts, styles.ToastStyle.Render(look.style.Render(marker+" "+n.Message)))
	}
	return lipgloss.JoinVertical(lipgloss.Right, toasts...)
}

func (m *Model) renderPlaceholder() string {
	return lipgloss.NewStyle().Padding(1, 2).Render(
		styles.HelpStyle.Render(fmt.Sprintf("Nothing to show on %s yet.", m.activeTab)),
	)
}

// placeOver draws overlay onto base with its top-left corner at column x,
// row y. base grows with blank rows when the overlay reaches past its end.
func placeOver(base, overlay string, x, y int) string {
	x, y = max(x, 0), max(y, 0)
	rows := strings.Split(base, "\n")

	for i, patch := range strings.Split(overlay, "\n") {
		at := y + i
		for len(rows) <= at {
			rows = append(rows, "")
		}
		row := rows[at]
		left := ansi.Truncate(row, x, "")
		if gap := x - ansi.StringWidth(left); gap > 0 {
			left += strings.Repeat(" ", gap)
		}
		right := ansi.TruncateLeft(row, x+ansi.StringWidth(patch), "")
		rows[at] = left + patch + right
	}
	return strings.Join(rows, "\n")
}
