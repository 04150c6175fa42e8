// Package styles holds the dashboard palette and the lipgloss styles
// shared by the tabs.
package styles

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Primary   = lipgloss.Color("205")
	Secondary = lipgloss.Color("63")
	Subtle    = lipgloss.Color("240")

	Hashtag = lipgloss.Color("208")
	Keyword = lipgloss.Color("39")

	Success = lipgloss.Color("42")
	Error   = lipgloss.Color("196")
	Warning = lipgloss.Color("220")
	Info    = lipgloss.Color("39")

	BgDark = lipgloss.Color("235")

	TextPrimary   = lipgloss.Color("252")
	TextSecondary = lipgloss.Color("245")
	TextMuted     = lipgloss.Color("240")
)

// WordCloudPalette cycles through colours for terminal word clouds.
var WordCloudPalette = []lipgloss.Color{
	Primary, Keyword, Hashtag, Success, Warning, Secondary,
}

// Layout.
var (
	DocStyle = lipgloss.NewStyle().Margin(1, 2).Padding(0, 1)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Subtle).
			Padding(1, 2).
			MarginBottom(1)

	CardTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(Primary).MarginBottom(1)

	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(Primary).MarginBottom(1)

	// FocusedBorderStyle and BlurredBorderStyle frame the suggestion input.
	FocusedBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(Primary).
				Padding(0, 1)
	BlurredBorderStyle = FocusedBorderStyle.BorderForeground(Subtle)

	FocusedStyle = lipgloss.NewStyle().Foreground(Primary).Bold(true)
)

// Chrome around the active tab.
var (
	NavBarStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(Subtle).
			Padding(0, 1)
	NavActiveStyle   = lipgloss.NewStyle().Bold(true).Foreground(Primary).Padding(0, 2)
	NavInactiveStyle = lipgloss.NewStyle().Foreground(TextMuted).Padding(0, 2)

	StatusLineStyle = lipgloss.NewStyle().Foreground(TextSecondary).Padding(0, 1)

	HelpStyle      = lipgloss.NewStyle().Foreground(TextMuted)
	HelpPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(Primary).
			Padding(1, 3).
			Background(BgDark)

	ToastStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1).
			MarginBottom(1)
)

// Text.
var (
	ErrorTextStyle   = lipgloss.NewStyle().Foreground(Error)
	SuccessTextStyle = lipgloss.NewStyle().Foreground(Success)
	WarningTextStyle = lipgloss.NewStyle().Foreground(Warning)
	InfoTextStyle    = lipgloss.NewStyle().Foreground(Info)
)

// Upload hours.
var (
	ProgressLabelStyle = lipgloss.NewStyle().Foreground(TextSecondary).Width(20)

	AlertBannerStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("229")).
				Background(Primary).
				Padding(0, 2)

	BestHourStyle = lipgloss.NewStyle().Foreground(Success).Bold(true)
)

// GetShareStyle colours an hour's share: above half is green, above a
// fifth is yellow, anything less is muted.
func GetShareStyle(percent float64) lipgloss.Style {
	switch {
	case percent > 50:
		return SuccessTextStyle
	case percent > 20:
		return WarningTextStyle
	default:
		return lipgloss.NewStyle().Foreground(Subtle)
	}
}

// GetRunStyle colours a fetch run: failed, served from cache, or fresh.
func GetRunStyle(failed, cached bool) lipgloss.Style {
	switch {
	case failed:
		return ErrorTextStyle
	case cached:
		return InfoTextStyle
	default:
		return SuccessTextStyle
	}
}

// CenterBoth centers content within a width x height box.
func CenterBoth(content string, width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center).
		AlignVertical(lipgloss.Center).
		Render(content)
}
