package components

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/trending-dashboard-tui/internal/ui/styles"
)

// LoadingSpinner is a spinner with a caption, shown while a tab waits on
// its first data.
type LoadingSpinner struct {
	spinner.Model
	Caption string
}

// NewSpinner returns a dot spinner captioned with caption.
func NewSpinner(caption string) LoadingSpinner {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = styles.FocusedStyle.UnsetBold()
	return LoadingSpinner{Model: sp, Caption: caption}
}

// Init starts the animation.
func (l LoadingSpinner) Init() tea.Cmd {
	return l.Tick
}

// Update advances the animation on its own ticks.
func (l LoadingSpinner) Update(msg tea.Msg) (LoadingSpinner, tea.Cmd) {
	var cmd tea.Cmd
	l.Model, cmd = l.Model.Update(msg)
	return l, cmd
}

// RenderSpinnerCentered draws the spinner and its caption in the middle
// of a width x height area.
func RenderSpinnerCentered(l LoadingSpinner, width, height int) string {
	body := l.View() + " " + styles.HelpStyle.Render(l.Caption)
	return styles.CenterBoth(body, width, height)
}
