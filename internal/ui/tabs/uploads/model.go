// Package uploads provides the upload times tab: best hours to upload,
// the hour-of-day distribution and the recent fetch runs.
package uploads

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/trending-dashboard-tui/internal/app"
	"github.com/j-veylop/trending-dashboard-tui/internal/models"
	"github.com/j-veylop/trending-dashboard-tui/internal/ui/components"
)

// keyMap defines the key bindings specific to the uploads tab.
type keyMap struct {
	ToggleRange key.Binding
	Reload      key.Binding
	Up          key.Binding
	Down        key.Binding
}

// defaultKeyMap returns the default key bindings for the uploads tab.
func defaultKeyMap() keyMap {
	return keyMap{
		ToggleRange: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "toggle time range"),
		),
		Reload: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "reload history"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
	}
}

// Model represents the uploads tab state.
type Model struct {
	state    *app.State
	shareBar components.ShareBar
	keys     keyMap
	viewport viewport.Model
	width    int
	height   int
}

// New creates a new uploads model.
func New(state *app.State) *Model {
	return &Model{
		state:    state,
		shareBar: components.NewShareBar(),
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the uploads tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the uploads tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKeyMsg(msg)

	case app.TabSwitchMsg:
		// History may have grown since the tab was last shown.
		if msg.Tab == app.TabUploads && !m.loading() {
			return m, m.loadRange(m.timeRange())
		}
	}
	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.ToggleRange):
		return m.loadRange(m.timeRange().Next())

	case key.Matches(msg, m.keys.Reload):
		return m.loadRange(m.timeRange())

	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
}

func (m *Model) loadRange(tr models.TimeRange) tea.Cmd {
	return func() tea.Msg {
		return app.LoadHistoryMsg{Range: tr}
	}
}

func (m *Model) timeRange() models.TimeRange {
	tr, _, _ := m.state.GetHistory()
	return tr
}

func (m *Model) loading() bool {
	return m.state.IsLoading("history")
}

// SetSize sets the available size for the uploads tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.shareBar.SetWidth(max(width-40, 10))
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.ToggleRange,
		m.keys.Reload,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.ToggleRange, m.keys.Reload},
		{m.keys.Up, m.keys.Down},
	}
}
