// Package trending provides the trending videos tab.
package trending

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/trending-dashboard-tui/internal/app"
	"github.com/j-veylop/trending-dashboard-tui/internal/ui/components"
)

// itemsPerPage bounds how many videos are listed at once.
const itemsPerPage = 10

// keyMap defines the key bindings specific to the trending tab.
type keyMap struct {
	NextItem   key.Binding
	PrevItem   key.Binding
	FirstItem  key.Binding
	LastItem   key.Binding
	ToggleView key.Binding
}

// defaultKeyMap returns the default key bindings for the trending tab.
func defaultKeyMap() keyMap {
	return keyMap{
		NextItem: key.NewBinding(
			key.WithKeys("n", "j", "down"),
			key.WithHelp("j/n", "next video"),
		),
		PrevItem: key.NewBinding(
			key.WithKeys("p", "k", "up"),
			key.WithHelp("k/p", "prev video"),
		),
		FirstItem: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "first video"),
		),
		LastItem: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "last video"),
		),
		ToggleView: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "charts/word cloud"),
		),
	}
}

// Model represents the trending tab state.
type Model struct {
	state         *app.State
	spinner       components.LoadingSpinner
	keys          keyMap
	viewport      viewport.Model
	width         int
	height        int
	selectedIndex int
	showCloud     bool
}

// New creates a new trending model.
func New(state *app.State) *Model {
	return &Model{
		state:    state,
		spinner:  components.NewSpinner("Fetching trending videos..."),
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Init()
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmds = append(cmds, m.handleKeyMsg(msg))

	case app.SnapshotLoadedMsg:
		m.clampSelection()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) itemCount() int {
	snap := m.state.GetSnapshot()
	if snap == nil {
		return 0
	}
	return len(snap.Batch.Items)
}

func (m *Model) clampSelection() {
	n := m.itemCount()
	if m.selectedIndex >= n {
		m.selectedIndex = max(n-1, 0)
	}
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	count := m.itemCount()

	switch {
	case key.Matches(msg, m.keys.NextItem):
		if count > 0 {
			m.selectedIndex = (m.selectedIndex + 1) % count
		}
	case key.Matches(msg, m.keys.PrevItem):
		if count > 0 {
			m.selectedIndex = (m.selectedIndex - 1 + count) % count
		}
	case key.Matches(msg, m.keys.FirstItem):
		m.selectedIndex = 0
	case key.Matches(msg, m.keys.LastItem):
		if count > 0 {
			m.selectedIndex = count - 1
		}
	case key.Matches(msg, m.keys.ToggleView):
		m.showCloud = !m.showCloud
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
	return nil
}

// SetSize sets the available size for the tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.NextItem,
		m.keys.PrevItem,
		m.keys.ToggleView,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.NextItem, m.keys.PrevItem},
		{m.keys.FirstItem, m.keys.LastItem},
		{m.keys.ToggleView},
	}
}
