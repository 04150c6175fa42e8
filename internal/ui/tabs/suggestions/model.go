// Package suggestions provides the title and hashtag suggestion tab.
package suggestions

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/trending-dashboard-tui/internal/app"
)

const baseCharLimit = 120

type keyMap struct {
	Focus  key.Binding
	Submit key.Binding
	Blur   key.Binding
	Clear  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Focus: key.NewBinding(
			key.WithKeys("/", "i"),
			key.WithHelp("/", "edit base text"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "suggest"),
		),
		Blur: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "stop editing"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "clear"),
		),
	}
}

// Model is the suggestion tab. The base text is edited in a text input;
// submitting it asks the app for suggestions built from the latest analysis.
type Model struct {
	state  *app.State
	input  textinput.Model
	keys   keyMap
	width  int
	height int
}

// New creates a new suggestion tab.
func New(state *app.State) *Model {
	ti := textinput.New()
	ti.Placeholder = "what is your video about?"
	ti.Prompt = "› "
	ti.CharLimit = baseCharLimit
	ti.SetValue(state.GetBase())

	return &Model{
		state: state,
		input: ti,
		keys:  defaultKeyMap(),
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Focused reports whether the text input has captured the keyboard.
func (m *Model) Focused() bool {
	return m.input.Focused()
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.input.Focused() {
			return m, m.handleEditingKey(msg)
		}
		if key.Matches(msg, m.keys.Focus) {
			return m, m.focus()
		}
		if key.Matches(msg, m.keys.Submit) {
			return m, m.submit()
		}

	case app.TabSwitchMsg:
		if msg.Tab != app.TabSuggest && m.input.Focused() {
			return m, m.blur()
		}

	default:
		// Cursor blink messages.
		if m.input.Focused() {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m *Model) handleEditingKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Blur):
		return m.blur()
	case key.Matches(msg, m.keys.Submit):
		return tea.Batch(m.blur(), m.submit())
	case key.Matches(msg, m.keys.Clear):
		m.input.SetValue("")
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) focus() tea.Cmd {
	m.input.Focus()
	return tea.Batch(textinput.Blink, inputFocus(true))
}

func (m *Model) blur() tea.Cmd {
	m.input.Blur()
	return inputFocus(false)
}

func (m *Model) submit() tea.Cmd {
	base := m.input.Value()
	return func() tea.Msg {
		return app.SuggestRequestMsg{Base: base}
	}
}

func inputFocus(focused bool) tea.Cmd {
	return func() tea.Msg {
		return app.InputFocusMsg{Focused: focused}
	}
}

// SetSize sets the available size for the tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = max(width-12, 20)
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	if m.input.Focused() {
		return []key.Binding{m.keys.Submit, m.keys.Blur, m.keys.Clear}
	}
	return []key.Binding{m.keys.Focus, m.keys.Submit}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Focus, m.keys.Submit},
		{m.keys.Blur, m.keys.Clear},
	}
}
