// Package app implements the main Bubble Tea application with tab-based navigation.
package app

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/trending-dashboard-tui/internal/models"
	"github.com/j-veylop/trending-dashboard-tui/internal/services"
	"github.com/j-veylop/trending-dashboard-tui/internal/ui/styles"
)

// TabID represents the identifier for a tab in the application.
type TabID int

// Tabs in navbar order.
const (
	TabTrending TabID = iota
	TabSuggest
	TabUploads
	TabInfo

	tabCount = int(TabInfo) + 1
)

var tabTitles = [tabCount]string{"Trending", "Suggest", "Upload Times", "Info"}

// String returns the navbar title of the tab.
func (t TabID) String() string {
	if t < 0 || int(t) >= tabCount {
		return "Unknown"
	}
	return tabTitles[t]
}

// Tab is one screen of the dashboard. Only the active tab receives messages.
type Tab interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Tab, tea.Cmd)
	View() string
	SetSize(width, height int)
	ShortHelp() []key.Binding
	FullHelp() [][]key.Binding
}

// chromeHeight is the rows taken by the navbar and the status line.
const chromeHeight = 5

// Model is the root model. It owns the shared state and routes messages.
type Model struct {
	state    *State
	services *services.Manager
	keymap   KeyMap
	help     help.Model
	spinner  spinner.Model

	tabs      []Tab
	activeTab TabID

	width, height int
	ready         bool
	showHelp      bool
	inputFocused  bool

	events chan services.ServiceEvent
}

// NewModel builds the root model. mgr may be nil in tests.
func NewModel(mgr *services.Manager) *Model {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = styles.FocusedStyle

	h := help.New()
	h.ShowAll = true

	return &Model{
		state:     NewState(),
		services:  mgr,
		keymap:    DefaultKeyMap(),
		help:      h,
		spinner:   sp,
		tabs:      make([]Tab, tabCount),
		activeTab: TabTrending,
	}
}

// SetTabs installs the tab models, in TabID order.
func (m *Model) SetTabs(tabs []Tab) {
	m.tabs = tabs
	m.resizeTabs()
}

// GetState returns the state shared with the tabs.
func (m *Model) GetState() *State {
	return m.state
}

// GetActiveTab returns the currently active tab ID.
func (m *Model) GetActiveTab() TabID {
	return m.activeTab
}

// IsReady reports whether a window size has been received.
func (m *Model) IsReady() bool {
	return m.ready
}

// Init starts the spinner, the housekeeping tick and, with services, the
// first pipeline run and the event subscription.
func (m *Model) Init() tea.Cmd {
	m.state.SetLoadingNotification("Fetching trending videos...")

	cmds := []tea.Cmd{m.spinner.Tick, housekeepingCmd()}
	if m.services != nil {
		m.state.SetLoading(resourcePipeline, true)
		tr, _, _ := m.state.GetHistory()
		cmds = append(cmds, subscribeToServicesCmd(m.services), startupCmd(m.services, tr))
	}
	for _, tab := range m.tabs {
		if tab != nil {
			cmds = append(cmds, tab.Init())
		}
	}
	return tea.Batch(cmds...)
}

// Update handles the message at the root, then hands it to the active tab.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := m.route(msg)
	if tab := m.currentTab(); tab != nil {
		var cmd tea.Cmd
		m.tabs[m.activeTab], cmd = tab.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) route(msg tea.Msg) []tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height, m.ready = msg.Width, msg.Height, true
		m.help.Width = msg.Width
		m.resizeTabs()
	case tea.KeyMsg:
		return []tea.Cmd{m.handleKeyMsg(msg)}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return []tea.Cmd{cmd}
	case TickMsg:
		m.state.ClearExpiredNotifications()
		return []tea.Cmd{housekeepingCmd()}

	case SubscriptionEventMsg:
		m.events = msg.Channel
		return []tea.Cmd{waitForServiceEventCmd(m.events)}
	case ServiceEventMsg:
		cmds := []tea.Cmd{m.handleServiceEvent(msg.Event)}
		if m.events != nil {
			cmds = append(cmds, waitForServiceEventCmd(m.events))
		}
		return cmds

	case RefreshMsg:
		return m.handleRefresh(msg)
	case SnapshotLoadedMsg:
		return m.handleSnapshotLoaded(msg)
	case SuggestRequestMsg:
		m.state.SetSuggestions(models.Suggestions{Base: msg.Base})
		if m.services != nil {
			return []tea.Cmd{suggestCmd(m.services, msg.Base)}
		}
	case SuggestionsMsg:
		m.state.SetSuggestions(msg.Suggestions)
	case LoadHistoryMsg:
		m.state.SetLoading(resourceHistory, true)
		if m.services != nil {
			return []tea.Cmd{loadHistoryCmd(m.services, msg.Range)}
		}
	case HistoryLoadedMsg:
		return m.handleHistoryLoaded(msg)
	case CompactRequestMsg:
		if m.services != nil {
			return []tea.Cmd{compactCmd(m.services)}
		}
	case CompactResultMsg:
		return m.handleCompactResult(msg)

	case AddNotificationMsg:
		id := m.state.AddNotification(msg.Type, msg.Message, msg.Duration)
		if msg.Duration > 0 {
			return []tea.Cmd{clearNotificationCmd(id, msg.Duration)}
		}
	case RemoveNotificationMsg:
		m.state.RemoveNotification(msg.ID)
	case ClearExpiredNotificationsMsg:
		m.state.ClearExpiredNotifications()
	case StartLoadingMsg:
		m.state.SetLoading(msg.Resource, true)
		m.state.SetLoadingNotification("Refreshing...")
	case StopLoadingMsg:
		m.stopLoading(msg.Resource)
	case ErrorMsg:
		return []tea.Cmd{notifyCmd(NotificationError, msg.Error.Error())}

	case TabSwitchMsg:
		m.activeTab = msg.Tab
		m.resizeTabs()
	case ToggleHelpMsg:
		m.showHelp = !m.showHelp
	case InputFocusMsg:
		m.inputFocused = msg.Focused
	}
	return nil
}

// stopLoading clears a resource and drops the loading toast once nothing is in flight.
func (m *Model) stopLoading(resources ...string) {
	for _, r := range resources {
		m.state.SetLoading(r, false)
	}
	if !m.state.AnyLoading() {
		m.state.ClearLoadingNotification()
	}
}

func (m *Model) handleRefresh(msg RefreshMsg) []tea.Cmd {
	if m.services == nil {
		return nil
	}
	m.state.SetLoading(resourcePipeline, true)
	m.state.SetLoadingNotification("Fetching trending videos...")
	return []tea.Cmd{runPipelineCmd(m.services, msg.Force)}
}

// handleSnapshotLoaded stores a finished run, warns about empty inputs and
// reloads history so the hour views include the new batch.
func (m *Model) handleSnapshotLoaded(msg SnapshotLoadedMsg) []tea.Cmd {
	m.stopLoading(resourceInitial, resourcePipeline)
	if msg.Error != nil {
		return []tea.Cmd{notifyCmd(NotificationError, fmt.Sprintf("Pipeline run failed: %v", msg.Error))}
	}

	snap := msg.Snapshot
	m.state.SetSnapshot(snap)

	var cmds []tea.Cmd
	switch {
	case snap.Batch.Err != nil:
		// already reported through the service ErrorEvent
	case snap.Batch.IsEmpty():
		cmds = append(cmds, notifyCmd(NotificationWarning, "No trending videos returned"))
	case len(snap.Analysis.Hooks) == 0:
		cmds = append(cmds, notifyCmd(NotificationWarning, "No hooks found in titles, using fallback hooks"))
	}
	if !snap.Hours.HasHistory() {
		cmds = append(cmds, notifyCmd(NotificationWarning, "No upload hours recorded yet"))
	}
	if m.services != nil {
		tr, _, _ := m.state.GetHistory()
		cmds = append(cmds, loadHistoryCmd(m.services, tr))
	}
	return cmds
}

func (m *Model) handleHistoryLoaded(msg HistoryLoadedMsg) []tea.Cmd {
	m.stopLoading(resourceHistory)
	if msg.Error != nil {
		return []tea.Cmd{notifyCmd(NotificationError, fmt.Sprintf("Failed to load upload history: %v", msg.Error))}
	}
	m.state.SetHistory(msg.Range, msg.Distribution, msg.Stats)
	m.state.SetStatus(msg.Status)
	return nil
}

func (m *Model) handleCompactResult(msg CompactResultMsg) []tea.Cmd {
	if msg.Error != nil {
		return []tea.Cmd{notifyCmd(NotificationError, fmt.Sprintf("Failed to compact history: %v", msg.Error))}
	}
	cmds := []tea.Cmd{notifyCmd(NotificationSuccess, fmt.Sprintf("Compacted %d raw samples", msg.Removed))}
	if m.services != nil {
		tr, _, _ := m.state.GetHistory()
		cmds = append(cmds, loadHistoryCmd(m.services, tr))
	}
	return cmds
}

// handleServiceEvent turns a broadcast from the service manager into state
// changes or a toast.
func (m *Model) handleServiceEvent(event services.ServiceEvent) tea.Cmd {
	switch e := event.(type) {
	case services.RefreshingEvent:
		m.state.SetLoading(resourcePipeline, true)
	case services.SnapshotEvent:
		// Poller runs only arrive here. UI-started runs also come back as SnapshotLoadedMsg.
		m.state.SetSnapshot(e.Snapshot)
		m.stopLoading(resourcePipeline)
	case services.AlertEvent:
		return notifyCmd(NotificationWarning, fmt.Sprintf("Peak upload hour: %02d:00 is a best hour to upload", e.Hour))
	case services.StopWordsReloadedEvent:
		return notifyCmd(NotificationInfo, fmt.Sprintf("Reloaded %d stop-words", e.Count))
	case services.ErrorEvent:
		return notifyCmd(NotificationError, fmt.Sprintf("[%s] %v", e.Service, e.Error))
	}
	return nil
}

// handleKeyMsg applies global bindings. Keys it does not claim still reach the tab.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	// A focused text input owns the keyboard, except for ctrl+c.
	if m.inputFocused {
		if msg.Type == tea.KeyCtrlC {
			return tea.Quit
		}
		return nil
	}

	for i, b := range m.keymap.Tabs {
		if key.Matches(msg, b) && i < len(m.tabs) {
			return m.switchTab(TabID(i))
		}
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		return tea.Quit
	case key.Matches(msg, m.keymap.Help):
		m.showHelp = !m.showHelp
	case key.Matches(msg, m.keymap.Close):
		m.showHelp = false
	case m.showHelp:
		// the help panel swallows navigation
	case key.Matches(msg, m.keymap.NextTab):
		return m.switchTab(m.stepTab(1))
	case key.Matches(msg, m.keymap.PrevTab):
		return m.switchTab(m.stepTab(-1))
	case key.Matches(msg, m.keymap.Refetch):
		return func() tea.Msg { return RefreshMsg{Force: true} }
	case key.Matches(msg, m.keymap.Compact):
		return func() tea.Msg { return CompactRequestMsg{} }
	}
	return nil
}

func (m *Model) stepTab(delta int) TabID {
	n := len(m.tabs)
	return TabID(((int(m.activeTab)+delta)%n + n) % n)
}

// switchTab activates a tab and announces it so the tab can refresh itself.
func (m *Model) switchTab(tab TabID) tea.Cmd {
	m.activeTab = tab
	m.resizeTabs()
	return func() tea.Msg { return TabSwitchMsg{Tab: tab} }
}

func (m *Model) currentTab() Tab {
	if int(m.activeTab) >= len(m.tabs) {
		return nil
	}
	return m.tabs[m.activeTab]
}

func (m *Model) resizeTabs() {
	if !m.ready {
		return
	}
	h := max(m.height-chromeHeight, 0)
	for _, tab := range m.tabs {
		if tab != nil {
			tab.SetSize(m.width, h)
		}
	}
}
