package suggestions

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/trending-dashboard-tui/internal/app"
	"github.com/j-veylop/trending-dashboard-tui/internal/models"
	"github.com/j-veylop/trending-dashboard-tui/internal/suggest"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// collect runs cmd and flattens batched messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func findFocus(msgs []tea.Msg) (app.InputFocusMsg, bool) {
	for _, msg := range msgs {
		if f, ok := msg.(app.InputFocusMsg); ok {
			return f, true
		}
	}
	return app.InputFocusMsg{}, false
}

func TestNew_RestoresBase(t *testing.T) {
	state := app.NewState()
	state.SetSuggestions(models.Suggestions{Base: "street food"})

	m := New(state)
	if got := m.input.Value(); got != "street food" {
		t.Errorf("input value = %q, want %q", got, "street food")
	}
	if m.Focused() {
		t.Error("input should start blurred")
	}
}

func TestModel_FocusAndSubmit(t *testing.T) {
	m := New(app.NewState())
	m.SetSize(80, 24)

	_, cmd := m.Update(runes("/"))
	if !m.Focused() {
		t.Fatal("/ should focus the input")
	}
	if f, ok := findFocus(collect(cmd)); !ok || !f.Focused {
		t.Error("focusing should emit InputFocusMsg{Focused: true}")
	}

	for _, r := range "cricket" {
		m.Update(runes(string(r)))
	}
	if got := m.input.Value(); got != "cricket" {
		t.Fatalf("input value = %q, want cricket", got)
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.Focused() {
		t.Error("enter should blur the input")
	}

	msgs := collect(cmd)
	var req *app.SuggestRequestMsg
	for _, msg := range msgs {
		if r, ok := msg.(app.SuggestRequestMsg); ok {
			req = &r
		}
	}
	if req == nil || req.Base != "cricket" {
		t.Errorf("enter should request suggestions for cricket, got %+v", msgs)
	}
	if f, ok := findFocus(msgs); !ok || f.Focused {
		t.Error("submitting should release input focus")
	}
}

func TestModel_EscBlurs(t *testing.T) {
	m := New(app.NewState())
	m.Update(runes("i"))
	if !m.Focused() {
		t.Fatal("i should focus the input")
	}

	// Global keys typed while editing land in the input.
	m.Update(runes("q"))
	if m.input.Value() != "q" {
		t.Errorf("input value = %q, want q", m.input.Value())
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.Focused() {
		t.Error("esc should blur the input")
	}
	if f, ok := findFocus(collect(cmd)); !ok || f.Focused {
		t.Error("esc should emit InputFocusMsg{Focused: false}")
	}
}

func TestModel_TabSwitchBlurs(t *testing.T) {
	m := New(app.NewState())
	m.Update(runes("/"))
	m.Update(app.TabSwitchMsg{Tab: app.TabTrending})
	if m.Focused() {
		t.Error("leaving the tab should blur the input")
	}
}

func TestModel_View(t *testing.T) {
	state := app.NewState()
	m := New(state)
	m.SetSize(100, 40)

	if !strings.Contains(m.View(), "Waiting for the first trending fetch") {
		t.Error("View should wait for a snapshot")
	}

	analysis := models.Analysis{
		Keywords: []models.KeywordCount{{Word: "cricket", Count: 3}},
		Hooks:    []string{"Top 10 Moments"},
	}
	state.SetSnapshot(models.Snapshot{
		Analysis:    analysis,
		Suggestions: suggest.Suggest("", analysis),
	})
	view := m.View()
	if !strings.Contains(view, "Enter a topic") {
		t.Error("View should prompt for a topic when there are no titles")
	}
	if !strings.Contains(view, "#cricket") {
		t.Error("View should list derived hashtags")
	}

	state.SetSuggestions(suggest.Suggest("street food", analysis))
	view = m.View()
	if !strings.Contains(view, "Top 10 Moments | street food") {
		t.Error("View should list generated titles")
	}
	if strings.Contains(view, "stock hooks") {
		t.Error("View should not mention stock hooks when the batch has hooks")
	}
}

func TestModel_ViewFallbackNote(t *testing.T) {
	state := app.NewState()
	state.SetSnapshot(models.Snapshot{Suggestions: suggest.Suggest("diy", models.Analysis{})})
	m := New(state)
	m.SetSize(100, 40)

	if !strings.Contains(m.View(), "stock hooks") {
		t.Error("View should note the fallback hooks")
	}
}

func TestModel_Help(t *testing.T) {
	m := New(app.NewState())
	if len(m.ShortHelp()) != 2 {
		t.Errorf("blurred ShortHelp len = %d, want 2", len(m.ShortHelp()))
	}
	m.Update(runes("/"))
	if len(m.ShortHelp()) != 3 {
		t.Errorf("focused ShortHelp len = %d, want 3", len(m.ShortHelp()))
	}
	if len(m.FullHelp()) == 0 {
		t.Error("FullHelp empty")
	}
}
