package notes

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/planner/internal/keys"
	"github.com/nhle/planner/internal/theme"
)

// SaveNotesMsg is sent when editing ends and the text changed.
type SaveNotesMsg struct {
	Text string
}

// Model is the free-form notes view.
type Model struct {
	input   textarea.Model
	keys    *keys.KeyMap
	saved   string
	savedAt time.Time
	width   int
	height  int
}

// New creates an empty, unfocused notes view.
func New(k *keys.KeyMap, width, height int) Model {
	ta := textarea.New()
	ta.Placeholder = "Write anything here..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0

	m := Model{input: ta, keys: k}
	m.SetSize(width, height)
	return m
}

// SetText replaces the contents, e.g. after loading from storage. The new
// text counts as saved.
func (m *Model) SetText(s string) {
	m.input.SetValue(s)
	m.saved = s
}

// Value returns the current text.
func (m Model) Value() string { return m.input.Value() }

// Editing reports whether the textarea has keyboard focus. While it does,
// the owner must route every key here.
func (m Model) Editing() bool { return m.input.Focused() }

// Dirty reports whether the text differs from the last saved value.
func (m Model) Dirty() bool { return m.input.Value() != m.saved }

// MarkSaved records text as the persisted value. Edits made after text
// was captured keep the view dirty.
func (m *Model) MarkSaved(text string) { m.saved = text }

// SetSavedAt records when the notes were last written. A zero time hides
// the timestamp.
func (m *Model) SetSavedAt(t time.Time) { m.savedAt = t }

// Update handles focus changes and, while editing, text input.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)

	if !m.input.Focused() {
		if isKey && key.Matches(keyMsg, m.keys.EditNotes) {
			return m, m.input.Focus()
		}
		return m, nil
	}

	if isKey && key.Matches(keyMsg, m.keys.Back) {
		m.input.Blur()
		if !m.Dirty() {
			return m, nil
		}
		text := m.input.Value()
		return m, func() tea.Msg { return SaveNotesMsg{Text: text} }
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the notes view.
func (m Model) View() string {
	hint := "enter/i to edit"
	if m.input.Focused() {
		hint = "esc to save"
	}
	if !m.savedAt.IsZero() {
		hint += " · saved " + m.savedAt.Local().Format("Jan 2 15:04")
	}
	title := theme.TitleStyle.Render("Notes")
	return lipgloss.NewStyle().Padding(1, 2).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			m.input.View(),
			theme.HelpStyle.Render(hint),
		))
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.SetWidth(max(width-4, 10))
	m.input.SetHeight(max(height-6, 3))
}
