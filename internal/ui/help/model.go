package help

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/planner/internal/theme"
)

// Model is the help overlay view.
type Model struct {
	keys   help.KeyMap
	extra  []key.Binding
	help   help.Model
	width  int
	height int
}

// New creates a new help view model. extra lists view-local bindings that
// are not part of the global key map.
func New(keys help.KeyMap, width, height int, extra ...key.Binding) Model {
	h := help.New()
	h.Width = width
	return Model{
		keys:   keys,
		extra:  extra,
		help:   h,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the help overlay.
func (m Model) View() string {
	title := theme.TitleStyle.Render("Keyboard Shortcuts")

	m.help.Width = m.width - 4
	m.help.ShowAll = true
	helpText := m.help.View(m.keys)

	parts := []string{title, helpText}
	if len(m.extra) > 0 {
		parts = append(parts, "", m.help.FullHelpView([][]key.Binding{m.extra}))
	}
	content := lipgloss.JoinVertical(lipgloss.Left, parts...)

	return theme.PanelStyle.
		Width(max(m.width-4, 0)).
		Height(max(m.height-4, 0)).
		Render(content)
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 4
}
