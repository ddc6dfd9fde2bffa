package config

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/planner/internal/model"
	"github.com/nhle/planner/internal/theme"
)

// ConfigSavedMsg carries the edited configuration. The owner persists and
// applies it.
type ConfigSavedMsg struct {
	Config model.AppConfig
}

// ConfigDoneMsg signals the settings view closed without changes.
type ConfigDoneMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	weekStart    string
	minutes      string
	persistTasks bool
	logLevel     string
}

// Model is the Bubble Tea model for the settings form.
type Model struct {
	form          *huh.Form
	fb            *formBindings
	base          model.AppConfig
	width, height int
}

// New creates a new settings view model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Start opens the form pre-filled from cfg.
func (m *Model) Start(cfg model.AppConfig) tea.Cmd {
	m.base = cfg
	m.fb.weekStart = cfg.Calendar.WeekStart
	m.fb.minutes = strconv.Itoa(cfg.Pomodoro.Minutes)
	m.fb.persistTasks = cfg.Storage.PersistTasks
	m.fb.logLevel = cfg.Log.Level
	m.form = m.buildForm()
	return m.form.Init()
}

// Active reports whether the form is open.
func (m Model) Active() bool { return m.form != nil }

// Update handles messages for the settings form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.form = nil
		cfg := m.result()
		return m, func() tea.Msg { return ConfigSavedMsg{Config: cfg} }
	case huh.StateAborted:
		m.form = nil
		return m, func() tea.Msg { return ConfigDoneMsg{} }
	}
	return m, cmd
}

// result applies the form values on top of the configuration it started from.
func (m Model) result() model.AppConfig {
	cfg := m.base
	cfg.Calendar.WeekStart = m.fb.weekStart
	cfg.Storage.PersistTasks = m.fb.persistTasks
	cfg.Log.Level = m.fb.logLevel
	if n, err := strconv.Atoi(strings.TrimSpace(m.fb.minutes)); err == nil {
		cfg.Pomodoro.Minutes = n
	}
	return cfg
}

// View renders the settings form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}
	content := theme.TitleStyle.Render("Settings") + "\n" + m.form.View()
	return lipgloss.NewStyle().Padding(1, 2).Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Week starts on").
				Options(
					huh.NewOption("Sunday", model.WeekStartSunday),
					huh.NewOption("Monday", model.WeekStartMonday),
				).
				Value(&m.fb.weekStart),
			huh.NewInput().
				Title("Pomodoro length").
				Description("Minutes per focus session").
				Value(&m.fb.minutes).
				Validate(validateMinutes),
			huh.NewConfirm().
				Title("Keep tasks between runs?").
				Description("Notes are always kept").
				Value(&m.fb.persistTasks),
			huh.NewSelect[string]().
				Title("Log level").
				Options(huh.NewOptions("debug", "info", "warn", "error")...).
				Value(&m.fb.logLevel),
		),
	).WithWidth(m.formWidth())
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 80 {
		w = 80
	}
	return w
}

func validateMinutes(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return fmt.Errorf("enter a positive number of minutes")
	}
	if n > 180 {
		return fmt.Errorf("at most 180 minutes")
	}
	return nil
}
