package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/planner/internal/keys"
	"github.com/nhle/planner/internal/model"
	"github.com/nhle/planner/internal/theme"
)

// DaySelectedMsg is sent whenever the selected day changes.
type DaySelectedMsg struct {
	Day time.Time
}

// Model is the month calendar view.
type Model struct {
	keys      *keys.KeyMap
	selected  time.Time
	weekStart time.Weekday
	now       func() time.Time
	dueDays   map[string]int
	events    []model.Task
	width     int
	height    int
}

// New creates a calendar with today selected.
func New(k *keys.KeyMap, weekStart time.Weekday, width, height int) Model {
	m := Model{
		keys:      k,
		weekStart: weekStart,
		now:       time.Now,
		dueDays:   make(map[string]int),
		width:     width,
		height:    height,
	}
	m.selected = dayOf(m.now())
	return m
}

// WeekStartFromConfig maps the configured week start to a weekday.
func WeekStartFromConfig(s string) time.Weekday {
	if s == model.WeekStartMonday {
		return time.Monday
	}
	return time.Sunday
}

// SetWeekStart changes the first column of the grid.
func (m *Model) SetWeekStart(d time.Weekday) {
	m.weekStart = d
}

// SetClock overrides the time source used for "today".
func (m *Model) SetClock(now func() time.Time) {
	m.now = now
	m.selected = dayOf(now())
}

// Selected returns the selected day at local midnight.
func (m Model) Selected() time.Time { return m.selected }

// Init announces the initial selection so the owner can load its events.
func (m Model) Init() tea.Cmd {
	return m.selectedCmd()
}

// Update handles key presses for day, week and month navigation.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	prev := m.selected
	switch {
	case key.Matches(keyMsg, m.keys.PrevDay):
		m.selected = m.selected.AddDate(0, 0, -1)
	case key.Matches(keyMsg, m.keys.NextDay):
		m.selected = m.selected.AddDate(0, 0, 1)
	case key.Matches(keyMsg, m.keys.PrevWeek):
		m.selected = m.selected.AddDate(0, 0, -7)
	case key.Matches(keyMsg, m.keys.NextWeek):
		m.selected = m.selected.AddDate(0, 0, 7)
	case key.Matches(keyMsg, m.keys.PrevMonth):
		m.selected = addMonths(m.selected, -1)
	case key.Matches(keyMsg, m.keys.NextMonth):
		m.selected = addMonths(m.selected, 1)
	case key.Matches(keyMsg, m.keys.Today):
		m.selected = dayOf(m.now())
	}

	if m.selected.Equal(prev) {
		return m, nil
	}
	return m, m.selectedCmd()
}

// GoToday selects today. It returns nil when today is already selected.
func (m *Model) GoToday() tea.Cmd {
	today := dayOf(m.now())
	if m.selected.Equal(today) {
		return nil
	}
	m.selected = today
	return m.selectedCmd()
}

func (m Model) selectedCmd() tea.Cmd {
	day := m.selected
	return func() tea.Msg { return DaySelectedMsg{Day: day} }
}

// SetDueDates records which days carry open or done tasks, for the
// markers in the grid.
func (m *Model) SetDueDates(tasks []model.Task) {
	m.dueDays = make(map[string]int)
	for _, t := range tasks {
		if t.DueDate != nil {
			m.dueDays[t.DueDate.Format(model.DateLayout)]++
		}
	}
}

// SetEvents sets the tasks listed under the grid for the selected day.
func (m *Model) SetEvents(tasks []model.Task) {
	m.events = tasks
}

// View renders the month grid and the selected day's tasks.
func (m Model) View() string {
	var b strings.Builder

	title := theme.TitleStyle.Render(m.selected.Format("January 2006"))
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(m.renderWeekdays())
	b.WriteString("\n")

	today := dayOf(m.now())
	for _, week := range MonthGrid(m.selected.Year(), m.selected.Month(), m.weekStart) {
		cells := make([]string, len(week))
		for i, d := range week {
			cells[i] = m.renderDay(d, today)
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(theme.TitleStyle.Render(
		"Events on " + m.selected.Format("Jan 2, 2006")))
	b.WriteString("\n")

	if len(m.events) == 0 {
		b.WriteString(theme.HelpStyle.Render("Nothing due."))
	}
	for _, t := range m.events {
		line := fmt.Sprintf("%s %s", theme.CheckMark(t.Done), t.Title)
		if t.Done {
			line = theme.DimmedStyle.Render(line)
		}
		b.WriteString(theme.ListItemStyle.Render(line))
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (m Model) renderWeekdays() string {
	cells := make([]string, 7)
	for i := range cells {
		wd := time.Weekday((int(m.weekStart) + i) % 7)
		cells[i] = theme.WeekdayStyle.Render(wd.String()[:2])
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func (m Model) renderDay(d, today time.Time) string {
	label := fmt.Sprintf("%d", d.Day())
	if m.dueDays[d.Format(model.DateLayout)] > 0 {
		label = theme.DueMarkerStyle.Render("•") + label
	}

	switch {
	case d.Equal(m.selected):
		return theme.SelectedDayStyle.Render(label)
	case d.Month() != m.selected.Month():
		return theme.OutsideMonthStyle.Render(label)
	case d.Equal(today):
		return theme.TodayStyle.Render(label)
	default:
		return theme.DayStyle.Render(label)
	}
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// MonthGrid returns six weeks of days covering the given month, each week
// starting on weekStart. Days are midnight in the local time zone.
func MonthGrid(year int, month time.Month, weekStart time.Weekday) [][]time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	offset := (int(first.Weekday()) - int(weekStart) + 7) % 7
	start := first.AddDate(0, 0, -offset)

	grid := make([][]time.Time, 6)
	for w := range grid {
		grid[w] = make([]time.Time, 7)
		for d := range grid[w] {
			grid[w][d] = start.AddDate(0, 0, w*7+d)
		}
	}
	return grid
}

// dayOf returns local midnight of t's calendar day.
func dayOf(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.Local)
}

// addMonths moves by n months, clamping the day to the target month's
// length so Jan 31 + 1 month is Feb 28/29 rather than early March.
func addMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(n), 1, 0, 0, 0, 0, time.Local)
	last := first.AddDate(0, 1, -1).Day()
	day := t.Day()
	if day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.Local)
}
