package pomodoro

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/timer"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/planner/internal/theme"
)

// FinishedMsg is sent once when a session runs out.
type FinishedMsg struct{}

// Model is a focus timer shown in the status bar.
type Model struct {
	timer    timer.Model
	length   time.Duration
	started  bool
	finished bool
}

// New creates an idle timer for sessions of the given number of minutes.
func New(minutes int) Model {
	length := time.Duration(minutes) * time.Minute
	return Model{
		timer:  timer.NewWithInterval(length, time.Second),
		length: length,
	}
}

// SetMinutes changes the session length. A session already underway keeps
// its length.
func (m *Model) SetMinutes(minutes int) {
	m.length = time.Duration(minutes) * time.Minute
}

// Running reports whether the countdown is ticking.
func (m Model) Running() bool { return m.started && m.timer.Running() }

// Remaining returns the time left in the current session.
func (m Model) Remaining() time.Duration {
	if !m.started {
		return m.length
	}
	return m.timer.Timeout
}

// Toggle starts a session, pauses a running one or resumes a paused one.
// After a session finishes the next Toggle starts a fresh one.
func (m Model) Toggle() (Model, tea.Cmd) {
	if !m.started || m.finished {
		m.timer = timer.NewWithInterval(m.length, time.Second)
		m.started = true
		m.finished = false
		return m, m.timer.Init()
	}
	return m, m.timer.Toggle()
}

// Update forwards timer messages. Messages for other timers are ignored by
// the embedded timer.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case timer.TickMsg, timer.StartStopMsg:
		var cmd tea.Cmd
		m.timer, cmd = m.timer.Update(msg)
		return m, cmd
	case timer.TimeoutMsg:
		if msg.ID != m.timer.ID() || m.finished {
			return m, nil
		}
		m.finished = true
		return m, func() tea.Msg { return FinishedMsg{} }
	}
	return m, nil
}

// View renders the remaining time, or nothing while idle.
func (m Model) View() string {
	if !m.started {
		return ""
	}
	label := "🍅 " + Format(m.Remaining())
	switch {
	case m.finished:
		return theme.TimerStyle.Render("🍅 done")
	case m.timer.Running():
		return theme.TimerRunningStyle.Render(label)
	default:
		return theme.TimerStyle.Render(label + " paused")
	}
}

// Format renders d as MM:SS, rounding up to whole seconds.
func Format(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int((d + time.Second - 1) / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
