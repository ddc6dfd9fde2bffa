package app

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// executeCommand handles a command string from the command palette.
func (m *Model) executeCommand(cmd string) tea.Cmd {
	m.logger.Debug("command", "name", cmd)

	switch cmd {
	case "quit", "q":
		return m.quit()
	case "calendar", "cal":
		m.tab = TabCalendar
	case "todo", "todos":
		m.tab = TabTodo
	case "notes":
		m.tab = TabNotes
	case "today":
		m.tab = TabCalendar
		return m.calendar.GoToday()
	case "new", "add":
		m.tab = TabTodo
		return m.openCreateForm(nil)
	case "settings", "config":
		return m.openSettings()
	case "undo":
		m.undoDeletion()
	case "save", "w":
		return m.saveAll()
	default:
		m.setError(fmt.Errorf("unknown command %q", cmd))
	}
	return nil
}

// saveAll queues the task list and writes the notes.
func (m *Model) saveAll() tea.Cmd {
	if m.saver != nil {
		m.saver.Schedule(m.manager.Tasks())
	}
	m.setStatus("Saving...")
	return m.saveNotes(m.notes.Value())
}
