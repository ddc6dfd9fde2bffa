package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/planner/internal/ui/todoform"
)

// openCreateForm shows the add form, pre-filling due when non-nil.
func (m *Model) openCreateForm(due *time.Time) tea.Cmd {
	m.overlay = OverlayForm
	return m.form.StartCreate(due)
}

// addTask adds a submitted task. Blank titles are dropped by the manager.
func (m *Model) addTask(msg todoform.TaskSubmittedMsg) {
	t, ok := m.manager.Add(msg.Title, msg.Description, msg.DueDate)
	if !ok {
		return
	}
	m.logger.Debug("task added", "id", t.ID)
	m.setStatus("Added: " + t.Title)
}

// editTask applies a submitted edit.
func (m *Model) editTask(msg todoform.TaskEditedMsg) {
	if err := m.manager.SetDescription(msg.ID, msg.Description); err != nil {
		m.setError(err)
		return
	}
	if err := m.manager.SetDueDate(msg.ID, msg.DueDate); err != nil {
		m.setError(err)
		return
	}
	m.logger.Debug("task edited", "id", msg.ID)
}

// undoDeletion restores the most recently deleted task.
func (m *Model) undoDeletion() {
	t, ok := m.manager.UndoDeletion()
	if !ok {
		m.setStatus("Nothing to undo")
		return
	}
	m.setStatus("Restored: " + t.Title)
}
