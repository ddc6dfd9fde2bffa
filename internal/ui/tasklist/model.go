package tasklist

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/planner/internal/keys"
	"github.com/nhle/planner/internal/model"
	"github.com/nhle/planner/internal/theme"
	"github.com/nhle/planner/internal/todolist"
)

// NewTaskRequestMsg asks the owner to open the add form.
type NewTaskRequestMsg struct{}

// EditTaskRequestMsg asks the owner to open the edit form for Task.
type EditTaskRequestMsg struct {
	Task model.Task
}

// OpenTaskRequestMsg asks the owner to show Task in the detail view.
type OpenTaskRequestMsg struct {
	Task model.Task
}

// ErrorMsg reports a failed list operation to the owner.
type ErrorMsg struct {
	Err error
}

// Order selects how the list is displayed.
type Order int

const (
	// OrderSorted shows open tasks first, each group by title.
	OrderSorted Order = iota
	// OrderManual shows storage order, which K/J rearrange.
	OrderManual
)

func (o Order) String() string {
	if o == OrderManual {
		return "manual"
	}
	return "sorted"
}

// SortKey switches between sorted and manual order.
var SortKey = key.NewBinding(
	key.WithKeys("s"),
	key.WithHelp("s", "sorted/manual order"),
)

// Model is the to-do list view. It reads and mutates the shared Manager
// and keeps the selection on the same task id across re-sorts.
type Model struct {
	list       list.Model
	manager    *todolist.Manager
	keys       *keys.KeyMap
	order      Order
	selectedID string
	width      int
	height     int
}

// New creates a new task list view over mgr.
func New(mgr *todolist.Manager, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height)
	l.Title = "To-Do List"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	l.SetStatusBarItemName("task", "tasks")
	l.Styles.Title = theme.HeaderStyle

	m := Model{
		list:    l,
		manager: mgr,
		keys:    k,
		width:   width,
		height:  height,
	}
	m.Refresh()
	return m
}

// Order returns the current display order.
func (m Model) Order() Order { return m.order }

// SelectedTask returns the task under the cursor.
func (m Model) SelectedTask() (model.Task, bool) {
	item, ok := m.list.SelectedItem().(TaskItem)
	if !ok {
		return model.Task{}, false
	}
	return item.Task, true
}

// Visible returns the tasks in the order they are displayed.
func (m Model) Visible() []model.Task {
	if m.order == OrderManual {
		return m.manager.Tasks()
	}
	return m.manager.SortedView()
}

// Refresh reloads items from the manager. The cursor follows the
// previously selected task; if it is gone the cursor stays in place.
func (m *Model) Refresh() {
	tasks := m.Visible()
	items := make([]list.Item, len(tasks))
	sel := -1
	for i, t := range tasks {
		items[i] = TaskItem{Task: t}
		if t.ID == m.selectedID {
			sel = i
		}
	}
	cursor := m.list.Index()
	m.list.SetItems(items)

	switch {
	case sel >= 0:
		m.list.Select(sel)
	case cursor >= len(items) && len(items) > 0:
		m.list.Select(len(items) - 1)
	}
	m.rememberSelection()
}

func (m *Model) rememberSelection() {
	if t, ok := m.SelectedTask(); ok {
		m.selectedID = t.ID
	} else {
		m.selectedID = ""
	}
}

// Update handles messages for the task list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if handled, cmd := m.handleKey(keyMsg); handled {
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	m.rememberSelection()
	return m, cmd
}

// handleKey runs to-do actions. It reports false for keys the list itself
// should handle (navigation).
func (m *Model) handleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.New):
		return true, func() tea.Msg { return NewTaskRequestMsg{} }

	case key.Matches(msg, SortKey):
		if m.order == OrderSorted {
			m.order = OrderManual
		} else {
			m.order = OrderSorted
		}
		m.Refresh()
		return true, nil

	case key.Matches(msg, m.keys.Undo):
		if t, ok := m.manager.UndoDeletion(); ok {
			m.selectedID = t.ID
		}
		m.Refresh()
		return true, nil
	}

	t, ok := m.SelectedTask()
	if !ok {
		return false, nil
	}

	var err error
	switch {
	case key.Matches(msg, m.keys.Open):
		return true, func() tea.Msg { return OpenTaskRequestMsg{Task: t} }

	case key.Matches(msg, m.keys.Edit):
		return true, func() tea.Msg { return EditTaskRequestMsg{Task: t} }

	case key.Matches(msg, m.keys.Toggle):
		err = m.manager.Toggle(t.ID)

	case key.Matches(msg, m.keys.Delete):
		m.selectedID = ""
		err = m.manager.Remove(t.ID)

	case key.Matches(msg, m.keys.MoveUp):
		err = m.move(t.ID, -1)

	case key.Matches(msg, m.keys.MoveDown):
		err = m.move(t.ID, 1)

	default:
		return false, nil
	}

	m.Refresh()
	if err != nil {
		return true, func() tea.Msg { return ErrorMsg{Err: err} }
	}
	return true, nil
}

// move shifts a task by delta positions in storage order. Moves past
// either end are ignored.
func (m *Model) move(id string, delta int) error {
	target := m.manager.IndexOf(id) + delta
	if target < 0 || target >= m.manager.Len() {
		return nil
	}
	return m.manager.Reorder(id, target)
}

// View renders the task list view.
func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}
	return m.list.View()
}

// renderEmptyState shows guidance text when there are no tasks.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	text := "No tasks yet.\n\nPress n to add one."
	if m.manager.CanUndo() {
		text += "\nPress u to undo the last deletion."
	}
	return style.Render(text)
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height)
}
