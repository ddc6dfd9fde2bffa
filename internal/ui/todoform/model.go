package todoform

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/planner/internal/model"
	"github.com/nhle/planner/internal/theme"
)

// TaskSubmittedMsg is dispatched when the add form is submitted.
type TaskSubmittedMsg struct {
	Title       string
	Description string
	DueDate     *time.Time
}

// TaskEditedMsg is dispatched when the edit form is submitted.
type TaskEditedMsg struct {
	ID          string
	Description string
	DueDate     *time.Time
}

// FormCancelMsg is dispatched when the user cancels the form.
type FormCancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title       string
	description string
	dueDate     string
}

// Model is the Bubble Tea model for the task add/edit form.
type Model struct {
	form      *huh.Form
	fb        *formBindings
	editMode  bool
	editID    string
	editTitle string
	width     int
	height    int
}

// New creates a new task form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// StartCreate initializes the form for adding a task. due pre-fills the
// due date field when non-nil.
func (m *Model) StartCreate(due *time.Time) tea.Cmd {
	m.editMode = false
	m.editID = ""
	m.editTitle = ""
	m.fb.title = ""
	m.fb.description = ""
	m.fb.dueDate = model.FormatDate(due)
	m.form = m.buildCreateForm()
	return m.form.Init()
}

// StartEdit initializes the form for editing an existing task's
// description and due date.
func (m *Model) StartEdit(task model.Task) tea.Cmd {
	m.editMode = true
	m.editID = task.ID
	m.editTitle = task.Title
	m.fb.title = task.Title
	m.fb.description = task.Description
	m.fb.dueDate = model.FormatDate(task.DueDate)
	m.form = m.buildEditForm()
	return m.form.Init()
}

// Update handles messages for the task form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.form = nil
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		m.form = nil
		return m, func() tea.Msg { return FormCancelMsg{} }
	}

	return m, cmd
}

// View renders the task form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Task"
	if m.editMode {
		titleText = "Edit: " + m.editTitle
	}

	content := theme.TitleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildCreateForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("New task").
				Value(&m.fb.title).
				Validate(validateRequired("Title")),
			m.descriptionField(),
			m.dueDateField(),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m *Model) buildEditForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			m.descriptionField(),
			m.dueDateField(),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m *Model) descriptionField() huh.Field {
	return huh.NewText().
		Title("Description").
		Placeholder("Optional details...").
		Value(&m.fb.description)
}

func (m *Model) dueDateField() huh.Field {
	return huh.NewInput().
		Title("Due Date").
		Placeholder("YYYY-MM-DD (optional)").
		Value(&m.fb.dueDate).
		Validate(validateOptionalDate)
}

func (m Model) handleSubmit() tea.Cmd {
	due, _ := model.ParseDate(strings.TrimSpace(m.fb.dueDate))
	description := strings.TrimSpace(m.fb.description)

	if m.editMode {
		msg := TaskEditedMsg{ID: m.editID, Description: description, DueDate: due}
		return func() tea.Msg { return msg }
	}
	msg := TaskSubmittedMsg{Title: strings.TrimSpace(m.fb.title), Description: description, DueDate: due}
	return func() tea.Msg { return msg }
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateOptionalDate(s string) error {
	if _, err := model.ParseDate(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}
