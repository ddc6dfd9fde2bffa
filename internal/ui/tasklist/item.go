package tasklist

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/planner/internal/model"
	"github.com/nhle/planner/internal/theme"
)

// TaskItem wraps a model.Task so it can be used in a bubbles/list.
type TaskItem struct {
	Task model.Task
}

// FilterValue returns the string used for fuzzy filtering.
func (i TaskItem) FilterValue() string { return i.Task.Title }

// ItemDelegate implements list.ItemDelegate for rendering tasks on two
// lines: the title row and a detail row with description and due date.
type ItemDelegate struct {
	now func() time.Time
}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 2 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single task.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(TaskItem)
	if !ok {
		return
	}
	t := ti.Task

	title := t.Title
	if t.Done {
		title = theme.DimmedStyle.Render(title)
	}
	line := fmt.Sprintf("%s %s", theme.CheckMark(t.Done), title)

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprintf(w, "%s\n%s", line, d.detailLine(t))
}

// detailLine renders the due date and description, or an empty line.
func (d ItemDelegate) detailLine(t model.Task) string {
	var due string
	if t.DueDate != nil {
		label := "due " + t.DueDate.Format("Jan 02")
		if t.IsOverdue(d.clock()) {
			due = theme.OverdueStyle.Render(label + " OVERDUE")
		} else {
			due = theme.DueDateStyle.Render(label)
		}
	}

	switch {
	case due != "" && t.HasDescription():
		return theme.DescriptionStyle.Render(t.Description) + "  " + due
	case due != "":
		return theme.DescriptionStyle.Render(due)
	case t.HasDescription():
		return theme.DescriptionStyle.Render(t.Description)
	default:
		return ""
	}
}

func (d ItemDelegate) clock() time.Time {
	if d.now == nil {
		return time.Now()
	}
	return d.now()
}
