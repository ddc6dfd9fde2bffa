// Package todolist holds the in-memory task list: storage order, the
// deleted stack used for undo, and the sorted projection used for display.
package todolist

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/planner/internal/model"
)

var (
	// ErrIndexOutOfRange is returned by position-based operations given a
	// position outside the current bounds.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrTaskNotFound is returned by id-based operations for unknown ids.
	ErrTaskNotFound = errors.New("task not found")
)

// Manager owns the task list and the deleted stack. It is not safe for
// concurrent use; the UI event loop is its only caller.
type Manager struct {
	items     []model.Task
	deleted   []model.Task
	observers []*observer
	now       func() time.Time
	newID     func() string
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithIDGenerator overrides uuid generation.
func WithIDGenerator(gen func() string) Option {
	return func(m *Manager) { m.newID = gen }
}

// New returns an empty Manager.
func New(opts ...Option) *Manager {
	m := &Manager{
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Add appends a new open task. An empty title is ignored and reported
// with ok == false.
func (m *Manager) Add(title, description string, due *time.Time) (model.Task, bool) {
	if title == "" {
		return model.Task{}, false
	}
	t := model.Task{
		ID:          m.newID(),
		Title:       title,
		Description: description,
		DueDate:     model.DatePtr(due),
		CreatedAt:   m.now().UTC(),
	}
	m.items = append(m.items, t)
	m.notify(Event{Kind: EventAdded, TaskID: t.ID})
	return t, true
}

// ToggleCompletion flips Done for the task at index in SortedView order.
func (m *Manager) ToggleCompletion(index int) error {
	id, err := m.sortedID(index)
	if err != nil {
		return err
	}
	return m.Toggle(id)
}

// Toggle flips Done for the task with the given id.
func (m *Manager) Toggle(id string) error {
	i := m.IndexOf(id)
	if i < 0 {
		return fmt.Errorf("toggling %s: %w", id, ErrTaskNotFound)
	}
	m.items[i].Done = !m.items[i].Done
	m.notify(Event{Kind: EventToggled, TaskID: id})
	return nil
}

// RemoveAt moves the task at index in SortedView order onto the deleted stack.
func (m *Manager) RemoveAt(index int) error {
	id, err := m.sortedID(index)
	if err != nil {
		return err
	}
	return m.Remove(id)
}

// Remove moves the task with the given id onto the deleted stack.
func (m *Manager) Remove(id string) error {
	i := m.IndexOf(id)
	if i < 0 {
		return fmt.Errorf("removing %s: %w", id, ErrTaskNotFound)
	}
	m.deleted = append(m.deleted, m.items[i])
	m.items = slices.Delete(m.items, i, i+1)
	m.notify(Event{Kind: EventRemoved, TaskID: id})
	return nil
}

// RemoveBatch removes every task at the given SortedView positions. All
// positions are resolved against one snapshot and validated before anything
// changes. Tasks go onto the deleted stack one by one in ascending position
// order, so a single UndoDeletion restores only the last of them.
func (m *Manager) RemoveBatch(indices []int) error {
	if len(indices) == 0 {
		return nil
	}
	view := m.SortedView()
	sorted := slices.Clone(indices)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	for _, idx := range sorted {
		if idx < 0 || idx >= len(view) {
			return fmt.Errorf("removing position %d of %d: %w", idx, len(view), ErrIndexOutOfRange)
		}
	}
	for _, idx := range sorted {
		if err := m.Remove(view[idx].ID); err != nil {
			return err
		}
	}
	return nil
}

// UndoDeletion pops the most recently removed task and appends it to the
// end of the list. It reports false when there is nothing to restore.
func (m *Manager) UndoDeletion() (model.Task, bool) {
	n := len(m.deleted)
	if n == 0 {
		return model.Task{}, false
	}
	t := m.deleted[n-1]
	m.deleted = m.deleted[:n-1]
	m.items = append(m.items, t)
	m.notify(Event{Kind: EventRestored, TaskID: t.ID})
	return t, true
}

// SortedView returns a fresh copy of the list ordered for display: open
// tasks before done ones, each group by ascending title. Storage order is
// left untouched.
func (m *Manager) SortedView() []model.Task {
	view := slices.Clone(m.items)
	slices.SortStableFunc(view, compareForDisplay)
	return view
}

func compareForDisplay(a, b model.Task) int {
	if a.Done != b.Done {
		if !a.Done {
			return -1
		}
		return 1
	}
	return strings.Compare(a.Title, b.Title)
}

// Reorder moves the task with sourceID to targetIndex in storage order.
func (m *Manager) Reorder(sourceID string, targetIndex int) error {
	src := m.IndexOf(sourceID)
	if src < 0 {
		return fmt.Errorf("reordering %s: %w", sourceID, ErrTaskNotFound)
	}
	if targetIndex < 0 || targetIndex >= len(m.items) {
		return fmt.Errorf("reordering to position %d of %d: %w", targetIndex, len(m.items), ErrIndexOutOfRange)
	}
	if src == targetIndex {
		return nil
	}
	t := m.items[src]
	m.items = slices.Delete(m.items, src, src+1)
	m.items = slices.Insert(m.items, targetIndex, t)
	m.notify(Event{Kind: EventReordered, TaskID: sourceID})
	return nil
}

// SetDescription replaces the description of the task with the given id.
func (m *Manager) SetDescription(id, description string) error {
	i := m.IndexOf(id)
	if i < 0 {
		return fmt.Errorf("editing %s: %w", id, ErrTaskNotFound)
	}
	if m.items[i].Description == description {
		return nil
	}
	m.items[i].Description = description
	m.notify(Event{Kind: EventEdited, TaskID: id})
	return nil
}

// SetDueDate replaces the due date of the task with the given id. A nil
// due clears it.
func (m *Manager) SetDueDate(id string, due *time.Time) error {
	i := m.IndexOf(id)
	if i < 0 {
		return fmt.Errorf("editing %s: %w", id, ErrTaskNotFound)
	}
	due = model.DatePtr(due)
	cur := m.items[i].DueDate
	if (cur == nil && due == nil) || (cur != nil && due != nil && cur.Equal(*due)) {
		return nil
	}
	m.items[i].DueDate = due
	m.notify(Event{Kind: EventEdited, TaskID: id})
	return nil
}

// Load replaces the list with a persisted snapshot and clears the deleted
// stack. Later duplicates of an id are dropped.
func (m *Manager) Load(tasks []model.Task) {
	seen := make(map[string]bool, len(tasks))
	items := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID == "" || seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		t.DueDate = model.DatePtr(t.DueDate)
		items = append(items, t)
	}
	m.items = items
	m.deleted = nil
	m.notify(Event{Kind: EventLoaded})
}

// Get returns the task with the given id.
func (m *Manager) Get(id string) (model.Task, bool) {
	i := m.IndexOf(id)
	if i < 0 {
		return model.Task{}, false
	}
	return m.items[i], true
}

// IndexOf returns the storage position of id, or -1.
func (m *Manager) IndexOf(id string) int {
	return slices.IndexFunc(m.items, func(t model.Task) bool { return t.ID == id })
}

// Tasks returns a copy of the list in storage order.
func (m *Manager) Tasks() []model.Task { return slices.Clone(m.items) }

// Deleted returns a copy of the deleted stack, oldest first.
func (m *Manager) Deleted() []model.Task { return slices.Clone(m.deleted) }

// Len returns the number of tasks in the list.
func (m *Manager) Len() int { return len(m.items) }

// CanUndo reports whether UndoDeletion would restore anything.
func (m *Manager) CanUndo() bool { return len(m.deleted) > 0 }

// DueOn returns the tasks due on the calendar day of day, in display order.
func (m *Manager) DueOn(day time.Time) []model.Task {
	var out []model.Task
	for _, t := range m.SortedView() {
		if t.DueOn(day) {
			out = append(out, t)
		}
	}
	return out
}

func (m *Manager) sortedID(index int) (string, error) {
	view := m.SortedView()
	if index < 0 || index >= len(view) {
		return "", fmt.Errorf("position %d of %d: %w", index, len(view), ErrIndexOutOfRange)
	}
	return view[index].ID, nil
}
