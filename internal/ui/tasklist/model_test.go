package tasklist

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/planner/internal/keys"
	"github.com/nhle/planner/internal/model"
	"github.com/nhle/planner/internal/todolist"
)

func newTestList(t *testing.T, titles ...string) (Model, *todolist.Manager) {
	t.Helper()
	n := 0
	mgr := todolist.New(todolist.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("t%d", n)
	}))
	for _, title := range titles {
		if _, ok := mgr.Add(title, "", nil); !ok {
			t.Fatalf("Add(%q) rejected", title)
		}
	}
	return New(mgr, keys.DefaultKeyMap(), 80, 24), mgr
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func visibleTitles(m Model) []string {
	var out []string
	for _, t := range m.Visible() {
		out = append(out, t.Title)
	}
	return out
}

func TestToggleKeepsSelectionOnTask(t *testing.T) {
	m, mgr := newTestList(t, "Call dentist", "Buy milk")

	sel, _ := m.SelectedTask()
	if sel.Title != "Buy milk" {
		t.Fatalf("initial selection = %q, want first sorted task", sel.Title)
	}

	m, _ = m.Update(runeKey("x"))

	if got := strings.Join(visibleTitles(m), ","); got != "Call dentist,Buy milk" {
		t.Errorf("visible = %s", got)
	}
	sel, _ = m.SelectedTask()
	if sel.Title != "Buy milk" || !sel.Done {
		t.Errorf("selection did not follow toggled task: %+v", sel)
	}
	if task, _ := mgr.Get(sel.ID); !task.Done {
		t.Error("manager not updated")
	}
}

func TestSpaceToggles(t *testing.T) {
	m, mgr := newTestList(t, "A")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace})
	if task, _ := mgr.Get("t1"); !task.Done {
		t.Error("space did not toggle")
	}
}

func TestDeleteAndUndo(t *testing.T) {
	m, mgr := newTestList(t, "A", "B", "C")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(runeKey("d"))

	if got := strings.Join(visibleTitles(m), ","); got != "A,C" {
		t.Fatalf("after delete visible = %s", got)
	}
	if sel, _ := m.SelectedTask(); sel.Title != "C" {
		t.Errorf("cursor should stay in place, selected %q", sel.Title)
	}
	if !mgr.CanUndo() {
		t.Fatal("expected deleted stack entry")
	}

	m, _ = m.Update(runeKey("u"))
	if got := strings.Join(visibleTitles(m), ","); got != "A,B,C" {
		t.Errorf("after undo visible = %s", got)
	}
	if sel, _ := m.SelectedTask(); sel.Title != "B" {
		t.Errorf("undo should select restored task, selected %q", sel.Title)
	}
}

func TestManualOrderMove(t *testing.T) {
	m, mgr := newTestList(t, "C", "A", "B")

	m, _ = m.Update(runeKey("s"))
	if m.Order() != OrderManual {
		t.Fatal("expected manual order")
	}
	if got := strings.Join(visibleTitles(m), ","); got != "C,A,B" {
		t.Fatalf("manual visible = %s", got)
	}

	if sel, _ := m.SelectedTask(); sel.Title != "A" {
		t.Fatalf("selection should stay on A after switching order, got %q", sel.Title)
	}

	m, _ = m.Update(runeKey("J"))
	if got := strings.Join(visibleTitles(m), ","); got != "C,B,A" {
		t.Errorf("after J visible = %s", got)
	}
	if sel, _ := m.SelectedTask(); sel.Title != "A" {
		t.Errorf("selection should follow moved task, got %q", sel.Title)
	}

	m, _ = m.Update(runeKey("K"))
	m, _ = m.Update(runeKey("K"))
	m, _ = m.Update(runeKey("K")) // already first: ignored
	if got := strings.Join(visibleTitles(m), ","); got != "A,C,B" {
		t.Errorf("after K visible = %s", got)
	}
	if mgr.IndexOf("t2") != 0 {
		t.Errorf("storage index = %d", mgr.IndexOf("t2"))
	}

	m, _ = m.Update(runeKey("s"))
	if got := strings.Join(visibleTitles(m), ","); got != "A,B,C" {
		t.Errorf("sorted visible = %s", got)
	}
}

func TestRequests(t *testing.T) {
	m, _ := newTestList(t, "A")

	_, cmd := m.Update(runeKey("n"))
	if _, ok := cmd().(NewTaskRequestMsg); !ok {
		t.Error("n should request the add form")
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if open, ok := cmd().(OpenTaskRequestMsg); !ok || open.Task.Title != "A" {
		t.Errorf("enter produced %#v", open)
	}

	_, cmd = m.Update(runeKey("e"))
	req, ok := cmd().(EditTaskRequestMsg)
	if !ok || req.Task.Title != "A" {
		t.Errorf("e produced %#v", req)
	}
}

func TestEmptyState(t *testing.T) {
	m, _ := newTestList(t)
	if !strings.Contains(m.View(), "No tasks yet.") {
		t.Error("expected empty state text")
	}
	m, _ = m.Update(runeKey("x"))
	if _, ok := m.SelectedTask(); ok {
		t.Error("nothing should be selected")
	}
}

func TestViewShowsDetails(t *testing.T) {
	m, mgr := newTestList(t)
	due := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)
	mgr.Add("Pay rent", "transfer", &due)
	m.Refresh()

	out := m.View()
	for _, want := range []string{"Pay rent", "transfer", "due Jan 02", "OVERDUE"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestDetailLine(t *testing.T) {
	now := time.Date(2025, 4, 18, 12, 0, 0, 0, time.UTC)
	d := ItemDelegate{now: func() time.Time { return now }}
	future := model.Date(now.AddDate(0, 0, 3))

	if got := d.detailLine(model.Task{Title: "x"}); got != "" {
		t.Errorf("empty detail line = %q", got)
	}
	if got := d.detailLine(model.Task{Title: "x", DueDate: &future}); strings.Contains(got, "OVERDUE") {
		t.Errorf("future date flagged overdue: %q", got)
	}
	if got := d.detailLine(model.Task{Title: "x", Description: "notes"}); !strings.Contains(got, "notes") {
		t.Errorf("description missing: %q", got)
	}
}

func TestErrorMsgCarriesError(t *testing.T) {
	e := ErrorMsg{Err: todolist.ErrTaskNotFound}
	if !errors.Is(e.Err, todolist.ErrTaskNotFound) {
		t.Error("ErrorMsg lost its error")
	}
}
