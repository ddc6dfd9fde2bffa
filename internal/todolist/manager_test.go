package todolist

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"testing"
	"time"

	"github.com/nhle/planner/internal/model"
)

// newTestManager returns a Manager with sequential ids and a fixed clock.
func newTestManager() *Manager {
	n := 0
	return New(
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("t%d", n)
		}),
		WithClock(func() time.Time {
			return time.Date(2025, 4, 18, 9, 0, 0, 0, time.UTC)
		}),
	)
}

func titles(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

func ids(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func mustAdd(t *testing.T, m *Manager, title string) model.Task {
	t.Helper()
	task, ok := m.Add(title, "", nil)
	if !ok {
		t.Fatalf("Add(%q) rejected", title)
	}
	return task
}

func TestAdd(t *testing.T) {
	t.Run("non-empty title appends open task", func(t *testing.T) {
		m := newTestManager()
		due := time.Date(2025, 5, 1, 15, 30, 0, 0, time.UTC)

		task, ok := m.Add("Buy milk", "2 liters", &due)
		if !ok {
			t.Fatal("expected Add to accept the title")
		}
		if m.Len() != 1 {
			t.Fatalf("expected 1 task, got %d", m.Len())
		}
		if task.Done {
			t.Error("new task must not be done")
		}
		if task.Description != "2 liters" {
			t.Errorf("description = %q", task.Description)
		}
		if task.DueDate == nil || !task.DueDate.Equal(time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("due date not normalized to the day: %v", task.DueDate)
		}
		if task.ID == "" {
			t.Error("expected an id")
		}
		if task.CreatedAt.IsZero() {
			t.Error("expected CreatedAt to be set")
		}
	})

	t.Run("empty title is ignored", func(t *testing.T) {
		m := newTestManager()
		mustAdd(t, m, "A")

		if _, ok := m.Add("", "desc", nil); ok {
			t.Error("Add(\"\") accepted")
		}
		if m.Len() != 1 {
			t.Errorf("expected length unchanged at 1, got %d", m.Len())
		}
	})

	t.Run("whitespace title is kept as entered", func(t *testing.T) {
		m := newTestManager()
		task, ok := m.Add("   ", "", nil)
		if !ok {
			t.Fatal("whitespace title rejected")
		}
		if task.Title != "   " || m.Len() != 1 {
			t.Errorf("task = %+v, len = %d", task, m.Len())
		}
	})

	t.Run("default ids are unique uuids", func(t *testing.T) {
		m := New()
		a, _ := m.Add("A", "", nil)
		b, _ := m.Add("A", "", nil)
		if a.ID == b.ID {
			t.Fatalf("duplicate id %s", a.ID)
		}
		if len(a.ID) != 36 {
			t.Errorf("expected uuid string, got %q", a.ID)
		}
	})
}

func TestToggleCompletionUsesSortedView(t *testing.T) {
	m := newTestManager()
	mustAdd(t, m, "Call dentist")
	mustAdd(t, m, "Buy milk")

	// "Buy milk" sorts first alphabetically.
	if err := m.ToggleCompletion(0); err != nil {
		t.Fatalf("ToggleCompletion: %v", err)
	}

	got := titles(m.SortedView())
	want := []string{"Call dentist", "Buy milk"}
	if !slices.Equal(got, want) {
		t.Errorf("SortedView = %v, want %v", got, want)
	}

	// Storage order is untouched by toggling.
	if got := titles(m.Tasks()); !slices.Equal(got, []string{"Call dentist", "Buy milk"}) {
		t.Errorf("storage order changed: %v", got)
	}

	// Toggling the done task again reopens it.
	if err := m.ToggleCompletion(1); err != nil {
		t.Fatalf("ToggleCompletion: %v", err)
	}
	for _, task := range m.Tasks() {
		if task.Done {
			t.Errorf("%q still done", task.Title)
		}
	}
}

func TestIndexOutOfRange(t *testing.T) {
	m := newTestManager()
	mustAdd(t, m, "A")
	mustAdd(t, m, "B")

	tests := []struct {
		name string
		op   func() error
	}{
		{"toggle negative", func() error { return m.ToggleCompletion(-1) }},
		{"toggle past end", func() error { return m.ToggleCompletion(2) }},
		{"remove past end", func() error { return m.RemoveAt(5) }},
		{"remove negative", func() error { return m.RemoveAt(-3) }},
		{"batch with bad index", func() error { return m.RemoveBatch([]int{0, 2}) }},
		{"reorder past end", func() error { return m.Reorder("t1", 2) }},
		{"reorder negative", func() error { return m.Reorder("t1", -1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.op()
			if !errors.Is(err, ErrIndexOutOfRange) {
				t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
			}
			if got := ids(m.Tasks()); !slices.Equal(got, []string{"t1", "t2"}) {
				t.Errorf("state changed after failed op: %v", got)
			}
			if m.CanUndo() {
				t.Error("deleted stack changed after failed op")
			}
		})
	}
}

func TestRemoveAndUndo(t *testing.T) {
	m := newTestManager()
	mustAdd(t, m, "A")
	mustAdd(t, m, "B")
	mustAdd(t, m, "C")

	if err := m.RemoveAt(1); err != nil {
		t.Fatalf("RemoveAt: %v", err)
	}
	if got := titles(m.Tasks()); !slices.Equal(got, []string{"A", "C"}) {
		t.Errorf("list = %v, want [A C]", got)
	}
	if got := titles(m.Deleted()); !slices.Equal(got, []string{"B"}) {
		t.Errorf("deleted = %v, want [B]", got)
	}

	restored, ok := m.UndoDeletion()
	if !ok || restored.Title != "B" {
		t.Fatalf("UndoDeletion = %v, %v", restored, ok)
	}
	if got := titles(m.Tasks()); !slices.Equal(got, []string{"A", "C", "B"}) {
		t.Errorf("list = %v, want [A C B]", got)
	}
	if m.CanUndo() {
		t.Error("deleted stack should be empty")
	}
}

func TestUndoOnEmptyStackIsNoop(t *testing.T) {
	m := newTestManager()
	mustAdd(t, m, "A")

	var events int
	m.Subscribe(func(Event) { events++ })

	if _, ok := m.UndoDeletion(); ok {
		t.Fatal("expected no restore")
	}
	if m.Len() != 1 || events != 0 {
		t.Errorf("len=%d events=%d, want 1 and 0", m.Len(), events)
	}
}

func TestRemoveBatchUndoesOneAtATime(t *testing.T) {
	m := newTestManager()
	for _, title := range []string{"D", "A", "C", "B"} {
		mustAdd(t, m, title)
	}

	// Sorted view is A B C D; remove A and C, with a duplicate and out of order.
	if err := m.RemoveBatch([]int{2, 0, 2}); err != nil {
		t.Fatalf("RemoveBatch: %v", err)
	}
	if got := titles(m.Tasks()); !slices.Equal(got, []string{"D", "B"}) {
		t.Errorf("list = %v, want [D B]", got)
	}
	if got := titles(m.Deleted()); !slices.Equal(got, []string{"A", "C"}) {
		t.Errorf("deleted = %v, want [A C]", got)
	}

	m.UndoDeletion()
	if got := titles(m.Tasks()); !slices.Equal(got, []string{"D", "B", "C"}) {
		t.Errorf("after one undo list = %v, want [D B C]", got)
	}
	if got := titles(m.Deleted()); !slices.Equal(got, []string{"A"}) {
		t.Errorf("after one undo deleted = %v, want [A]", got)
	}
}

func TestRemoveBatchEmptyIsNoop(t *testing.T) {
	m := newTestManager()
	mustAdd(t, m, "A")
	if err := m.RemoveBatch(nil); err != nil {
		t.Fatalf("RemoveBatch(nil): %v", err)
	}
	if m.Len() != 1 {
		t.Errorf("len = %d", m.Len())
	}
}

func TestSortedView(t *testing.T) {
	m := newTestManager()
	for _, title := range []string{"banana", "Apple", "cherry", "apple", "banana"} {
		mustAdd(t, m, title)
	}
	if err := m.Toggle("t3"); err != nil { // cherry
		t.Fatal(err)
	}
	if err := m.Toggle("t2"); err != nil { // Apple
		t.Fatal(err)
	}

	view := m.SortedView()
	want := []string{"apple", "banana", "banana", "Apple", "cherry"}
	if got := titles(view); !slices.Equal(got, want) {
		t.Errorf("SortedView = %v, want %v", got, want)
	}
	// Equal titles keep storage order.
	if view[1].ID != "t1" || view[2].ID != "t5" {
		t.Errorf("equal titles not stable: %s, %s", view[1].ID, view[2].ID)
	}

	// The projection is a copy.
	view[0].Title = "mutated"
	if got := m.SortedView()[0].Title; got != "apple" {
		t.Errorf("SortedView aliases storage: %q", got)
	}
	if got := titles(m.Tasks()); !slices.Equal(got, []string{"banana", "Apple", "cherry", "apple", "banana"}) {
		t.Errorf("storage order changed: %v", got)
	}
}

func TestReorder(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		target int
		want   []string
	}{
		{"move first to last", "t1", 3, []string{"B", "C", "D", "A"}},
		{"move last to first", "t4", 0, []string{"D", "A", "B", "C"}},
		{"move down one", "t2", 2, []string{"A", "C", "B", "D"}},
		{"move up one", "t3", 1, []string{"A", "C", "B", "D"}},
		{"same position", "t2", 1, []string{"A", "B", "C", "D"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestManager()
			for _, title := range []string{"A", "B", "C", "D"} {
				mustAdd(t, m, title)
			}
			var events []Event
			m.Subscribe(func(e Event) { events = append(events, e) })

			if err := m.Reorder(tt.id, tt.target); err != nil {
				t.Fatalf("Reorder: %v", err)
			}
			if got := titles(m.Tasks()); !slices.Equal(got, tt.want) {
				t.Errorf("order = %v, want %v", got, tt.want)
			}
			if m.IndexOf(tt.id) != tt.target {
				t.Errorf("IndexOf(%s) = %d, want %d", tt.id, m.IndexOf(tt.id), tt.target)
			}
			wantEvents := 1
			if tt.name == "same position" {
				wantEvents = 0
			}
			if len(events) != wantEvents {
				t.Errorf("got %d events, want %d", len(events), wantEvents)
			}
		})
	}
}

func TestReorderUnknownID(t *testing.T) {
	m := newTestManager()
	mustAdd(t, m, "A")
	if err := m.Reorder("nope", 0); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestIDOperations(t *testing.T) {
	m := newTestManager()
	a := mustAdd(t, m, "A")

	if err := m.SetDescription(a.ID, "details"); err != nil {
		t.Fatal(err)
	}
	due := time.Date(2025, 6, 2, 23, 0, 0, 0, time.UTC)
	if err := m.SetDueDate(a.ID, &due); err != nil {
		t.Fatal(err)
	}
	got, ok := m.Get(a.ID)
	if !ok {
		t.Fatal("Get failed")
	}
	if got.Description != "details" {
		t.Errorf("description = %q", got.Description)
	}
	if model.FormatDate(got.DueDate) != "2025-06-02" {
		t.Errorf("due = %v", got.DueDate)
	}
	if err := m.SetDueDate(a.ID, nil); err != nil {
		t.Fatal(err)
	}
	if got, _ := m.Get(a.ID); got.DueDate != nil {
		t.Errorf("due date not cleared: %v", got.DueDate)
	}

	for name, err := range map[string]error{
		"toggle":      m.Toggle("missing"),
		"remove":      m.Remove("missing"),
		"description": m.SetDescription("missing", "x"),
		"due":         m.SetDueDate("missing", nil),
	} {
		if !errors.Is(err, ErrTaskNotFound) {
			t.Errorf("%s: expected ErrTaskNotFound, got %v", name, err)
		}
	}
	if _, ok := m.Get("missing"); ok {
		t.Error("Get(missing) reported found")
	}
}

func TestLoad(t *testing.T) {
	m := newTestManager()
	mustAdd(t, m, "old")
	_ = m.RemoveAt(0)

	due := time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC)
	m.Load([]model.Task{
		{ID: "x", Title: "X", DueDate: &due},
		{ID: "y", Title: "Y", Done: true},
		{ID: "x", Title: "duplicate"},
		{ID: "", Title: "no id"},
	})

	if got := ids(m.Tasks()); !slices.Equal(got, []string{"x", "y"}) {
		t.Errorf("loaded ids = %v", got)
	}
	if m.CanUndo() {
		t.Error("Load must clear the deleted stack")
	}
	if x, _ := m.Get("x"); x.DueDate.Hour() != 0 {
		t.Errorf("loaded due date not normalized: %v", x.DueDate)
	}
}

func TestDueOn(t *testing.T) {
	m := newTestManager()
	day := time.Date(2025, 4, 20, 0, 0, 0, 0, time.UTC)
	other := day.AddDate(0, 0, 1)
	m.Add("b", "", &day)
	m.Add("a", "", &day)
	m.Add("c", "", &other)
	mustAdd(t, m, "no date")

	got := titles(m.DueOn(time.Date(2025, 4, 20, 18, 45, 0, 0, time.UTC)))
	if !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("DueOn = %v, want [a b]", got)
	}
}

func TestSubscribe(t *testing.T) {
	m := newTestManager()
	var first, second []EventKind
	unsub := m.Subscribe(func(e Event) { first = append(first, e.Kind) })
	m.Subscribe(func(e Event) { second = append(second, e.Kind) })

	a := mustAdd(t, m, "A")
	_ = m.Toggle(a.ID)
	_ = m.Remove(a.ID)
	m.UndoDeletion()
	m.Add("", "", nil) // ignored, no event
	unsub()
	_ = m.SetDescription(a.ID, "d")

	want := []EventKind{EventAdded, EventToggled, EventRemoved, EventRestored}
	if !slices.Equal(first, want) {
		t.Errorf("first observer got %v, want %v", first, want)
	}
	if !slices.Equal(second, append(want, EventEdited)) {
		t.Errorf("second observer got %v", second)
	}
}

func TestSubscribeUnsubscribeDuringNotify(t *testing.T) {
	m := newTestManager()
	calls := 0
	var unsub func()
	unsub = m.Subscribe(func(Event) {
		calls++
		unsub()
	})
	mustAdd(t, m, "A")
	mustAdd(t, m, "B")
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

// TestRandomOperationsKeepIDsUnique drives random add/remove/undo/reorder
// sequences and checks that no id is ever duplicated or in both places.
func TestRandomOperationsKeepIDsUnique(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	m := newTestManager()

	for step := 0; step < 2000; step++ {
		switch rng.Intn(6) {
		case 0, 1:
			m.Add(fmt.Sprintf("task-%d", rng.Intn(50)), "", nil)
		case 2:
			if m.Len() > 0 {
				_ = m.RemoveAt(rng.Intn(m.Len()))
			}
		case 3:
			m.UndoDeletion()
		case 4:
			if m.Len() > 0 {
				_ = m.ToggleCompletion(rng.Intn(m.Len()))
			}
		case 5:
			if m.Len() > 0 {
				src := m.Tasks()[rng.Intn(m.Len())].ID
				_ = m.Reorder(src, rng.Intn(m.Len()))
			}
		}

		seen := make(map[string]bool)
		for _, task := range append(m.Tasks(), m.Deleted()...) {
			if seen[task.ID] {
				t.Fatalf("step %d: id %s appears twice", step, task.ID)
			}
			seen[task.ID] = true
		}

		view := m.SortedView()
		for i := 1; i < len(view); i++ {
			prev, cur := view[i-1], view[i]
			if prev.Done && !cur.Done {
				t.Fatalf("step %d: done task before open task", step)
			}
			if prev.Done == cur.Done && prev.Title > cur.Title {
				t.Fatalf("step %d: titles out of order: %q > %q", step, prev.Title, cur.Title)
			}
		}
	}
}

func TestRemoveThenUndoRestoresSameIDs(t *testing.T) {
	m := newTestManager()
	for _, title := range []string{"x", "y", "z"} {
		mustAdd(t, m, title)
	}
	for i := 0; i < 3; i++ {
		before := ids(m.Tasks())
		slices.Sort(before)

		if err := m.RemoveAt(i); err != nil {
			t.Fatal(err)
		}
		m.UndoDeletion()

		after := ids(m.Tasks())
		slices.Sort(after)
		if !slices.Equal(before, after) {
			t.Errorf("remove %d then undo: %v != %v", i, after, before)
		}
	}
}

func TestEventKindString(t *testing.T) {
	if EventReordered.String() != "reordered" || EventKind(99).String() != "unknown" {
		t.Error("unexpected EventKind strings")
	}
}
