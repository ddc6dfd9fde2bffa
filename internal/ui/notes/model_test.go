package notes

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/planner/internal/keys"
)

func TestEditAndSave(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)
	m.SetText("hello")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if m.Editing() || m.Value() != "hello" {
		t.Fatal("keys must be ignored until editing starts")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.Editing() {
		t.Fatal("enter should start editing")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("!")})
	if !m.Dirty() {
		t.Fatalf("typed text not applied: %q", m.Value())
	}

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.Editing() {
		t.Error("esc should stop editing")
	}
	if cmd == nil {
		t.Fatal("expected SaveNotesMsg")
	}
	msg, ok := cmd().(SaveNotesMsg)
	if !ok || !strings.Contains(msg.Text, "hello") || !strings.Contains(msg.Text, "!") {
		t.Errorf("save msg = %#v", msg)
	}

	m.MarkSaved(msg.Text)
	if m.Dirty() {
		t.Error("MarkSaved should clear dirty")
	}

	m.MarkSaved("older text")
	if !m.Dirty() {
		t.Error("text differing from the saved value should be dirty")
	}
}

func TestEscWithoutChangesDoesNotSave(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)
	m.SetText("same")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("i")})
	if !m.Editing() {
		t.Fatal("i should start editing")
	}
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd != nil {
		t.Error("unchanged notes should not be saved")
	}
}

func TestViewHint(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)
	if !strings.Contains(m.View(), "enter/i to edit") {
		t.Error("missing idle hint")
	}
}
