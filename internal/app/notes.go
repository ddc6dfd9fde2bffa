package app

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/planner/internal/model"
)

// notesLoadedMsg carries the stored notes.
type notesLoadedMsg struct {
	note model.Note
	err  error
}

// notesSavedMsg is sent after a notes write. text is what was written.
type notesSavedMsg struct {
	text    string
	savedAt time.Time
	err     error
}

// loadNotes returns a command that reads the notes from the store.
func (m Model) loadNotes() tea.Cmd {
	s := m.store
	if s == nil {
		return nil
	}
	return func() tea.Msg {
		note, err := s.GetNote(context.Background(), model.NotesKey)
		if err != nil {
			return notesLoadedMsg{err: fmt.Errorf("loading notes: %w", err)}
		}
		return notesLoadedMsg{note: note}
	}
}

// saveNotes returns a command that writes text as the notes.
func (m Model) saveNotes(text string) tea.Cmd {
	s := m.store
	if s == nil {
		return nil
	}
	logger := m.logger
	return func() tea.Msg {
		if err := s.SetNote(context.Background(), model.NotesKey, text); err != nil {
			return notesSavedMsg{text: text, err: fmt.Errorf("saving notes: %w", err)}
		}
		logger.Debug("saved notes", "bytes", len(text))
		return notesSavedMsg{text: text, savedAt: time.Now()}
	}
}
