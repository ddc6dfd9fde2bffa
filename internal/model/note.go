package model

import "time"

// NotesKey is the key the notes page is stored under.
const NotesKey = "notesText"

// Note is a named free-text document.
type Note struct {
	Key       string    `json:"key" db:"key"`
	Text      string    `json:"text" db:"text"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
