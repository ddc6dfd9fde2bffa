package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nhle/planner/internal/model"
)

// GetNote returns the note stored under key. A missing key yields an empty
// Note carrying only the key.
func (s *SQLiteStore) GetNote(ctx context.Context, key string) (model.Note, error) {
	var note model.Note
	err := s.db.GetContext(ctx, &note,
		"SELECT key, text, updated_at FROM notes WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Note{Key: key}, nil
	}
	if err != nil {
		return model.Note{}, fmt.Errorf("getting note %q: %w", key, err)
	}
	return note, nil
}

// SetNote inserts or replaces the text stored under key.
func (s *SQLiteStore) SetNote(ctx context.Context, key, text string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notes (key, text, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET text = excluded.text, updated_at = excluded.updated_at`,
		key, text, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("setting note %q: %w", key, err)
	}
	return nil
}
