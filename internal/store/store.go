package store

import (
	"context"

	"github.com/nhle/planner/internal/model"
)

// Store defines the persistence interface for the task list and notes.
type Store interface {
	// SaveTasks replaces the persisted task list. The slice order is kept.
	SaveTasks(ctx context.Context, tasks []model.Task) error
	// LoadTasks returns the persisted task list in saved order.
	LoadTasks(ctx context.Context) ([]model.Task, error)

	// GetNote returns the note stored under key. A missing key yields a
	// Note with empty Text and zero UpdatedAt.
	GetNote(ctx context.Context, key string) (model.Note, error)
	// SetNote stores text under key.
	SetNote(ctx context.Context, key, text string) error

	Close() error
}
