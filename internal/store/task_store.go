package store

import (
	"context"
	"fmt"
	"time"

	"github.com/nhle/planner/internal/model"
)

// SaveTasks replaces every persisted task with tasks, recording slice
// order in the position column. It runs in one transaction.
func (s *SQLiteStore) SaveTasks(ctx context.Context, tasks []model.Task) error {
	for _, t := range tasks {
		if t.Title == "" {
			return fmt.Errorf("task %s: title must not be empty", t.ID)
		}
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM tasks"); err != nil {
		return fmt.Errorf("clearing tasks: %w", err)
	}

	if len(tasks) > 0 {
		stmt, err := tx.PreparexContext(ctx, `
			INSERT INTO tasks (
				id, position, title, done, description, due_date, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("preparing insert statement: %w", err)
		}
		defer stmt.Close()

		for i, t := range tasks {
			createdAt := t.CreatedAt
			if createdAt.IsZero() {
				createdAt = time.Now()
			}
			_, err = stmt.ExecContext(ctx,
				t.ID, i, t.Title, boolToInt(t.Done), t.Description,
				model.DatePtr(t.DueDate), createdAt.UTC(),
			)
			if err != nil {
				return fmt.Errorf("saving task %s: %w", t.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing tasks: %w", err)
	}
	return nil
}

// LoadTasks returns the persisted tasks ordered by position.
func (s *SQLiteStore) LoadTasks(ctx context.Context) ([]model.Task, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT id, title, done, description, due_date, created_at
		FROM tasks ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// scanTask scans a task row.
func scanTask(rows interface{ Scan(dest ...interface{}) error }) (model.Task, error) {
	var (
		task    model.Task
		doneInt int
		dueDate *time.Time
	)

	err := rows.Scan(
		&task.ID, &task.Title, &doneInt, &task.Description,
		&dueDate, &task.CreatedAt,
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("scanning task row: %w", err)
	}

	task.Done = doneInt != 0
	task.DueDate = model.DatePtr(dueDate)
	return task, nil
}
