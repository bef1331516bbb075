package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"taskeve/internal/models"
)

const taskColumns = `id, user_id, title, description, due_date, status, completed, created_at`

// ListTasks returns every task belonging to ownerID. Tasks without a due
// date sort last; within a due date newer tasks come first. The trailing
// id sort keeps the order stable when created_at collides.
func (s *Store) ListTasks(ctx context.Context, ownerID int64) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE user_id = ?
        ORDER BY CASE WHEN due_date = '' THEN 1 ELSE 0 END, due_date ASC, created_at DESC, id DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.DueDate, &t.Status, &t.Completed, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// CreateTask inserts a new pending task for ownerID.
func (s *Store) CreateTask(ctx context.Context, ownerID int64, title, description, dueDate string) (models.Task, error) {
	if strings.TrimSpace(title) == "" {
		return models.Task{}, fmt.Errorf("task title must not be empty")
	}

	res, err := s.db.ExecContext(ctx, `INSERT INTO tasks(user_id, title, description, due_date, status, completed) VALUES(?, ?, ?, ?, ?, 0)`,
		ownerID, strings.TrimSpace(title), description, dueDate, models.StatusPending)
	if err != nil {
		return models.Task{}, fmt.Errorf("insert task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Task{}, fmt.Errorf("task id: %w", err)
	}
	return s.GetTask(ctx, id, ownerID)
}

// GetTask retrieves a task by id, scoped to its owner. A task owned by
// someone else is reported as not found, same as a missing one.
func (s *Store) GetTask(ctx context.Context, id, ownerID int64) (models.Task, error) {
	var t models.Task
	err := s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ? AND user_id = ?`, id, ownerID).
		Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.DueDate, &t.Status, &t.Completed, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, ErrTaskNotFound
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// UpdateTask overwrites the mutable fields of an owned task. The completed
// flag is derived from the status so the pair never disagrees. Updating a
// task the owner does not hold is a silent no-op.
func (s *Store) UpdateTask(ctx context.Context, id, ownerID int64, title, description, dueDate, status string) error {
	if status != models.StatusCompleted {
		status = models.StatusPending
	}
	completed := status == models.StatusCompleted

	_, err := s.db.ExecContext(ctx, `UPDATE tasks SET title = ?, description = ?, due_date = ?, status = ?, completed = ?
        WHERE id = ? AND user_id = ?`, title, description, dueDate, status, completed, id, ownerID)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

// DeleteTask removes a task if it belongs to ownerID. Deleting a missing
// or foreign task is a silent no-op.
func (s *Store) DeleteTask(ctx context.Context, id, ownerID int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ? AND user_id = ?`, id, ownerID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// ToggleTask flips a task between Pending and Completed. The flip is a
// single UPDATE so concurrent toggles cannot split the completed/status
// pair. Toggling a missing or foreign task is a silent no-op.
func (s *Store) ToggleTask(ctx context.Context, id, ownerID int64) error {
	_, err := s.db.ExecContext(ctx, `UPDATE tasks SET
        completed = 1 - completed,
        status = CASE WHEN completed = 1 THEN ? ELSE ? END
        WHERE id = ? AND user_id = ?`, models.StatusPending, models.StatusCompleted, id, ownerID)
	if err != nil {
		return fmt.Errorf("toggle task: %w", err)
	}
	return nil
}
