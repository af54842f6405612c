package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/gantry/internal/db"
	"github.com/alexanderramin/gantry/internal/domain"
)

// SQLiteTaskRepo implements TaskRepo on a *sql.DB or *sql.Tx.
type SQLiteTaskRepo struct {
	db db.DBTX
}

func NewSQLiteTaskRepo(db db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: db}
}

const taskColumns = `id, project_id, parent_id, name, level, start_date, due_date,
	collapsed, completed, milestone, order_index, created_at, updated_at`

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	query := `INSERT INTO tasks (` + taskColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.ProjectID,
		nullableString(t.ParentID),
		t.Name,
		t.Level,
		formatDate(t.StartDate),
		formatDate(t.DueDate),
		boolToInt(t.Collapsed),
		boolToInt(t.Completed),
		boolToInt(t.Milestone),
		t.OrderIndex,
		formatTimestamp(t.CreatedAt),
		formatTimestamp(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning task: %w", err)
	}
	return t, nil
}

// List returns every task in insertion order within each project.
func (r *SQLiteTaskRepo) List(ctx context.Context) ([]*domain.Task, error) {
	return r.query(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY project_id, order_index`)
}

func (r *SQLiteTaskRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error) {
	return r.query(ctx, `SELECT `+taskColumns+` FROM tasks WHERE project_id = ? ORDER BY order_index`, projectID)
}

func (r *SQLiteTaskRepo) UpdateDates(ctx context.Context, id string, patch domain.DatePatch) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET start_date = ?, due_date = ?, updated_at = ? WHERE id = ?`,
		formatDate(patch.StartDate), formatDate(patch.DueDate), nowUTC(), id,
	)
	if err != nil {
		return fmt.Errorf("updating task dates: %w", err)
	}
	return requireOneRow(res, fmt.Errorf("task %s: %w", id, ErrNotFound))
}

func (r *SQLiteTaskRepo) SetCollapsed(ctx context.Context, id string, collapsed bool) error {
	return r.setFlag(ctx, "collapsed", id, collapsed)
}

func (r *SQLiteTaskRepo) SetCompleted(ctx context.Context, id string, completed bool) error {
	return r.setFlag(ctx, "completed", id, completed)
}

// Delete removes the task and, by cascade, its descendants.
func (r *SQLiteTaskRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return requireOneRow(res, fmt.Errorf("task %s: %w", id, ErrNotFound))
}

// setFlag writes one of the fixed boolean columns.
func (r *SQLiteTaskRepo) setFlag(ctx context.Context, column, id string, v bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET `+column+` = ?, updated_at = ? WHERE id = ?`,
		boolToInt(v), nowUTC(), id,
	)
	if err != nil {
		return fmt.Errorf("setting task %s: %w", column, err)
	}
	return requireOneRow(res, fmt.Errorf("task %s: %w", id, ErrNotFound))
}

func (r *SQLiteTaskRepo) query(ctx context.Context, query string, args ...any) ([]*domain.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

func scanTask(s rowScanner) (*domain.Task, error) {
	var t domain.Task
	var parentID sql.NullString
	var start, due, createdAt, updatedAt string
	var collapsed, completed, milestone int

	err := s.Scan(
		&t.ID, &t.ProjectID, &parentID, &t.Name, &t.Level,
		&start, &due,
		&collapsed, &completed, &milestone,
		&t.OrderIndex, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	if t.StartDate, err = parseDate(start); err != nil {
		return nil, fmt.Errorf("task %s start_date: %w", t.ID, err)
	}
	if t.DueDate, err = parseDate(due); err != nil {
		return nil, fmt.Errorf("task %s due_date: %w", t.ID, err)
	}
	t.ParentID = stringPtr(parentID)
	t.Collapsed = intToBool(collapsed)
	t.Completed = intToBool(completed)
	t.Milestone = intToBool(milestone)
	t.CreatedAt = parseTimestamp(createdAt)
	t.UpdatedAt = parseTimestamp(updatedAt)
	return &t, nil
}
