package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/gantry/internal/db"
	"github.com/alexanderramin/gantry/internal/domain"
)

// SQLiteProjectRepo implements ProjectRepo on a *sql.DB or *sql.Tx.
type SQLiteProjectRepo struct {
	db db.DBTX
}

func NewSQLiteProjectRepo(db db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: db}
}

const projectColumns = `id, name, color, collapsed, order_index, created_at, updated_at`

func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	query := `INSERT INTO projects (` + projectColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.Color,
		boolToInt(p.Collapsed),
		p.OrderIndex,
		formatTimestamp(p.CreatedAt),
		formatTimestamp(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning project: %w", err)
	}
	return p, nil
}

func (r *SQLiteProjectRepo) List(ctx context.Context) ([]*domain.Project, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY order_index, created_at`)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return projects, nil
}

func (r *SQLiteProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE projects SET name = ?, color = ?, collapsed = ?, order_index = ?, updated_at = ? WHERE id = ?`,
		p.Name, p.Color, boolToInt(p.Collapsed), p.OrderIndex, formatTimestamp(p.UpdatedAt), p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	return requireOneRow(res, fmt.Errorf("project %s: %w", p.ID, ErrNotFound))
}

func (r *SQLiteProjectRepo) SetCollapsed(ctx context.Context, id string, collapsed bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE projects SET collapsed = ?, updated_at = ? WHERE id = ?`,
		boolToInt(collapsed), nowUTC(), id,
	)
	if err != nil {
		return fmt.Errorf("collapsing project: %w", err)
	}
	return requireOneRow(res, fmt.Errorf("project %s: %w", id, ErrNotFound))
}

// Delete removes the project and, by cascade, its tasks.
func (r *SQLiteProjectRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return requireOneRow(res, fmt.Errorf("project %s: %w", id, ErrNotFound))
}

// NextOrderIndex returns one past the largest project order_index.
func (r *SQLiteProjectRepo) NextOrderIndex(ctx context.Context) (int, error) {
	var next int
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(order_index) + 1, 0) FROM projects`).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("reading project order: %w", err)
	}
	return next, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(s rowScanner) (*domain.Project, error) {
	var p domain.Project
	var collapsed int
	var createdAt, updatedAt string
	if err := s.Scan(&p.ID, &p.Name, &p.Color, &collapsed, &p.OrderIndex, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	p.Collapsed = intToBool(collapsed)
	p.CreatedAt = parseTimestamp(createdAt)
	p.UpdatedAt = parseTimestamp(updatedAt)
	return &p, nil
}
