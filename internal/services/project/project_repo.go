package project

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

var ErrProjectNotFound = errors.New("project not found")

// viewColumns selects a project together with the denormalized display
// names. A vanished profile leaves the name null rather than empty.
const viewColumns = `
	p.id, p.title, p.description, p.created_by, p.assigned_to, p.status, p.created_at, p.updated_at,
	CASE WHEN ap.id IS NULL THEN NULL
	     ELSE BTRIM(COALESCE(ap.first_name, '') || ' ' || COALESCE(ap.last_name, ''))
	END AS assigned_to_name,
	CASE WHEN cp.id IS NULL THEN NULL
	     ELSE BTRIM(COALESCE(cp.first_name, '') || ' ' || COALESCE(cp.last_name, ''))
	END AS created_by_name
`

const viewJoins = `
	FROM projects p
	LEFT JOIN profile ap ON ap.id = p.assigned_to
	LEFT JOIN profile cp ON cp.id = p.created_by
`

type ProjectRepo struct {
	db *sqlx.DB
}

func NewProjectRepo(db *sqlx.DB) *ProjectRepo {
	return &ProjectRepo{db: db}
}

// Create inserts a new project owned by createdBy.
func (r *ProjectRepo) Create(ctx context.Context, createdBy, title string, description, assignedTo *string, status Status) (*Project, error) {
	query := `
		INSERT INTO projects (title, description, assigned_to, status, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, title, description, created_by, assigned_to, status, created_at, updated_at
	`

	var project Project
	err := r.db.GetContext(ctx, &project, query, title, description, assignedTo, status, createdBy)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return &project, nil
}

// List retrieves the projects visible under the given scope, newest first.
func (r *ProjectRepo) List(ctx context.Context, scope Scope) ([]*ProjectView, error) {
	query := `SELECT ` + viewColumns + viewJoins

	cond, args := scope.Clause(1)
	if cond != "" {
		query += " WHERE " + cond
	}
	query += " ORDER BY p.created_at DESC"

	var projects []*ProjectView
	err := r.db.SelectContext(ctx, &projects, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	return projects, nil
}

// GetByID retrieves one project by id, still subject to the scope: a row
// outside the caller's scope reads as not found.
func (r *ProjectRepo) GetByID(ctx context.Context, id string, scope Scope) (*ProjectView, error) {
	query := `SELECT ` + viewColumns + viewJoins + ` WHERE p.id = $1`

	args := []interface{}{id}
	cond, scopeArgs := scope.Clause(2)
	if cond != "" {
		query += " AND " + cond
		args = append(args, scopeArgs...)
	}

	var project ProjectView
	err := r.db.GetContext(ctx, &project, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return &project, nil
}

// Exists reports whether a project row is present, regardless of scope.
func (r *ProjectRepo) Exists(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM projects WHERE id = $1)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to check project: %w", err)
	}

	return exists, nil
}

// Update applies only the provided fields and bumps updated_at.
func (r *ProjectRepo) Update(ctx context.Context, id string, req *UpdateProjectRequest) (*Project, error) {
	setParts := []string{}
	args := []interface{}{}

	if req.Title != nil {
		setParts = append(setParts, fmt.Sprintf("title = $%d", len(args)+1))
		args = append(args, *req.Title)
	}

	if req.Description != nil {
		setParts = append(setParts, fmt.Sprintf("description = $%d", len(args)+1))
		args = append(args, *req.Description)
	}

	if req.AssignedTo != nil {
		setParts = append(setParts, fmt.Sprintf("assigned_to = $%d", len(args)+1))
		args = append(args, *req.AssignedTo)
	}

	if req.Status != nil {
		setParts = append(setParts, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *req.Status)
	}

	if len(setParts) == 0 {
		return nil, ErrProjectNotFound
	}

	setParts = append(setParts, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE projects
		SET %s
		WHERE id = $%d
		RETURNING id, title, description, created_by, assigned_to, status, created_at, updated_at
	`, strings.Join(setParts, ", "), len(args))

	var project Project
	err := r.db.GetContext(ctx, &project, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return &project, nil
}

// Assign sets the assignee. Designer validation happens before this call;
// the repo only performs the row update.
func (r *ProjectRepo) Assign(ctx context.Context, id, assignedTo string) (*Project, error) {
	query := `
		UPDATE projects
		SET assigned_to = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, title, description, created_by, assigned_to, status, created_at, updated_at
	`

	var project Project
	err := r.db.GetContext(ctx, &project, query, assignedTo, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to assign project: %w", err)
	}

	return &project, nil
}

// Delete removes a project by ID.
func (r *ProjectRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM projects WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProjectNotFound
	}

	return nil
}
