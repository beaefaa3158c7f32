package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepo struct {
	db *sqlx.DB
}

func NewProfileRepo(db *sqlx.DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

func (r *ProfileRepo) Create(ctx context.Context, id, firstName, lastName string, role Role) (*Profile, error) {
	query := `
		INSERT INTO profile (id, first_name, last_name, role_project)
		VALUES ($1, $2, $3, $4)
		RETURNING id, first_name, last_name, role_project, created_at
	`

	var p Profile
	err := r.db.GetContext(ctx, &p, query, id, firstName, lastName, role)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	return &p, nil
}

func (r *ProfileRepo) List(ctx context.Context) ([]*Profile, error) {
	query := `
		SELECT id, first_name, last_name, role_project, created_at
		FROM profile
		ORDER BY created_at DESC
	`

	var profiles []*Profile
	err := r.db.SelectContext(ctx, &profiles, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	return profiles, nil
}

func (r *ProfileRepo) GetByID(ctx context.Context, id string) (*Profile, error) {
	query := `
		SELECT id, first_name, last_name, role_project, created_at
		FROM profile
		WHERE id = $1
	`

	var p Profile
	err := r.db.GetContext(ctx, &p, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &p, nil
}

func (r *ProfileRepo) UpdateRole(ctx context.Context, id string, role Role) (*Profile, error) {
	query := `
		UPDATE profile
		SET role_project = $1
		WHERE id = $2
		RETURNING id, first_name, last_name, role_project, created_at
	`

	var p Profile
	err := r.db.GetContext(ctx, &p, query, role, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	return &p, nil
}

func (r *ProfileRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM profile WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProfileNotFound
	}

	return nil
}

// ListByRole returns every profile holding the given role, newest first.
func (r *ProfileRepo) ListByRole(ctx context.Context, role Role) ([]*Profile, error) {
	query := `
		SELECT id, first_name, last_name, role_project, created_at
		FROM profile
		WHERE role_project = $1
		ORDER BY created_at DESC
	`

	var profiles []*Profile
	err := r.db.SelectContext(ctx, &profiles, query, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles by role: %w", err)
	}

	return profiles, nil
}

// GetByIDAndRole returns the profile only when it holds the given role.
// Used to validate that an assignee really is a designer.
func (r *ProfileRepo) GetByIDAndRole(ctx context.Context, id string, role Role) (*Profile, error) {
	query := `
		SELECT id, first_name, last_name, role_project, created_at
		FROM profile
		WHERE id = $1 AND role_project = $2
	`

	var p Profile
	err := r.db.GetContext(ctx, &p, query, id, role)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &p, nil
}
