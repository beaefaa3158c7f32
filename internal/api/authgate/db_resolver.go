package authgate

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// DBRoleResolver reads roles from the profile table. The profile table is
// the source of truth for roles: an admin can change a role and the next
// request picks it up without the user logging in again.
type DBRoleResolver struct {
	db *sqlx.DB
}

func NewDBRoleResolver(db *sqlx.DB) *DBRoleResolver {
	return &DBRoleResolver{db: db}
}

func (r *DBRoleResolver) Resolve(ctx context.Context, userID string) (string, error) {
	query := `SELECT role_project FROM profile WHERE id = $1`

	var role string
	err := r.db.GetContext(ctx, &role, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", ErrProfileNotFound
		}
		return "", fmt.Errorf("failed to resolve role: %w", err)
	}

	return role, nil
}

// Invalidate is a no-op; the database is always current.
func (r *DBRoleResolver) Invalidate(ctx context.Context, userID string) error {
	return nil
}
