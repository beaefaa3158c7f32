package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidRole = errors.New(invalidRoleMessage())

func invalidRoleMessage() string {
	names := make([]string, len(ValidRoles))
	for i, r := range ValidRoles {
		names[i] = string(r)
	}
	return fmt.Sprintf("Invalid role. Valid roles are: %s", strings.Join(names, ", "))
}

type ProfileService struct {
	repo *ProfileRepo
}

func NewProfileService(repo *ProfileRepo) *ProfileService {
	return &ProfileService{repo: repo}
}

// Create inserts the application profile for a freshly registered
// account. Registration always starts out as a client.
func (s *ProfileService) Create(ctx context.Context, accountID, firstName, lastName string, role Role) (*Profile, error) {
	return s.repo.Create(ctx, accountID, firstName, lastName, role)
}

func (s *ProfileService) List(ctx context.Context) ([]*Profile, error) {
	return s.repo.List(ctx)
}

func (s *ProfileService) GetByID(ctx context.Context, id string) (*Profile, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateRole changes a user's role after validating it against the known
// role set.
func (s *ProfileService) UpdateRole(ctx context.Context, id, newRole string) (*Profile, error) {
	if !IsValidRole(newRole) {
		return nil, ErrInvalidRole
	}

	return s.repo.UpdateRole(ctx, id, Role(newRole))
}

func (s *ProfileService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *ProfileService) ListDesigners(ctx context.Context) ([]*Profile, error) {
	return s.repo.ListByRole(ctx, RoleDesigner)
}

// GetDesigner returns the profile only if it belongs to a designer.
func (s *ProfileService) GetDesigner(ctx context.Context, id string) (*Profile, error) {
	return s.repo.GetByIDAndRole(ctx, id, RoleDesigner)
}

// FullName renders the denormalized display name used in project
// listings: first and last name joined and trimmed.
func (p *Profile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}
