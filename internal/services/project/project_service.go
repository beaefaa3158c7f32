package project

import (
	"context"
	"errors"
)

var ErrInvalidStatus = errors.New("Invalid status. Valid statuses are: pending, active, completed")

type ProjectService struct {
	repo *ProjectRepo
}

func NewProjectService(repo *ProjectRepo) *ProjectService {
	return &ProjectService{repo: repo}
}

// Create stores a new project. The caller id is forced into created_by;
// a request can never create a project on someone else's behalf. Status
// defaults to pending.
func (s *ProjectService) Create(ctx context.Context, callerID string, req *CreateProjectRequest) (*Project, error) {
	status := StatusPending
	if req.Status != nil {
		if !IsValidStatus(*req.Status) {
			return nil, ErrInvalidStatus
		}
		status = Status(*req.Status)
	}

	return s.repo.Create(ctx, callerID, req.Title, req.Description, req.AssignedTo, status)
}

func (s *ProjectService) List(ctx context.Context, scope Scope) ([]*ProjectView, error) {
	return s.repo.List(ctx, scope)
}

func (s *ProjectService) GetByID(ctx context.Context, id string, scope Scope) (*ProjectView, error) {
	return s.repo.GetByID(ctx, id, scope)
}

func (s *ProjectService) Exists(ctx context.Context, id string) (bool, error) {
	return s.repo.Exists(ctx, id)
}

func (s *ProjectService) Update(ctx context.Context, id string, req *UpdateProjectRequest) (*Project, error) {
	if req.Status != nil && !IsValidStatus(*req.Status) {
		return nil, ErrInvalidStatus
	}

	return s.repo.Update(ctx, id, req)
}

func (s *ProjectService) Assign(ctx context.Context, id, assignedTo string) (*Project, error) {
	return s.repo.Assign(ctx, id, assignedTo)
}

func (s *ProjectService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
