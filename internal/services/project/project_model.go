package project

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

var ValidStatuses = []Status{StatusPending, StatusActive, StatusCompleted}

func IsValidStatus(status string) bool {
	for _, s := range ValidStatuses {
		if string(s) == status {
			return true
		}
	}
	return false
}

type Project struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description"`
	CreatedBy   string    `db:"created_by" json:"created_by"`
	AssignedTo  *string   `db:"assigned_to" json:"assigned_to"`
	Status      Status    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// ProjectView is a project with the creator's and assignee's display
// names denormalized in, as list/detail endpoints return them. Names are
// null when the related profile no longer exists.
type ProjectView struct {
	Project
	AssignedToName *string `db:"assigned_to_name" json:"assigned_to_name"`
	CreatedByName  *string `db:"created_by_name" json:"created_by_name"`
}

type CreateProjectRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	AssignedTo  *string `json:"assigned_to"`
	Status      *string `json:"status"`
}

type UpdateProjectRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	AssignedTo  *string `json:"assigned_to"`
	Status      *string `json:"status"`
}

// Empty reports whether the update carries no fields at all.
func (r *UpdateProjectRequest) Empty() bool {
	return r.Title == nil && r.Description == nil && r.AssignedTo == nil && r.Status == nil
}
