package controllers

import (
	"errors"
	"fmt"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	"github.com/dmorell/atelier/internal/api/authgate"
	"github.com/dmorell/atelier/internal/perrors"
	"github.com/dmorell/atelier/internal/services"
	"github.com/dmorell/atelier/internal/services/profile"
	project2 "github.com/dmorell/atelier/internal/services/project"
)

type AssignProjectRequest struct {
	AssignedTo string `json:"assigned_to"`
}

type AssignProjectResponse struct {
	ID             string `json:"id"`
	AssignedTo     string `json:"assigned_to"`
	AssignedToName string `json:"assigned_to_name"`
}

type DeleteProjectResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

var (
	projectReadRoles  = []string{string(profile.RoleProjectManager), string(profile.RoleDesigner), string(profile.RoleClient)}
	projectWriteRoles = []string{string(profile.RoleProjectManager), string(profile.RoleClient)}
)

func RegisterProjectRoutes(r *router.Router, svc *services.Services, gate *authgate.Gate) {
	// List projects visible to the caller
	r.GET("/projects", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		authUser, err := gate.Require(stdCtx, authHeader(ctx), projectReadRoles...)
		if err != nil {
			writeFailure(ctx, stdCtx, err, "Unauthorized")
			return
		}

		scope := project2.Scope{Role: authUser.Role, UserID: authUser.ID}

		projects, err := svc.Project.List(stdCtx, scope)
		if err != nil {
			writeError(ctx, stdCtx, errMessage(err, "Failed to fetch projects"), perrors.NewErrInternalServerError("Failed to fetch projects", err))
			return
		}

		writeOK(ctx, stdCtx, "Projects retrieved successfully", projects)
	})

	// Get one project; rows outside the caller's scope read as missing
	r.GET("/projects/{id}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		authUser, err := gate.Require(stdCtx, authHeader(ctx), projectReadRoles...)
		if err != nil {
			writeFailure(ctx, stdCtx, err, "Unauthorized")
			return
		}

		projectID, err := pathParam(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Missing required parameter: project ID", perrors.NewErrInvalidRequest("Missing required parameter: project ID", err))
			return
		}

		scope := project2.Scope{Role: authUser.Role, UserID: authUser.ID}

		p, err := svc.Project.GetByID(stdCtx, projectID, scope)
		if err != nil {
			if errors.Is(err, project2.ErrProjectNotFound) {
				writeError(ctx, stdCtx, "Project not found", perrors.NewErrNotFound("Project not found", err))
				return
			}
			writeError(ctx, stdCtx, errMessage(err, "Failed to fetch project"), perrors.NewErrInternalServerError("Failed to fetch project", err))
			return
		}

		writeOK(ctx, stdCtx, "Project retrieved successfully", p)
	})

	// Create a project
	r.POST("/projects/create", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		authUser, err := gate.Require(stdCtx, authHeader(ctx), projectWriteRoles...)
		if err != nil {
			writeFailure(ctx, stdCtx, err, "Unauthorized")
			return
		}

		var body project2.CreateProjectRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		if body.Title == "" {
			writeError(ctx, stdCtx, "Missing required field: title", perrors.NewErrInvalidRequest("Missing required field: title", errors.New("title is required")))
			return
		}

		if body.AssignedTo != nil && *body.AssignedTo != "" {
			if _, err := svc.Profile.GetByID(stdCtx, *body.AssignedTo); err != nil {
				writeError(ctx, stdCtx, "Invalid assigned_to ID", perrors.NewErrInvalidRequest("Invalid assigned_to ID", err))
				return
			}
		}

		created, err := svc.Project.Create(stdCtx, authUser.ID, &body)
		if err != nil {
			if errors.Is(err, project2.ErrInvalidStatus) {
				writeError(ctx, stdCtx, err.Error(), perrors.NewErrInvalidRequest(err.Error(), err))
				return
			}
			writeError(ctx, stdCtx, errMessage(err, "Failed to create project"), perrors.NewErrInternalServerError("Failed to create project", err))
			return
		}

		writeOK(ctx, stdCtx, "Project created successfully", created)
	})

	// Update a project; only provided fields are applied
	r.PUT("/projects/update/{id}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		if _, err := gate.Require(stdCtx, authHeader(ctx), string(profile.RoleProjectManager)); err != nil {
			writeFailure(ctx, stdCtx, err, "Unauthorized")
			return
		}

		projectID, err := pathParam(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Missing required parameter: project ID", perrors.NewErrInvalidRequest("Missing required parameter: project ID", err))
			return
		}

		var body project2.UpdateProjectRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		if body.Empty() {
			writeError(ctx, stdCtx, "No fields provided for update", perrors.NewErrInvalidRequest("No fields provided for update", errors.New("empty update")))
			return
		}

		updated, err := svc.Project.Update(stdCtx, projectID, &body)
		if err != nil {
			switch {
			case errors.Is(err, project2.ErrInvalidStatus):
				writeError(ctx, stdCtx, err.Error(), perrors.NewErrInvalidRequest(err.Error(), err))
			case errors.Is(err, project2.ErrProjectNotFound):
				writeError(ctx, stdCtx, "Project not found", perrors.NewErrNotFound("Project not found", err))
			default:
				writeError(ctx, stdCtx, errMessage(err, "Failed to update project"), perrors.NewErrInternalServerError("Failed to update project", err))
			}
			return
		}

		writeOK(ctx, stdCtx, "Project updated successfully", updated)
	})

	// Delete a project
	r.DELETE("/projects/delete/{id}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		if _, err := gate.Require(stdCtx, authHeader(ctx), string(profile.RoleProjectManager)); err != nil {
			writeFailure(ctx, stdCtx, err, "Unauthorized")
			return
		}

		projectID, err := pathParam(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Project ID is required", perrors.NewErrInvalidRequest("Project ID is required", err))
			return
		}

		if err := svc.Project.Delete(stdCtx, projectID); err != nil {
			if errors.Is(err, project2.ErrProjectNotFound) {
				writeError(ctx, stdCtx, "Project not found", perrors.NewErrNotFound("Project not found", err))
				return
			}
			writeError(ctx, stdCtx, errMessage(err, "Failed to delete project"), perrors.NewErrInternalServerError("Failed to delete project", err))
			return
		}

		writeOK(ctx, stdCtx, "Project deleted successfully", DeleteProjectResponse{
			ID:      projectID,
			Message: fmt.Sprintf("Project with ID %s deleted successfully.", projectID),
		})
	})

	// Assign a project to a designer
	r.PATCH("/projects/assign/{id}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		if _, err := gate.Require(stdCtx, authHeader(ctx), string(profile.RoleProjectManager)); err != nil {
			writeFailure(ctx, stdCtx, err, "Unauthorized")
			return
		}

		projectID, err := pathParam(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Missing required parameter: project ID", perrors.NewErrInvalidRequest("Missing required parameter: project ID", err))
			return
		}

		var body AssignProjectRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		if body.AssignedTo == "" {
			writeError(ctx, stdCtx, "Missing required field: assigned_to", perrors.NewErrInvalidRequest("Missing required field: assigned_to", errors.New("assigned_to is required")))
			return
		}

		// The assignee must be an existing designer; anything else leaves
		// the project untouched.
		designer, err := svc.Profile.GetDesigner(stdCtx, body.AssignedTo)
		if err != nil {
			writeError(ctx, stdCtx, "Assigned user is not a valid designer", perrors.NewErrInvalidRequest("Assigned user is not a valid designer", err))
			return
		}

		exists, err := svc.Project.Exists(stdCtx, projectID)
		if err != nil {
			writeError(ctx, stdCtx, errMessage(err, "Failed to assign project"), perrors.NewErrInternalServerError("Failed to assign project", err))
			return
		}
		if !exists {
			writeError(ctx, stdCtx, "Project not found", perrors.NewErrNotFound("Project not found", errors.New("project not found")))
			return
		}

		updated, err := svc.Project.Assign(stdCtx, projectID, body.AssignedTo)
		if err != nil {
			writeError(ctx, stdCtx, errMessage(err, "Failed to assign project"), perrors.NewErrInternalServerError("Failed to assign project", err))
			return
		}

		assignedTo := ""
		if updated.AssignedTo != nil {
			assignedTo = *updated.AssignedTo
		}

		writeOK(ctx, stdCtx, "Project assigned successfully", AssignProjectResponse{
			ID:             updated.ID,
			AssignedTo:     assignedTo,
			AssignedToName: designer.FullName(),
		})
	})
}
