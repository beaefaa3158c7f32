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
)

type UpdateRoleRequest struct {
	NewRole string `json:"newRole"`
}

type DeleteUserResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// RegisterAdminRoutes wires the superuser-only user management endpoints.
func RegisterAdminRoutes(r *router.Router, svc *services.Services, gate *authgate.Gate) {
	// List all users
	r.GET("/admin/users", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		if _, err := gate.Require(stdCtx, authHeader(ctx), string(profile.RoleSuperuser)); err != nil {
			writeFailure(ctx, stdCtx, err, "Unauthorized")
			return
		}

		users, err := svc.Profile.List(stdCtx)
		if err != nil {
			writeError(ctx, stdCtx, errMessage(err, "Failed to fetch users"), perrors.NewErrInternalServerError("Failed to fetch users", err))
			return
		}

		writeOK(ctx, stdCtx, "Users retrieved successfully", users)
	})

	// Get one user
	r.GET("/admin/users/{id}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		if _, err := gate.Require(stdCtx, authHeader(ctx), string(profile.RoleSuperuser)); err != nil {
			writeFailure(ctx, stdCtx, err, "Unauthorized")
			return
		}

		userID, err := pathParam(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Missing required parameter: user ID", perrors.NewErrInvalidRequest("Missing required parameter: user ID", err))
			return
		}

		user, err := svc.Profile.GetByID(stdCtx, userID)
		if err != nil {
			if errors.Is(err, profile.ErrProfileNotFound) {
				writeError(ctx, stdCtx, "User not found", perrors.NewErrNotFound("User not found", err))
				return
			}
			writeError(ctx, stdCtx, errMessage(err, "Failed to fetch user"), perrors.NewErrInternalServerError("Failed to fetch user", err))
			return
		}

		writeOK(ctx, stdCtx, "User retrieved successfully", user)
	})

	// Change a user's role
	r.PATCH("/admin/users/role/{id}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		if _, err := gate.Require(stdCtx, authHeader(ctx), string(profile.RoleSuperuser)); err != nil {
			writeFailure(ctx, stdCtx, err, "Unauthorized")
			return
		}

		userID, err := pathParam(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Missing required parameter: user ID", perrors.NewErrInvalidRequest("Missing required parameter: user ID", err))
			return
		}

		var req UpdateRoleRequest
		if err := parseBody(ctx, &req); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		if _, err := svc.Profile.UpdateRole(stdCtx, userID, req.NewRole); err != nil {
			if errors.Is(err, profile.ErrInvalidRole) {
				writeError(ctx, stdCtx, err.Error(), perrors.NewErrInvalidRequest(err.Error(), err))
				return
			}
			writeError(ctx, stdCtx, errMessage(err, "Failed to update user role"), perrors.NewErrInternalServerError("Failed to update user role", err))
			return
		}

		// The old role may still be cached by the auth gate.
		if err := gate.Roles().Invalidate(stdCtx, userID); err != nil {
			writeError(ctx, stdCtx, errMessage(err, "Failed to update user role"), perrors.NewErrInternalServerError("Failed to update user role", err))
			return
		}

		writeOK(ctx, stdCtx, fmt.Sprintf("User role updated successfully to %s", req.NewRole), nil)
	})

	// Delete a user: profile row first, then the identity account.
	// If the second step fails the profile is already gone; the 500 below
	// is the documented signal for that dangling account.
	r.DELETE("/admin/users/delete/{id}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		if _, err := gate.Require(stdCtx, authHeader(ctx), string(profile.RoleSuperuser)); err != nil {
			writeFailure(ctx, stdCtx, err, "Unauthorized")
			return
		}

		userID, err := pathParam(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "User ID is required", perrors.NewErrInvalidRequest("User ID is required", err))
			return
		}

		if err := svc.Profile.Delete(stdCtx, userID); err != nil {
			if errors.Is(err, profile.ErrProfileNotFound) {
				writeError(ctx, stdCtx, "User not found", perrors.NewErrNotFound("User not found", err))
				return
			}
			writeError(ctx, stdCtx, errMessage(err, "Failed to delete from profile"), perrors.NewErrInternalServerError("Failed to delete from profile", err))
			return
		}

		if err := gate.Roles().Invalidate(stdCtx, userID); err != nil {
			writeError(ctx, stdCtx, errMessage(err, "Failed to delete user"), perrors.NewErrInternalServerError("Failed to delete user", err))
			return
		}

		if err := svc.Identity.Delete(stdCtx, userID); err != nil {
			writeError(ctx, stdCtx, errMessage(err, "Failed to delete from auth"), perrors.NewErrInternalServerError("Failed to delete from auth", err))
			return
		}

		writeOK(ctx, stdCtx, "User deleted successfully", DeleteUserResponse{
			ID:      userID,
			Message: fmt.Sprintf("User with ID %s deleted successfully.", userID),
		})
	})
}
