// Package authgate is the single authorization checkpoint for protected
// endpoints. It turns an Authorization header into an AuthUser and checks
// the caller's role against a per-action allow-list, before any query or
// mutation runs against the store.
package authgate

import (
	"context"
	"errors"
	"strings"

	"github.com/dmorell/atelier/internal/api/authenticator"
	"github.com/dmorell/atelier/internal/perrors"
)

var ErrProfileNotFound = errors.New("profile not found")

// AuthUser is the resolved caller identity handed to handlers for
// row-level scoping.
type AuthUser struct {
	ID    string
	Email string
	Role  string
}

// TokenVerifier resolves a bearer token to the user it was issued for.
type TokenVerifier interface {
	VerifyAccessToken(ctx context.Context, token string) (*authenticator.UserClaims, error)
}

// RoleResolver looks up a user's role from the profile store. Resolve
// returns ErrProfileNotFound when the user has no profile row.
type RoleResolver interface {
	Resolve(ctx context.Context, userID string) (string, error)
	Invalidate(ctx context.Context, userID string) error
}

type Gate struct {
	verifier TokenVerifier
	roles    RoleResolver
}

func New(verifier TokenVerifier, roles RoleResolver) *Gate {
	return &Gate{verifier: verifier, roles: roles}
}

// Roles exposes the resolver so handlers that change or remove a profile
// can invalidate its cached role.
func (g *Gate) Roles() RoleResolver {
	return g.roles
}

// Require authenticates the request and enforces the allow-list. An empty
// allow-list means any authenticated user with a profile passes.
func (g *Gate) Require(ctx context.Context, authHeader string, allowedRoles ...string) (*AuthUser, error) {
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, perrors.NewErrUnauthorized("Missing or invalid authorization token", errors.New("malformed authorization header"))
	}

	token := strings.TrimPrefix(authHeader, "Bearer ")

	claims, err := g.verifier.VerifyAccessToken(ctx, token)
	if err != nil {
		return nil, perrors.NewErrUnauthorized("Invalid or expired token", err)
	}

	role, err := g.roles.Resolve(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, perrors.NewErrForbidden("Forbidden: Insufficient permissions", err)
		}
		return nil, perrors.NewErrInternalServerError("Failed to resolve user role", err)
	}

	if len(allowedRoles) > 0 && !contains(allowedRoles, role) {
		return nil, perrors.NewErrForbidden("Forbidden: Insufficient permissions", errors.New("role not in allow-list"))
	}

	return &AuthUser{
		ID:    claims.UserID,
		Email: claims.Email,
		Role:  role,
	}, nil
}

func contains(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
