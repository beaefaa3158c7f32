package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/fasthttp/router"
	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"

	"github.com/dmorell/atelier/internal/api/authenticator"
	"github.com/dmorell/atelier/internal/api/authgate"
	"github.com/dmorell/atelier/internal/services"
)

type tokenVerifierStub struct{}

func (tokenVerifierStub) VerifyAccessToken(_ context.Context, _ string) (*authenticator.UserClaims, error) {
	return &authenticator.UserClaims{UserID: "u1", Email: "u1@example.com"}, nil
}

type roleResolverStub struct {
	role string
}

func (s roleResolverStub) Resolve(_ context.Context, _ string) (string, error) {
	return s.role, nil
}

func (s roleResolverStub) Invalidate(_ context.Context, _ string) error {
	return nil
}

// newGatedRouter registers every protected route group behind a gate that
// resolves the caller to the given role. The services are left empty: a
// handler that slips past the gate and reaches them panics, which is the
// point — a denied request must stop at the gate.
func newGatedRouter(role string, svc *services.Services) *router.Router {
	r := router.New()
	gate := authgate.New(tokenVerifierStub{}, roleResolverStub{role: role})

	RegisterAdminRoutes(r, svc, gate)
	RegisterProjectRoutes(r, svc, gate)
	RegisterUserRoutes(r, svc, gate)

	return r
}

func perform(r *router.Router, method, path, body string, withAuth bool) *fasthttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	if body != "" {
		ctx.Request.SetBody([]byte(body))
	}
	if withAuth {
		ctx.Request.Header.Set("Authorization", "Bearer token")
	}

	r.Handler(ctx)
	return ctx
}

func TestRoutesRejectDisallowedRoles(t *testing.T) {
	tests := []struct {
		method string
		path   string
		role   string
	}{
		{fasthttp.MethodGet, "/projects", "superuser"},
		{fasthttp.MethodGet, "/projects/p1", "superuser"},

		{fasthttp.MethodPost, "/projects/create", "designer"},
		{fasthttp.MethodPost, "/projects/create", "superuser"},

		{fasthttp.MethodPut, "/projects/update/p1", "client"},
		{fasthttp.MethodPut, "/projects/update/p1", "designer"},
		{fasthttp.MethodPut, "/projects/update/p1", "superuser"},

		{fasthttp.MethodDelete, "/projects/delete/p1", "client"},
		{fasthttp.MethodDelete, "/projects/delete/p1", "designer"},
		{fasthttp.MethodDelete, "/projects/delete/p1", "superuser"},

		{fasthttp.MethodPatch, "/projects/assign/p1", "client"},
		{fasthttp.MethodPatch, "/projects/assign/p1", "designer"},
		{fasthttp.MethodPatch, "/projects/assign/p1", "superuser"},

		{fasthttp.MethodGet, "/users/designers", "client"},
		{fasthttp.MethodGet, "/users/designers", "designer"},
		{fasthttp.MethodGet, "/users/designers", "superuser"},

		{fasthttp.MethodGet, "/admin/users", "client"},
		{fasthttp.MethodGet, "/admin/users", "designer"},
		{fasthttp.MethodGet, "/admin/users", "project_manager"},

		{fasthttp.MethodGet, "/admin/users/u2", "client"},
		{fasthttp.MethodGet, "/admin/users/u2", "project_manager"},

		{fasthttp.MethodPatch, "/admin/users/role/u2", "client"},
		{fasthttp.MethodPatch, "/admin/users/role/u2", "designer"},
		{fasthttp.MethodPatch, "/admin/users/role/u2", "project_manager"},

		{fasthttp.MethodDelete, "/admin/users/delete/u2", "client"},
		{fasthttp.MethodDelete, "/admin/users/delete/u2", "designer"},
		{fasthttp.MethodDelete, "/admin/users/delete/u2", "project_manager"},
	}

	for _, tc := range tests {
		t.Run(tc.role+" "+tc.method+" "+tc.path, func(t *testing.T) {
			r := newGatedRouter(tc.role, &services.Services{})

			ctx := perform(r, tc.method, tc.path, "", true)

			assert.Equal(t, http.StatusForbidden, ctx.Response.StatusCode())
			env := decodeEnvelope(t, ctx)
			assert.False(t, env.Success)
			assert.Equal(t, "Forbidden: Insufficient permissions", env.Message)
		})
	}
}

// Allowed roles make it past the gate; with an empty body these requests
// stop at body validation, proving the allow-list admitted them without
// touching the store.
func TestRoutesAdmitAllowedRoles(t *testing.T) {
	tests := []struct {
		method string
		path   string
		role   string
	}{
		{fasthttp.MethodPost, "/projects/create", "client"},
		{fasthttp.MethodPost, "/projects/create", "project_manager"},
		{fasthttp.MethodPut, "/projects/update/p1", "project_manager"},
		{fasthttp.MethodPatch, "/projects/assign/p1", "project_manager"},
		{fasthttp.MethodPatch, "/admin/users/role/u2", "superuser"},
	}

	for _, tc := range tests {
		t.Run(tc.role+" "+tc.method+" "+tc.path, func(t *testing.T) {
			r := newGatedRouter(tc.role, &services.Services{})

			ctx := perform(r, tc.method, tc.path, "", true)

			assert.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())
			env := decodeEnvelope(t, ctx)
			assert.Equal(t, "Invalid request body", env.Message)
		})
	}
}

func TestRoutesRejectMissingToken(t *testing.T) {
	r := newGatedRouter("project_manager", &services.Services{})

	ctx := perform(r, fasthttp.MethodGet, "/projects", "", false)

	assert.Equal(t, http.StatusUnauthorized, ctx.Response.StatusCode())
	env := decodeEnvelope(t, ctx)
	assert.Equal(t, "Missing or invalid authorization token", env.Message)
}
