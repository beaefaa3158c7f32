package controllers

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	"github.com/dmorell/atelier/internal/api/authgate"
	"github.com/dmorell/atelier/internal/perrors"
	"github.com/dmorell/atelier/internal/services"
	"github.com/dmorell/atelier/internal/services/profile"
)

func RegisterUserRoutes(r *router.Router, svc *services.Services, gate *authgate.Gate) {
	// List designers, for the assignment picker
	r.GET("/users/designers", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		if _, err := gate.Require(stdCtx, authHeader(ctx), string(profile.RoleProjectManager)); err != nil {
			writeFailure(ctx, stdCtx, err, "Unauthorized")
			return
		}

		designers, err := svc.Profile.ListDesigners(stdCtx)
		if err != nil {
			writeError(ctx, stdCtx, errMessage(err, "Failed to fetch designers"), perrors.NewErrInternalServerError("Failed to fetch designers", err))
			return
		}

		writeOK(ctx, stdCtx, "Designer users retrieved successfully", designers)
	})
}
