package api

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/fasthttp/router"
	"github.com/redis/go-redis/v9"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/propagation"

	"github.com/dmorell/atelier/internal/api/authenticator"
	"github.com/dmorell/atelier/internal/api/authgate"
	"github.com/dmorell/atelier/internal/api/controllers"
	"github.com/dmorell/atelier/internal/api/response"
)

var tracePropagator = propagation.TraceContext{}

const roleCacheTTL = 5 * time.Minute

func (s *Server) initRoutes() fasthttp.RequestHandler {
	r := router.New()

	r.GET("/health", func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusOK)
		_, _ = ctx.Write([]byte("OK"))
	})

	auth, err := authenticator.New(s.conf)
	if err != nil {
		log.Fatal(err)
	}

	gate := authgate.New(auth, s.newRoleResolver())

	controllers.RegisterAuthRoutes(r, s.services, auth)
	controllers.RegisterAdminRoutes(r, s.services, gate)
	controllers.RegisterProjectRoutes(r, s.services, gate)
	controllers.RegisterUserRoutes(r, s.services, gate)

	return s.withMiddlewares(r.Handler)
}

// newRoleResolver builds the gate's role source: the profile table,
// fronted by Redis when one is configured.
func (s *Server) newRoleResolver() authgate.RoleResolver {
	dbResolver := authgate.NewDBRoleResolver(s.services.DB)

	if s.conf.REDIS_ADDR == "" {
		return dbResolver
	}

	client := redis.NewClient(&redis.Options{
		Addr:     s.conf.REDIS_ADDR,
		Password: s.conf.REDIS_PASSWORD,
	})

	slog.Info("Caching roles in Redis", slog.String("addr", s.conf.REDIS_ADDR))

	return authgate.NewRedisRoleResolver(dbResolver, client, roleCacheTTL)
}

func (s *Server) withMiddlewares(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		applyCORS(ctx)
		if string(ctx.Method()) == fasthttp.MethodOptions {
			ctx.SetStatusCode(fasthttp.StatusNoContent)
			return
		}

		start := time.Now()
		uri := ctx.URI()
		requestURI := string(uri.FullURI())
		slog.Info("Started processing", slog.String("method", string(ctx.Method())), slog.String("request_uri", requestURI))

		h := http.Header{}
		ctx.Request.Header.VisitAll(func(k, v []byte) {
			h[string(k)] = []string{string(v)}
		})
		traceCtx := tracePropagator.Extract(ctx, propagation.HeaderCarrier(h))
		ctx.SetUserValue("traceCtx", traceCtx)

		// No error may escape a handler unwrapped; a panic still ends up
		// as a 500 envelope.
		defer func() {
			if rec := recover(); rec != nil {
				slog.ErrorContext(traceCtx, "Recovered from panic", slog.Any("panic", rec))
				response.NewResponse[any](traceCtx, "An unexpected error occurred", nil).
					WithError(fmt.Errorf("%v", rec)).
					Write(ctx)
			}
		}()

		next(ctx)

		slog.Info("Finished processing", slog.String("method", string(ctx.Method())), slog.String("request_uri", requestURI), slog.Duration("duration", time.Since(start)))
	}
}

func applyCORS(ctx *fasthttp.RequestCtx) {
	headers := &ctx.Response.Header
	headers.Set("Access-Control-Allow-Origin", string(ctx.Request.Header.Peek("Origin")))
	headers.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS,PATCH")
	headers.Set("Access-Control-Allow-Headers", os.Getenv("ALLOWED_HEADERS"))
	headers.Set("Access-Control-Allow-Credentials", "true")
}
