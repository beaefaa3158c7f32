package controllers

import (
	"context"
	"errors"
	"fmt"

	json "github.com/bytedance/sonic"
	"github.com/valyala/fasthttp"

	"github.com/dmorell/atelier/internal/api/response"
	"github.com/dmorell/atelier/internal/perrors"
)

// requestContext returns a baseline context for handlers. fasthttp does not provide
// a standard context, so we start from Background for downstream calls.
func requestContext(ctx *fasthttp.RequestCtx) context.Context {
	if traceCtx, ok := ctx.UserValue("traceCtx").(context.Context); ok {
		return traceCtx
	}
	return context.Background()
}

func parseBody(ctx *fasthttp.RequestCtx, target any) error {
	body := ctx.PostBody()
	if len(body) == 0 {
		return errors.New("request body is empty")
	}

	return json.Unmarshal(body, target)
}

func writeError(ctx *fasthttp.RequestCtx, stdCtx context.Context, message string, err error) {
	response.NewResponse[any](stdCtx, message, nil).WithError(err).Write(ctx)
}

func writeOK(ctx *fasthttp.RequestCtx, stdCtx context.Context, message string, data any) {
	response.NewResponse(stdCtx, message, data).Write(ctx)
}

func pathParam(ctx *fasthttp.RequestCtx, key string) (string, error) {
	val := ctx.UserValue(key)
	if val == nil {
		return "", fmt.Errorf("%s is required", key)
	}

	return fmt.Sprint(val), nil
}

// authHeader returns the raw Authorization header for the auth gate.
func authHeader(ctx *fasthttp.RequestCtx) string {
	return string(ctx.Request.Header.Peek("Authorization"))
}

// writeFailure writes a typed error using its own human message, or a
// generic 500 with the fallback message for anything untyped.
func writeFailure(ctx *fasthttp.RequestCtx, stdCtx context.Context, err error, fallbackMsg string) {
	var perr perrors.Err
	if errors.As(err, &perr) {
		writeError(ctx, stdCtx, perr.Message, err)
		return
	}
	writeError(ctx, stdCtx, fallbackMsg, err)
}

// errMessage prefers the store's error message over a generic one.
func errMessage(err error, fallback string) string {
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}
