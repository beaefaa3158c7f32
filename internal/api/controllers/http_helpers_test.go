package controllers

import (
	"errors"
	"net/http"
	"testing"

	json "github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/dmorell/atelier/internal/perrors"
)

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func decodeEnvelope(t *testing.T, ctx *fasthttp.RequestCtx) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &env))
	return env
}

func TestParseBody(t *testing.T) {
	var ctx fasthttp.RequestCtx
	ctx.Request.SetBody([]byte(`{"email":"a@b.co"}`))

	var target struct {
		Email string `json:"email"`
	}
	require.NoError(t, parseBody(&ctx, &target))
	assert.Equal(t, "a@b.co", target.Email)
}

func TestParseBodyEmpty(t *testing.T) {
	var ctx fasthttp.RequestCtx

	var target map[string]any
	require.Error(t, parseBody(&ctx, &target))
}

func TestWriteFailurePrefersTypedMessage(t *testing.T) {
	var ctx fasthttp.RequestCtx
	stdCtx := requestContext(&ctx)

	writeFailure(&ctx, stdCtx, perrors.NewErrForbidden("Forbidden: Insufficient permissions", errors.New("role mismatch")), "Unauthorized")

	env := decodeEnvelope(t, &ctx)
	assert.False(t, env.Success)
	assert.Equal(t, "Forbidden: Insufficient permissions", env.Message)
	assert.Equal(t, http.StatusForbidden, ctx.Response.StatusCode())
}

func TestWriteFailureFallsBackForPlainErrors(t *testing.T) {
	var ctx fasthttp.RequestCtx
	stdCtx := requestContext(&ctx)

	writeFailure(&ctx, stdCtx, errors.New("boom"), "Unauthorized")

	env := decodeEnvelope(t, &ctx)
	assert.False(t, env.Success)
	assert.Equal(t, "Unauthorized", env.Message)
	assert.Equal(t, http.StatusInternalServerError, ctx.Response.StatusCode())
}

func TestPathParam(t *testing.T) {
	var ctx fasthttp.RequestCtx
	ctx.SetUserValue("id", "abc-123")

	val, err := pathParam(&ctx, "id")
	require.NoError(t, err)
	assert.Equal(t, "abc-123", val)

	_, err = pathParam(&ctx, "missing")
	require.Error(t, err)
}

func TestErrMessage(t *testing.T) {
	assert.Equal(t, "db down", errMessage(errors.New("db down"), "fallback"))
	assert.Equal(t, "fallback", errMessage(nil, "fallback"))
}
