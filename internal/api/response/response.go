package response

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	json "github.com/bytedance/sonic"
	"github.com/valyala/fasthttp"

	"github.com/dmorell/atelier/internal/perrors"
)

// Response is the uniform envelope every endpoint answers with:
// {success, message, data}. The HTTP status travels in the header only.
type Response[T any] struct {
	ctx          context.Context
	errorDetails perrors.Err
	status       int

	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func NewResponse[T any](ctx context.Context, msg string, data T) *Response[T] {
	return &Response[T]{
		ctx:     ctx,
		Success: true,
		Message: msg,
		Data:    data,
		status:  http.StatusOK,
	}
}

// WithError marks the response as failed. The HTTP status is taken from
// the error when it is a perrors.Err; anything else becomes a 500.
func (r *Response[T]) WithError(err error) *Response[T] {
	var perr perrors.Err
	if !errors.As(err, &perr) {
		perr = perrors.NewErrInternalServerError(r.Message, err).(perrors.Err)
	}

	r.status = perr.HttpStatus()
	r.errorDetails = perr
	r.Success = false

	var zero T
	r.Data = zero

	return r
}

// WithStatus will set the HTTP response status code.
//
// This is not a preferred way of setting status code.
//   - Try to use perrors.Err embedded with a status code whenever possible.
//   - Default is http.StatusOK and it need not be set explicitly.
func (r *Response[T]) WithStatus(code int) *Response[T] {
	r.status = code

	return r
}

// Status reports the HTTP status code the response will be written with.
func (r *Response[T]) Status() int {
	return r.status
}

// Write will set the `content-type` to `application/json` and write the response to the fasthttp context.
func (r *Response[T]) Write(ctx *fasthttp.RequestCtx) {
	if !r.Success {
		r.errorDetails.Print(r.ctx)
	}

	ctx.Response.Header.Set("content-type", "application/json")
	ctx.SetStatusCode(r.status)

	body, err := json.Marshal(r)
	if err != nil {
		slog.ErrorContext(r.ctx, "Unable to json encode response", slog.Any("error", err))
		ctx.SetStatusCode(http.StatusInternalServerError)
		return
	}

	ctx.SetBody(body)
}
