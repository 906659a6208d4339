// Package response writes the JSON envelope every API endpoint answers with.
package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestIDKey is the gin context key the request id middleware fills.
const RequestIDKey = "request_id"

type APIResponse[T any] struct {
	Status    int       `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Data      T         `json:"data,omitempty"`
	Meta      any       `json:"meta,omitempty"`
	Error     any       `json:"error,omitempty"`
}

func envelope[T any](ctx *gin.Context, status int, message string) APIResponse[T] {
	return APIResponse[T]{
		Status:    status,
		Timestamp: time.Now().UTC(),
		RequestID: ctx.GetString(RequestIDKey),
		Message:   message,
	}
}

// OK writes a success envelope; status 0 means 200.
func OK[T any](ctx *gin.Context, status int, data T, message string, meta any) {
	if status == 0 {
		status = http.StatusOK
	}
	resp := envelope[T](ctx, status, message)
	resp.Success = true
	resp.Data = data
	resp.Meta = meta
	ctx.JSON(status, resp)
}

func failure(ctx *gin.Context, status int, message string, details any) APIResponse[any] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	resp := envelope[any](ctx, status, message)
	resp.Error = details
	return resp
}

// Fail writes an error envelope; status 0 means 400.
func Fail(ctx *gin.Context, status int, message string, details any) {
	resp := failure(ctx, status, message, details)
	ctx.JSON(resp.Status, resp)
}

// Abort writes an error envelope and stops the handler chain.
func Abort(ctx *gin.Context, status int, message string, details any) {
	resp := failure(ctx, status, message, details)
	ctx.AbortWithStatusJSON(resp.Status, resp)
}
