// Package middleware provides HTTP middleware components.
package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"parcelhub/internal/core/apperror"
	appctx "parcelhub/internal/core/context"
	"parcelhub/pkg/logger"
)

// Recovery turns panics into a generic 500. It sits outside ErrorHandler,
// so it writes the response itself. The stack goes to the log only.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			ctx := c.Request.Context()
			logger.Error(ctx, "panic recovered", "error", rec, "stack", string(debug.Stack()))

			appErr := apperror.NewInternal(fmt.Errorf("panic: %v", rec)).
				WithDetail("request_id", appctx.GetRequestID(ctx))
			_ = c.Error(appErr)
			c.AbortWithStatusJSON(appErr.HTTPStatus, ErrorResponse{
				Code:    appErr.Code,
				Message: appErr.Message,
				Details: appErr.Details,
			})
		}()
		c.Next()
	}
}
