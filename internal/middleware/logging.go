package middleware

import (
	"time"

	"github.com/Payphone-Digital/clinic-admin/internal/constants"
	apperrors "github.com/Payphone-Digital/clinic-admin/internal/errors"
	ctxutil "github.com/Payphone-Digital/clinic-admin/pkg/context"
	"github.com/Payphone-Digital/clinic-admin/pkg/logger"
	"github.com/gin-gonic/gin"
)

const slowRequestThreshold = 2 * time.Second

// RequestLogger writes one structured line per request once the handler chain returns.
// The level follows the status: 5xx error, 4xx and slow requests warn, the rest info.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		ctx := ctxutil.WithFunction(c.Request.Context(), "http", "RequestLogger")
		latency := time.Since(start)
		status := c.Writer.Status()

		var entry *logger.ContextLogBuilder
		switch {
		case status >= 500:
			entry = logger.ErrorWithContext(ctx, "Server error")
		case status >= 400:
			entry = logger.WarnWithContext(ctx, "Client error")
		case latency > slowRequestThreshold:
			entry = logger.WarnWithContext(ctx, "Slow request")
		default:
			entry = logger.InfoWithContext(ctx, "Request completed")
		}

		entry.Method(c.Request.Method).
			Path(c.Request.URL.Path).
			String("route", c.FullPath()).
			String("query", c.Request.URL.RawQuery).
			StatusCode(status).
			Int("response_size", c.Writer.Size()).
			Duration(latency)
		if len(c.Errors) > 0 {
			entry.String("errors", c.Errors.String())
		}
		entry.Log()
	}
}

// Recovery turns a panic into the INTERNAL_ERROR envelope
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.LogPanic(recovered)
		c.AbortWithStatusJSON(apperrors.ToHTTPStatus(apperrors.ErrInternal),
			constants.BuildErrorResponse(apperrors.CodeInternal, constants.MsgInternalError, nil))
	})
}
