package middleware

import (
	"context"

	"github.com/Payphone-Digital/clinic-admin/internal/constants"
	apperrors "github.com/Payphone-Digital/clinic-admin/internal/errors"
	"github.com/Payphone-Digital/clinic-admin/internal/service"
	ctxutil "github.com/Payphone-Digital/clinic-admin/pkg/context"
	"github.com/Payphone-Digital/clinic-admin/pkg/logger"
	"github.com/gin-gonic/gin"
)

// Authenticator resolves the Authorization header into a caller
type Authenticator interface {
	Authenticate(ctx context.Context, header string) (*service.Caller, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the caller on the gin context
func RequireAuth(gate Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "middleware", "RequireAuth")

		caller, err := gate.Authenticate(ctx, c.GetHeader(constants.HeaderAuthorization))
		if err != nil {
			logger.WarnWithContext(ctx, "Request rejected by access gate").
				Method(c.Request.Method).
				Path(c.Request.URL.Path).
				String("code", apperrors.GetErrorCode(err)).
				Log()
			abortWithError(c, err)
			return
		}

		c.Set(constants.GinKeyCaller, caller)
		c.Request = c.Request.WithContext(ctxutil.WithUser(c.Request.Context(), caller.ID, caller.Role.String()))

		logger.DebugWithContext(ctx, "Caller authenticated").
			String("user_id", caller.ID).
			String("role", caller.Role.String()).
			Log()

		c.Next()
	}
}

// RequireRoles must run after RequireAuth. Callers outside roles get FORBIDDEN.
func RequireRoles(roles ...constants.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := CallerFrom(c)
		if !ok {
			abortWithError(c, apperrors.ErrUnauthenticated)
			return
		}
		if err := service.Authorize(caller, roles...); err != nil {
			logger.WarnWithContext(c.Request.Context(), "Role not permitted").
				String("user_id", caller.ID).
				String("role", caller.Role.String()).
				Path(c.Request.URL.Path).
				Log()
			abortWithError(c, err)
			return
		}
		c.Next()
	}
}

// CallerFrom returns the caller stored by RequireAuth
func CallerFrom(c *gin.Context) (*service.Caller, bool) {
	v, ok := c.Get(constants.GinKeyCaller)
	if !ok {
		return nil, false
	}
	caller, ok := v.(*service.Caller)
	return caller, ok && caller != nil
}

func abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(apperrors.ToHTTPStatus(err),
		constants.BuildErrorResponse(apperrors.GetErrorCode(err), apperrors.GetErrorMessage(err), nil))
}
