package handler

import (
	"context"
	"net/http"

	"github.com/Payphone-Digital/clinic-admin/internal/constants"
	apperrors "github.com/Payphone-Digital/clinic-admin/internal/errors"
	"github.com/Payphone-Digital/clinic-admin/internal/service"
	"github.com/Payphone-Digital/clinic-admin/pkg/logger"
	"github.com/Payphone-Digital/clinic-admin/pkg/validation"
	"github.com/gin-gonic/gin"
)

// respondError writes the failure envelope for err. Internal errors are logged
// with their cause and shown to the client as the generic message.
func respondError(c *gin.Context, ctx context.Context, action string, err error) {
	status := apperrors.ToHTTPStatus(err)
	code := apperrors.GetErrorCode(err)

	entry := logger.WarnWithContext(ctx, action+" failed")
	if status >= http.StatusInternalServerError {
		entry = logger.ErrorWithContext(ctx, action+" failed")
	}
	entry.String("code", code).
		Int("http_status", status).
		Err(err).
		Log()

	c.JSON(status, constants.BuildErrorResponse(code, apperrors.GetErrorMessage(err), nil))
}

// bindJSON decodes the body into dst. Validation failures become INVALID_INPUT with one
// message per field; malformed bodies become INVALID_INPUT without details.
func bindJSON(c *gin.Context, ctx context.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}
	rejectBinding(c, ctx, err)
	return false
}

func bindQuery(c *gin.Context, ctx context.Context, dst any) bool {
	err := c.ShouldBindQuery(dst)
	if err == nil {
		return true
	}
	rejectBinding(c, ctx, err)
	return false
}

func rejectBinding(c *gin.Context, ctx context.Context, err error) {
	details, ok := validation.Messages(err)
	message := apperrors.ErrInvalidInput.Message
	if !ok {
		message = constants.MsgBadRequest
	}

	logger.WarnWithContext(ctx, "Request rejected by validation").
		Any("details", details).
		Err(err).
		Log()

	var payload any
	if len(details) > 0 {
		payload = details
	}
	c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(apperrors.CodeInvalidInput, message, payload))
}

// callerFrom returns the caller placed on the context by the auth middleware, writing
// UNAUTHENTICATED when the route was not protected.
func callerFrom(c *gin.Context) (*service.Caller, bool) {
	if v, ok := c.Get(constants.GinKeyCaller); ok {
		if caller, ok := v.(*service.Caller); ok && caller != nil {
			return caller, true
		}
	}
	err := apperrors.ErrUnauthenticated
	c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse(err.Code, err.Message, nil))
	return nil, false
}

func respondData(c *gin.Context, status int, message string, data any) {
	c.JSON(status, constants.BuildDataResponse(message, data))
}

// pathID returns the :id parameter, rejecting an empty one
func pathID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(apperrors.CodeInvalidInput, "id is required", nil))
		return "", false
	}
	return id, true
}
