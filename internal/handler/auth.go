package handler

import (
	"context"
	"net/http"

	"github.com/Payphone-Digital/clinic-admin/internal/dto"
	"github.com/Payphone-Digital/clinic-admin/internal/service"
	ctxutil "github.com/Payphone-Digital/clinic-admin/pkg/context"
	"github.com/Payphone-Digital/clinic-admin/pkg/logger"
	"github.com/gin-gonic/gin"
)

type SessionService interface {
	SuperAdminLogin(ctx context.Context, req dto.SuperAdminLoginRequest) (*dto.LoginResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Me(ctx context.Context, caller *service.Caller) (*dto.AccountResponse, error)
}

type PasswordResetService interface {
	SendOTP(ctx context.Context, identifier string) (*dto.SendOTPResponse, error)
	VerifyOTP(ctx context.Context, identifier, code string) (*dto.VerifyOTPResponse, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type AuthHandler struct {
	sessions SessionService
	reset    PasswordResetService
}

func NewAuthHandler(sessions SessionService, reset PasswordResetService) *AuthHandler {
	return &AuthHandler{sessions: sessions, reset: reset}
}

func (h *AuthHandler) SuperAdminLogin(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "SuperAdminLogin")

	var req dto.SuperAdminLoginRequest
	if !bindJSON(c, ctx, &req) {
		return
	}

	res, err := h.sessions.SuperAdminLogin(ctx, req)
	if err != nil {
		respondError(c, ctx, "Super admin login", err)
		return
	}
	respondData(c, http.StatusOK, "Login successful", res)
}

func (h *AuthHandler) Login(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Login")

	var req dto.LoginRequest
	if !bindJSON(c, ctx, &req) {
		return
	}

	logger.InfoWithContext(ctx, "Login attempt").
		String("email", req.Email).
		Log()

	res, err := h.sessions.Login(ctx, req)
	if err != nil {
		respondError(c, ctx, "Login", err)
		return
	}

	logger.InfoWithContext(ctx, "Login successful").
		String("user_id", res.User.ID).
		String("role", res.User.Role.String()).
		Log()
	respondData(c, http.StatusOK, "Login successful", res)
}

func (h *AuthHandler) Me(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Me")

	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	res, err := h.sessions.Me(ctx, caller)
	if err != nil {
		respondError(c, ctx, "Load current account", err)
		return
	}
	respondData(c, http.StatusOK, "", res)
}

func (h *AuthHandler) SendOTP(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "SendOTP")

	var req dto.SendOTPRequest
	if !bindJSON(c, ctx, &req) {
		return
	}
	res, err := h.reset.SendOTP(ctx, req.Identifier)
	if err != nil {
		respondError(c, ctx, "Send OTP", err)
		return
	}
	respondData(c, http.StatusOK, "OTP sent", res)
}

func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "VerifyOTP")

	var req dto.VerifyOTPRequest
	if !bindJSON(c, ctx, &req) {
		return
	}
	res, err := h.reset.VerifyOTP(ctx, req.Identifier, req.OTP)
	if err != nil {
		respondError(c, ctx, "Verify OTP", err)
		return
	}
	respondData(c, http.StatusOK, "OTP verified", res)
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "ResetPassword")

	var req dto.ResetPasswordRequest
	if !bindJSON(c, ctx, &req) {
		return
	}
	if err := h.reset.ResetPassword(ctx, req.ResetToken, req.NewPassword); err != nil {
		respondError(c, ctx, "Reset password", err)
		return
	}
	respondData(c, http.StatusOK, "Password has been reset", nil)
}
