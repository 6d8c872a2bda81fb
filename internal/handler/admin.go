package handler

import (
	"context"
	"net/http"

	"github.com/Payphone-Digital/clinic-admin/internal/constants"
	"github.com/Payphone-Digital/clinic-admin/internal/dto"
	"github.com/Payphone-Digital/clinic-admin/internal/service"
	ctxutil "github.com/Payphone-Digital/clinic-admin/pkg/context"
	"github.com/Payphone-Digital/clinic-admin/pkg/logger"
	"github.com/gin-gonic/gin"
)

type AdminManager interface {
	CreateAdmin(ctx context.Context, caller *service.Caller, req dto.CreateAdminRequest) (*dto.CreateAdminResponse, error)
	ListAdmins(ctx context.Context, caller *service.Caller, filter dto.AdminFilter) (*dto.AdminListResponse, error)
	GetAdmin(ctx context.Context, caller *service.Caller, id string) (*dto.AdminResponse, error)
	UpdateAdmin(ctx context.Context, caller *service.Caller, id string, req dto.UpdateAdminRequest) (*dto.AdminResponse, error)
	SetAdminPassword(ctx context.Context, caller *service.Caller, id, newPassword string) error
	SetAdminStatus(ctx context.Context, caller *service.Caller, id string, active bool) error
}

// AdminHandler serves clinic (ADMIN) account management for the super admin
type AdminHandler struct {
	admins AdminManager
}

func NewAdminHandler(admins AdminManager) *AdminHandler {
	return &AdminHandler{admins: admins}
}

func (h *AdminHandler) Create(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "CreateAdmin")

	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	var req dto.CreateAdminRequest
	if !bindJSON(c, ctx, &req) {
		return
	}

	res, err := h.admins.CreateAdmin(ctx, caller, req)
	if err != nil {
		respondError(c, ctx, "Create admin", err)
		return
	}

	logger.InfoWithContext(ctx, "Admin created").
		String("admin_id", res.Admin.ID).
		String("clinic_name", res.Admin.ClinicName).
		Log()
	respondData(c, http.StatusCreated, constants.MsgCreated, res)
}

func (h *AdminHandler) List(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "ListAdmins")

	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	p := constants.ParsePaginationParams(c)
	filter := dto.AdminFilter{
		Status:       p.Status,
		Subscription: c.Query("subscription"),
		Search:       p.Search,
		SortBy:       c.DefaultQuery(constants.QueryParamSort, "created_at"),
		SortOrder:    c.DefaultQuery(constants.QueryParamOrder, constants.OrderDesc),
		Page:         p.Page,
		Limit:        p.Limit,
		Offset:       p.Offset,
	}

	res, err := h.admins.ListAdmins(ctx, caller, filter)
	if err != nil {
		respondError(c, ctx, "List admins", err)
		return
	}

	logger.DebugWithContext(ctx, "Admins listed").
		Int64("total", res.Total).
		Int("returned_count", len(res.Admins)).
		Log()
	c.JSON(http.StatusOK, constants.BuildListResponse(res.Total, res.Page, res.Limit, res.Admins))
}

func (h *AdminHandler) Get(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "GetAdmin")

	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	res, err := h.admins.GetAdmin(ctx, caller, id)
	if err != nil {
		respondError(c, ctx, "Get admin", err)
		return
	}
	respondData(c, http.StatusOK, "", res)
}

func (h *AdminHandler) Update(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "UpdateAdmin")

	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateAdminRequest
	if !bindJSON(c, ctx, &req) {
		return
	}

	res, err := h.admins.UpdateAdmin(ctx, caller, id, req)
	if err != nil {
		respondError(c, ctx, "Update admin", err)
		return
	}
	respondData(c, http.StatusOK, constants.MsgUpdated, res)
}

func (h *AdminHandler) SetPassword(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "SetAdminPassword")

	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.SetPasswordRequest
	if !bindJSON(c, ctx, &req) {
		return
	}

	if err := h.admins.SetAdminPassword(ctx, caller, id, req.NewPassword); err != nil {
		respondError(c, ctx, "Set admin password", err)
		return
	}
	respondData(c, http.StatusOK, "Password updated", nil)
}

func (h *AdminHandler) SetStatus(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "SetAdminStatus")

	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.SetStatusRequest
	if !bindJSON(c, ctx, &req) {
		return
	}

	if err := h.admins.SetAdminStatus(ctx, caller, id, *req.IsActive); err != nil {
		respondError(c, ctx, "Set admin status", err)
		return
	}
	respondData(c, http.StatusOK, "Status updated", gin.H{"id": id, "is_active": *req.IsActive})
}
