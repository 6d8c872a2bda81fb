package handler

import (
	"context"
	"net/http"

	"github.com/Payphone-Digital/clinic-admin/internal/dto"
	"github.com/Payphone-Digital/clinic-admin/internal/service"
	ctxutil "github.com/Payphone-Digital/clinic-admin/pkg/context"
	"github.com/gin-gonic/gin"
)

type Dashboards interface {
	SuperAdminSummary(ctx context.Context, caller *service.Caller) (*dto.SuperAdminSummary, error)
	AdminStatistics(ctx context.Context, caller *service.Caller) (*dto.AdminStatistics, error)
	AdminDashboard(ctx context.Context, caller *service.Caller) (*dto.AdminDashboard, error)
}

type DashboardHandler struct {
	dashboards Dashboards
}

func NewDashboardHandler(dashboards Dashboards) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards}
}

func (h *DashboardHandler) SuperAdminSummary(c *gin.Context) {
	serveDashboard(c, "SuperAdminSummary", h.dashboards.SuperAdminSummary)
}

func (h *DashboardHandler) AdminStatistics(c *gin.Context) {
	serveDashboard(c, "AdminStatistics", h.dashboards.AdminStatistics)
}

func (h *DashboardHandler) AdminDashboard(c *gin.Context) {
	serveDashboard(c, "AdminDashboard", h.dashboards.AdminDashboard)
}

func serveDashboard[R any](c *gin.Context, function string, load func(context.Context, *service.Caller) (*R, error)) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", function)

	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	res, err := load(ctx, caller)
	if err != nil {
		respondError(c, ctx, function, err)
		return
	}
	respondData(c, http.StatusOK, "", res)
}
