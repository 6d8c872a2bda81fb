package router

import (
	"github.com/Payphone-Digital/clinic-admin/internal/constants"
	"github.com/Payphone-Digital/clinic-admin/internal/middleware"
	"github.com/gin-gonic/gin"
)

func (r *Router) salaryRoutes(version *gin.RouterGroup) {
	salary := version.Group("/salary")
	salary.Use(middleware.RequireAuth(r.gate))
	{
		adminOnly := middleware.RequireRoles(constants.RoleAdmin)

		salary.POST("/entries", adminOnly, r.handlers.Salary.AddEntry)
		salary.PUT("/base", adminOnly, r.handlers.Salary.ReviseBase)

		// owners read their own ledger
		salary.GET("/history/:userId/:userRole", r.handlers.Salary.History)
		salary.GET("/summary", r.handlers.Salary.Summary)
		salary.GET("/payslip", r.handlers.Salary.Payslip)
	}
}

func (r *Router) dashboardRoutes(version *gin.RouterGroup) {
	dashboard := version.Group("/dashboard")
	dashboard.Use(middleware.RequireAuth(r.gate))
	{
		superAdmin := middleware.RequireRoles(constants.RoleSuperAdmin)

		dashboard.GET("/super-admin", superAdmin, r.handlers.Dashboard.SuperAdminSummary)
		dashboard.GET("/statistics", superAdmin, r.handlers.Dashboard.AdminStatistics)
		dashboard.GET("/admin", middleware.RequireRoles(constants.RoleAdmin), r.handlers.Dashboard.AdminDashboard)
	}
}
