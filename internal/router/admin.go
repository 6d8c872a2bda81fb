package router

import (
	"github.com/Payphone-Digital/clinic-admin/internal/constants"
	"github.com/Payphone-Digital/clinic-admin/internal/middleware"
	"github.com/gin-gonic/gin"
)

func (r *Router) adminRoutes(version *gin.RouterGroup) {
	admins := version.Group("/admins")
	admins.Use(middleware.RequireAuth(r.gate))
	{
		superAdmin := middleware.RequireRoles(constants.RoleSuperAdmin)

		admins.POST("", superAdmin, r.handlers.Admins.Create)
		admins.GET("", superAdmin, r.handlers.Admins.List)
		admins.PUT("/:id", superAdmin, r.handlers.Admins.Update)
		admins.PUT("/:id/password", superAdmin, r.handlers.Admins.SetPassword)

		// an admin may read its own record
		admins.GET("/:id", r.handlers.Admins.Get)
		// the self check answers before the role check
		admins.PUT("/:id/status", r.handlers.Admins.SetStatus)
	}
}
