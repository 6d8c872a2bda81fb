package router

import (
	"github.com/Payphone-Digital/clinic-admin/internal/constants"
	"github.com/Payphone-Digital/clinic-admin/internal/middleware"
	"github.com/gin-gonic/gin"
)

// memberHandler is the route surface shared by every member profile kind
type memberHandler interface {
	Create(c *gin.Context)
	List(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	SetPassword(c *gin.Context)
	SetStatus(c *gin.Context)
}

func (r *Router) memberRoutes(version *gin.RouterGroup) {
	r.memberGroup(version, "/doctors", r.handlers.Doctors)
	r.memberGroup(version, "/receptionists", r.handlers.Receptionists)
	r.memberGroup(version, "/staff", r.handlers.Staff)
}

// memberGroup registers one kind. Read and self-edit rules differ per kind and are
// enforced by the profile service.
func (r *Router) memberGroup(version *gin.RouterGroup, path string, h memberHandler) {
	group := version.Group(path)
	group.Use(middleware.RequireAuth(r.gate))
	{
		adminOnly := middleware.RequireRoles(constants.RoleAdmin)

		group.POST("", adminOnly, h.Create)
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.PUT("/:id", h.Update)
		group.PUT("/:id/password", adminOnly, h.SetPassword)
		group.PUT("/:id/status", adminOnly, h.SetStatus)
	}
}
