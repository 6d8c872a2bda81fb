package router

import (
	"github.com/Payphone-Digital/clinic-admin/internal/middleware"
	"github.com/gin-gonic/gin"
)

func (r *Router) authRoutes(version *gin.RouterGroup) {
	auth := version.Group("/auth")
	{
		auth.POST("/super-admin/login", r.handlers.Auth.SuperAdminLogin)
		auth.POST("/login", r.handlers.Auth.Login)

		// password reset by OTP
		auth.POST("/send-otp", r.handlers.Auth.SendOTP)
		auth.POST("/verify-otp", r.handlers.Auth.VerifyOTP)
		auth.POST("/reset-password", r.handlers.Auth.ResetPassword)

		protected := auth.Group("")
		protected.Use(middleware.RequireAuth(r.gate))
		{
			protected.GET("/me", r.handlers.Auth.Me)
		}
	}
}
