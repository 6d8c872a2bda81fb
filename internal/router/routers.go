package router

import (
	"time"

	"github.com/Payphone-Digital/clinic-admin/config"
	"github.com/Payphone-Digital/clinic-admin/internal/handler"
	"github.com/Payphone-Digital/clinic-admin/internal/middleware"
	"github.com/Payphone-Digital/clinic-admin/internal/model"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups everything the routes dispatch to
type Handlers struct {
	Auth          *handler.AuthHandler
	Admins        *handler.AdminHandler
	Doctors       *handler.ProfileHandler[model.DoctorProfile]
	Receptionists *handler.ProfileHandler[model.ReceptionistProfile]
	Staff         *handler.ProfileHandler[model.StaffProfile]
	Salary        *handler.SalaryHandler
	Dashboard     *handler.DashboardHandler
	Health        *handler.HealthHandler
}

type Router struct {
	handlers Handlers
	gate     middleware.Authenticator
	Config   *config.Config
}

func NewRouter(handlers Handlers, gate middleware.Authenticator, config *config.Config) *Router {
	return &Router{
		handlers: handlers,
		gate:     gate,
		Config:   config,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.RequestContext(r.Config.App.Timeout))
	if r.Config.Metrics.Enabled {
		router.Use(middleware.Metrics())
	}
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(r.Config.App.ClientURL))

	if r.Config.Metrics.Enabled {
		router.GET(r.Config.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	api := router.Group("/api")
	{
		api.GET("/health", r.handlers.Health.HealthCheck)
		api.GET("/health/live", r.handlers.Health.BasicHealth)

		v1 := api.Group("/v1")
		{
			v1.Use(middleware.RateLimit(r.Config.RateLimit.Request, time.Duration(r.Config.RateLimit.Duration)*time.Second))

			r.authRoutes(v1)
			r.adminRoutes(v1)
			r.memberRoutes(v1)
			r.salaryRoutes(v1)
			r.dashboardRoutes(v1)
		}
	}

	return router
}
