package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	configs "github.com/Payphone-Digital/clinic-admin/config"
	"github.com/Payphone-Digital/clinic-admin/internal/constants"
	"github.com/Payphone-Digital/clinic-admin/internal/handler"
	"github.com/Payphone-Digital/clinic-admin/internal/model"
	"github.com/Payphone-Digital/clinic-admin/internal/repository"
	"github.com/Payphone-Digital/clinic-admin/internal/router"
	"github.com/Payphone-Digital/clinic-admin/internal/service"
	"github.com/Payphone-Digital/clinic-admin/pkg/cache"
	"github.com/Payphone-Digital/clinic-admin/pkg/circuit"
	"github.com/Payphone-Digital/clinic-admin/pkg/database"
	"github.com/Payphone-Digital/clinic-admin/pkg/health"
	"github.com/Payphone-Digital/clinic-admin/pkg/logger"
	"github.com/Payphone-Digital/clinic-admin/pkg/redis"
	"github.com/Payphone-Digital/clinic-admin/pkg/validation"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config, err := configs.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	if err := logger.InitLogger(config); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	logger.GetLogger().Info("Application starting",
		zap.String("app_name", config.App.Name),
		zap.String("environment", config.App.Environment),
		zap.String("version", constants.AppVersion),
	)

	if config.SuperAdmin.Password == "" {
		logger.GetLogger().Warn("SUPER_ADMIN_PASSWORD is empty, super admin login is disabled")
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := validation.Register(); err != nil {
		logger.GetLogger().Fatal("Failed to register validators", zap.Error(err))
	}

	db, err := database.NewPostgresDB(config)
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	if config.Database.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			logger.GetLogger().Fatal("Failed to run database migrations", zap.Error(err))
		}
	}

	if config.App.SeedDemo {
		if err := database.Seed(db, config.Security.BcryptCost); err != nil {
			logger.GetLogger().Error("Failed to seed database", zap.Error(err))
		}
	}

	redisClient, err := redis.NewClient(config)
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	// the OTP throttle counts in redis when available, otherwise in process
	var counter service.Counter = redisClient
	if !redisClient.IsEnabled() {
		local := cache.NewCounter(time.Minute)
		defer local.Stop()
		counter = local
	}

	// Repositories
	accountRepo := repository.NewAccountRepository(db)
	doctorRepo := repository.NewProfileRepository[model.DoctorProfile, *model.DoctorProfile](db)
	receptionistRepo := repository.NewProfileRepository[model.ReceptionistProfile, *model.ReceptionistProfile](db)
	staffRepo := repository.NewProfileRepository[model.StaffProfile, *model.StaffProfile](db)
	salaryRepo := repository.NewSalaryRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)

	// Notifications
	breakers := circuit.NewRegistry(circuit.DefaultConfig(), logger.GetLogger())
	var email service.EmailProvider = service.LogEmailProvider{}
	if config.SMTP.Enabled {
		email = service.NewSMTPEmailProvider(config.SMTP)
	}
	notifier := service.NewNotificationService(email, service.LogSMSProvider{}, breakers, config.OTP.CodeTTL)

	// Services
	hasher := service.NewPasswordHasher(config.Security.BcryptCost)
	tokens := service.NewTokenIssuer(config.JWT.Secret, config.JWT.Issuer)
	gate := service.NewAccessGate(tokens, accountRepo, config.SuperAdmin)
	throttle := service.NewWindowThrottle(counter, constants.CacheKeyOTPThrottle, config.OTP.SendLimit, config.OTP.SendWindow)

	authService := service.NewAuthService(accountRepo, hasher, tokens, config)
	resetService := service.NewResetService(accountRepo, hasher, notifier, throttle, config.OTP)
	adminService := service.NewAdminService(accountRepo, hasher, notifier, config)
	doctorService := service.NewProfileService[model.DoctorProfile, *model.DoctorProfile](service.DoctorKind, doctorRepo, accountRepo, hasher, notifier, config)
	receptionistService := service.NewProfileService[model.ReceptionistProfile, *model.ReceptionistProfile](service.ReceptionistKind, receptionistRepo, accountRepo, hasher, notifier, config)
	staffService := service.NewProfileService[model.StaffProfile, *model.StaffProfile](service.StaffKind, staffRepo, accountRepo, hasher, notifier, config)
	salaryLedger := service.NewSalaryLedger(salaryRepo, accountRepo, config.Salary.BasePolicy)
	dashboardService := service.NewDashboardService(dashboardRepo, accountRepo, config.Subscription.ExpiringWindow)

	// Health
	monitor := health.NewMonitor(time.Minute, logger.GetLogger())
	if sqlDB, err := db.DB(); err == nil {
		monitor.Register("postgres", &health.SQLChecker{DB: sqlDB}, true)
	}
	monitor.Register("redis", &health.PingChecker{Target: redisClient}, false)
	monitor.Register("notifications", &health.BreakerChecker{Breakers: breakers}, false)
	monitor.Start()
	defer monitor.Stop()

	r := router.NewRouter(router.Handlers{
		Auth:          handler.NewAuthHandler(authService, resetService),
		Admins:        handler.NewAdminHandler(adminService),
		Doctors:       handler.NewProfileHandler[model.DoctorProfile](doctorService),
		Receptionists: handler.NewProfileHandler[model.ReceptionistProfile](receptionistService),
		Staff:         handler.NewProfileHandler[model.StaffProfile](staffService),
		Salary:        handler.NewSalaryHandler(salaryLedger),
		Dashboard:     handler.NewDashboardHandler(dashboardService),
		Health:        handler.NewHealthHandler(monitor, constants.AppVersion),
	}, gate, config).SetupRoutes()

	server := &http.Server{
		Addr:              ":" + config.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.GetLogger().Info("Server starting",
			zap.String("port", config.App.Port),
			zap.String("host", "0.0.0.0"),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.GetLogger().Fatal("Failed to start server",
				zap.Error(err),
				zap.String("port", config.App.Port),
			)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.GetLogger().Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.GetLogger().Error("Server forced to shutdown", zap.Error(err))
	}
}
