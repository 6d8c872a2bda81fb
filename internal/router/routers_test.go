package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/Payphone-Digital/clinic-admin/config"
	"github.com/Payphone-Digital/clinic-admin/internal/constants"
	apperrors "github.com/Payphone-Digital/clinic-admin/internal/errors"
	"github.com/Payphone-Digital/clinic-admin/internal/handler"
	"github.com/Payphone-Digital/clinic-admin/internal/model"
	"github.com/Payphone-Digital/clinic-admin/internal/service"
	"github.com/Payphone-Digital/clinic-admin/pkg/health"
	"github.com/Payphone-Digital/clinic-admin/pkg/validation"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := validation.Register(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// tokenGate accepts "Bearer <role>" and answers with a caller of that role
type tokenGate struct{}

func (tokenGate) Authenticate(ctx context.Context, header string) (*service.Caller, error) {
	role, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || role == "" {
		return nil, apperrors.ErrUnauthenticated
	}
	return &service.Caller{ID: "caller-1", Role: constants.Role(role), IsActive: true}, nil
}

type upReporter struct{}

func (upReporter) Check(ctx context.Context) health.Report {
	return health.Report{Status: health.StatusHealthy, Timestamp: time.Now()}
}

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()

	cfg := &config.Config{
		App:       config.AppConfig{Timeout: 5 * time.Second, ClientURL: "http://localhost:3000"},
		RateLimit: config.RateLimitConfig{Request: 1000, Duration: 60},
		Metrics:   config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}

	// requests in these tests never get past the middleware, so the services have no stores
	doctors := service.NewProfileService[model.DoctorProfile, *model.DoctorProfile](service.DoctorKind, nil, nil, nil, nil, cfg)
	receptionists := service.NewProfileService[model.ReceptionistProfile, *model.ReceptionistProfile](service.ReceptionistKind, nil, nil, nil, nil, cfg)
	staff := service.NewProfileService[model.StaffProfile, *model.StaffProfile](service.StaffKind, nil, nil, nil, nil, cfg)

	return NewRouter(Handlers{
		Auth:          handler.NewAuthHandler(service.NewAuthService(nil, nil, nil, cfg), service.NewResetService(nil, nil, nil, nil, cfg.OTP)),
		Admins:        handler.NewAdminHandler(service.NewAdminService(nil, nil, nil, cfg)),
		Doctors:       handler.NewProfileHandler[model.DoctorProfile](doctors),
		Receptionists: handler.NewProfileHandler[model.ReceptionistProfile](receptionists),
		Staff:         handler.NewProfileHandler[model.StaffProfile](staff),
		Salary:        handler.NewSalaryHandler(service.NewSalaryLedger(nil, nil, constants.SalaryPolicyCurrent)),
		Dashboard:     handler.NewDashboardHandler(service.NewDashboardService(nil, nil, time.Hour)),
		Health:        handler.NewHealthHandler(upReporter{}, "test"),
	}, tokenGate{}, cfg).SetupRoutes()
}

func TestRoutes_Guards(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name       string
		method     string
		path       string
		role       string
		wantStatus int
	}{
		{"health", http.MethodGet, "/api/health", "", http.StatusOK},
		{"liveness", http.MethodGet, "/api/health/live", "", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", "", http.StatusOK},
		{"admins without token", http.MethodGet, "/api/v1/admins", "", http.StatusUnauthorized},
		{"me without token", http.MethodGet, "/api/v1/auth/me", "", http.StatusUnauthorized},
		{"admin list by admin", http.MethodGet, "/api/v1/admins", "ADMIN", http.StatusForbidden},
		{"create admin by doctor", http.MethodPost, "/api/v1/admins", "DOCTOR", http.StatusForbidden},
		{"create doctor by receptionist", http.MethodPost, "/api/v1/doctors", "RECEPTIONIST", http.StatusForbidden},
		{"staff status by staff", http.MethodPut, "/api/v1/staff/s-1/status", "STAFF", http.StatusForbidden},
		{"salary entry by doctor", http.MethodPost, "/api/v1/salary/entries", "DOCTOR", http.StatusForbidden},
		{"admin dashboard by super admin", http.MethodGet, "/api/v1/dashboard/admin", "SUPER_ADMIN", http.StatusForbidden},
		{"statistics by admin", http.MethodGet, "/api/v1/dashboard/statistics", "ADMIN", http.StatusForbidden},
		{"unknown route", http.MethodGet, "/api/v1/patients", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader("{}"))
			req.Header.Set("Content-Type", "application/json")
			if tt.role != "" {
				req.Header.Set(constants.HeaderAuthorization, "Bearer "+tt.role)
			}
			w := httptest.NewRecorder()

			engine.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}
}

func TestRoutes_PublicAuthEndpointsValidate(t *testing.T) {
	engine := newTestEngine(t)

	for _, path := range []string{"/api/v1/auth/login", "/api/v1/auth/send-otp", "/api/v1/auth/verify-otp", "/api/v1/auth/reset-password"} {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader("{}"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}
