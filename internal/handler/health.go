package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Payphone-Digital/clinic-admin/internal/constants"
	apperrors "github.com/Payphone-Digital/clinic-admin/internal/errors"
	ctxutil "github.com/Payphone-Digital/clinic-admin/pkg/context"
	"github.com/Payphone-Digital/clinic-admin/pkg/health"
	"github.com/Payphone-Digital/clinic-admin/pkg/logger"
	"github.com/gin-gonic/gin"
)

// HealthReporter runs the registered dependency checks
type HealthReporter interface {
	Check(ctx context.Context) health.Report
}

type HealthHandler struct {
	reporter HealthReporter
	version  string
	timeout  time.Duration
}

func NewHealthHandler(reporter HealthReporter, version string) *HealthHandler {
	return &HealthHandler{reporter: reporter, version: version, timeout: 5 * time.Second}
}

type healthResponse struct {
	health.Report
	Version string `json:"version"`
}

// HealthCheck reports 200 while postgres answers. An unavailable optional
// dependency shows as degraded without failing the probe.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "HealthCheck")
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	report := h.reporter.Check(ctx)
	body := healthResponse{Report: report, Version: h.version}

	logger.DebugWithContext(ctx, "Health check performed").
		String("overall_status", report.Status.String()).
		Log()

	if !report.Healthy() {
		err := apperrors.ErrServiceUnavailable
		c.JSON(http.StatusServiceUnavailable, constants.BuildErrorResponse(err.Code, err.Message, body))
		return
	}
	respondData(c, http.StatusOK, "", body)
}

// BasicHealth answers load balancer probes without touching dependencies
func (h *HealthHandler) BasicHealth(c *gin.Context) {
	respondData(c, http.StatusOK, "", gin.H{
		"status":    "alive",
		"version":   h.version,
		"timestamp": time.Now(),
	})
}
