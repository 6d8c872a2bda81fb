package handler

import (
	"context"
	"net/http"

	"github.com/Payphone-Digital/clinic-admin/internal/constants"
	"github.com/Payphone-Digital/clinic-admin/internal/dto"
	"github.com/Payphone-Digital/clinic-admin/internal/model"
	"github.com/Payphone-Digital/clinic-admin/internal/service"
	ctxutil "github.com/Payphone-Digital/clinic-admin/pkg/context"
	"github.com/Payphone-Digital/clinic-admin/pkg/logger"
	"github.com/gin-gonic/gin"
)

type SalaryBook interface {
	AddEntry(ctx context.Context, caller *service.Caller, req dto.AddSalaryEntryRequest) (*model.SalaryEntry, error)
	ReviseBaseSalary(ctx context.Context, caller *service.Caller, req dto.ReviseBaseSalaryRequest) (*model.SalaryEntry, error)
	ComputeNetForPeriod(ctx context.Context, caller *service.Caller, query dto.SalaryQuery) (*dto.SalarySummary, error)
	History(ctx context.Context, caller *service.Caller, userID string, role constants.Role) ([]model.SalaryEntry, error)
	Payslip(ctx context.Context, caller *service.Caller, query dto.SalaryQuery) (*dto.Payslip, error)
}

type SalaryHandler struct {
	ledger SalaryBook
}

func NewSalaryHandler(ledger SalaryBook) *SalaryHandler {
	return &SalaryHandler{ledger: ledger}
}

func (h *SalaryHandler) AddEntry(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "AddSalaryEntry")

	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	var req dto.AddSalaryEntryRequest
	if !bindJSON(c, ctx, &req) {
		return
	}

	entry, err := h.ledger.AddEntry(ctx, caller, req)
	if err != nil {
		respondError(c, ctx, "Add salary entry", err)
		return
	}
	respondData(c, http.StatusCreated, "Salary entry recorded", entry)
}

func (h *SalaryHandler) ReviseBase(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "ReviseBaseSalary")

	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	var req dto.ReviseBaseSalaryRequest
	if !bindJSON(c, ctx, &req) {
		return
	}

	revision, err := h.ledger.ReviseBaseSalary(ctx, caller, req)
	if err != nil {
		respondError(c, ctx, "Revise base salary", err)
		return
	}
	respondData(c, http.StatusOK, "Base salary revised", revision)
}

func (h *SalaryHandler) Summary(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "SalarySummary")

	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	var query dto.SalaryQuery
	if !bindQuery(c, ctx, &query) {
		return
	}

	summary, err := h.ledger.ComputeNetForPeriod(ctx, caller, query)
	if err != nil {
		respondError(c, ctx, "Compute salary", err)
		return
	}
	respondData(c, http.StatusOK, "", summary)
}

func (h *SalaryHandler) History(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "SalaryHistory")

	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	entries, err := h.ledger.History(ctx, caller, c.Param("userId"), constants.Role(c.Param("userRole")))
	if err != nil {
		respondError(c, ctx, "Salary history", err)
		return
	}
	respondData(c, http.StatusOK, "", dto.SalaryHistory{Count: len(entries), Entries: entries})
}

// Payslip returns the payslip as JSON, or as an XLSX attachment when format=xlsx
func (h *SalaryHandler) Payslip(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Payslip")

	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	var query dto.SalaryQuery
	if !bindQuery(c, ctx, &query) {
		return
	}

	slip, err := h.ledger.Payslip(ctx, caller, query)
	if err != nil {
		respondError(c, ctx, "Payslip", err)
		return
	}

	if c.Query("format") != "xlsx" {
		respondData(c, http.StatusOK, "", slip)
		return
	}

	buf, err := service.RenderPayslip(slip)
	if err != nil {
		respondError(c, ctx, "Render payslip", err)
		return
	}

	name := service.PayslipFileName(slip)
	logger.InfoWithContext(ctx, "Payslip rendered").
		String("user_id", slip.UserID).
		String("file", name).
		Int("bytes", buf.Len()).
		Log()

	c.Header(constants.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, constants.ContentTypeXLSX, buf.Bytes())
}
