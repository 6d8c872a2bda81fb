package service

import (
	"context"
	"strings"
	"time"

	"github.com/Payphone-Digital/clinic-admin/internal/constants"
	"github.com/Payphone-Digital/clinic-admin/internal/dto"
	apperrors "github.com/Payphone-Digital/clinic-admin/internal/errors"
	"github.com/Payphone-Digital/clinic-admin/internal/metrics"
	"github.com/Payphone-Digital/clinic-admin/internal/model"
	ctxutil "github.com/Payphone-Digital/clinic-admin/pkg/context"
	"github.com/Payphone-Digital/clinic-admin/pkg/logger"
)

type SalaryStore interface {
	CreateEntry(ctx context.Context, entry *model.SalaryEntry) error
	ReviseBase(ctx context.Context, revision *model.SalaryEntry) error
	BaseSalary(ctx context.Context, userID string, role constants.Role) (float64, bool, error)
	Entries(ctx context.Context, userID string, role constants.Role, period model.Period) ([]model.SalaryEntry, error)
	History(ctx context.Context, userID string, role constants.Role) ([]model.SalaryEntry, error)
	LatestRevision(ctx context.Context, userID string, role constants.Role, period model.Period) (*model.SalaryEntry, error)
}

// SalaryLedger keeps the append-only adjustment log and derives net pay from it
type SalaryLedger struct {
	store      SalaryStore
	accounts   AccountLookup
	basePolicy string
	now        func() time.Time
}

func NewSalaryLedger(store SalaryStore, accounts AccountLookup, basePolicy string) *SalaryLedger {
	if basePolicy != constants.SalaryPolicyPeriod {
		basePolicy = constants.SalaryPolicyCurrent
	}
	return &SalaryLedger{
		store:      store,
		accounts:   accounts,
		basePolicy: basePolicy,
		now:        time.Now,
	}
}

// AddEntry appends a BONUS, PENALTY or REVISION row. The profile's base salary is left alone.
func (l *SalaryLedger) AddEntry(ctx context.Context, caller *Caller, req dto.AddSalaryEntryRequest) (*model.SalaryEntry, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "AddEntry")

	if err := Authorize(caller, constants.RoleAdmin); err != nil {
		return nil, err
	}
	if err := validateEntry(req.UserID, req.UserRole, req.Month, req.Year); err != nil {
		return nil, err
	}
	if !req.Type.IsValid() {
		return nil, apperrors.InvalidInput("type must be BONUS, PENALTY or REVISION")
	}
	if req.Amount <= 0 {
		return nil, apperrors.InvalidInput("amount must be greater than zero")
	}

	entry := &model.SalaryEntry{
		UserID:   req.UserID,
		UserRole: req.UserRole,
		Type:     req.Type,
		Amount:   req.Amount,
		Reason:   strings.TrimSpace(req.Reason),
		Month:    req.Month,
		Year:     req.Year,
	}
	if err := l.store.CreateEntry(ctx, entry); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	metrics.SalaryEntries.WithLabelValues(string(entry.Type)).Inc()
	logger.InfoWithContext(ctx, "Salary entry added").
		String("entry_id", entry.ID).
		String("user_id", entry.UserID).
		String("type", string(entry.Type)).
		Float64("amount", entry.Amount).
		Log()
	return entry, nil
}

// ReviseBaseSalary sets a new base salary and records the REVISION entry atomically
func (l *SalaryLedger) ReviseBaseSalary(ctx context.Context, caller *Caller, req dto.ReviseBaseSalaryRequest) (*model.SalaryEntry, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "ReviseBaseSalary")

	if err := Authorize(caller, constants.RoleAdmin); err != nil {
		return nil, err
	}
	if err := validateEntry(req.UserID, req.UserRole, req.Month, req.Year); err != nil {
		return nil, err
	}
	if req.NewSalary <= 0 {
		return nil, apperrors.InvalidInput("new salary must be greater than zero")
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = constants.DefaultRevisionReason
	}
	revision := &model.SalaryEntry{
		UserID:   req.UserID,
		UserRole: req.UserRole,
		Type:     constants.SalaryRevision,
		Amount:   req.NewSalary,
		Reason:   reason,
		Month:    req.Month,
		Year:     req.Year,
	}
	if err := l.store.ReviseBase(ctx, revision); err != nil {
		return nil, storeError(err, apperrors.ErrProfileNotFound, apperrors.ErrDuplicate)
	}

	metrics.SalaryEntries.WithLabelValues(string(constants.SalaryRevision)).Inc()
	logger.InfoWithContext(ctx, "Base salary revised").
		String("user_id", revision.UserID).
		String("user_role", revision.UserRole.String()).
		Float64("new_salary", revision.Amount).
		Log()
	return revision, nil
}

// ComputeNetForPeriod returns base + bonus - penalty for the period. Net may be negative.
func (l *SalaryLedger) ComputeNetForPeriod(ctx context.Context, caller *Caller, query dto.SalaryQuery) (*dto.SalarySummary, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "ComputeNetForPeriod")

	if err := authorizeLedgerRead(caller, query.UserID, query.UserRole); err != nil {
		return nil, err
	}
	if query.Year <= 0 {
		return nil, apperrors.InvalidInput("year is required")
	}
	if query.Month < 0 || query.Month > 12 {
		return nil, apperrors.InvalidInput("month must be between 1 and 12")
	}
	return l.summarize(ctx, query)
}

func (l *SalaryLedger) summarize(ctx context.Context, query dto.SalaryQuery) (*dto.SalarySummary, error) {
	period := model.Period{Month: query.Month, Year: query.Year}

	base, err := l.baseFor(ctx, query.UserID, query.UserRole, period)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	entries, err := l.store.Entries(ctx, query.UserID, query.UserRole, period)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	summary := &dto.SalarySummary{
		UserID:      query.UserID,
		UserRole:    query.UserRole,
		Month:       query.Month,
		Year:        query.Year,
		BasePolicy:  l.basePolicy,
		BaseSalary:  base,
		Adjustments: make([]model.SalaryEntry, 0, len(entries)),
	}
	for _, e := range entries {
		switch e.Type {
		case constants.SalaryBonus:
			summary.Bonus += e.Amount
		case constants.SalaryPenalty:
			summary.Penalty += e.Amount
		default:
			continue
		}
		summary.Adjustments = append(summary.Adjustments, e)
	}
	summary.NetSalary = summary.BaseSalary + summary.Bonus - summary.Penalty

	logger.DebugWithContext(ctx, "Salary summary computed").
		String("user_id", query.UserID).
		Int("month", query.Month).
		Int("year", query.Year).
		Float64("net_salary", summary.NetSalary).
		Log()
	return summary, nil
}

// baseFor resolves the base salary under the configured policy. A missing profile counts as zero.
func (l *SalaryLedger) baseFor(ctx context.Context, userID string, role constants.Role, period model.Period) (float64, error) {
	if l.basePolicy == constants.SalaryPolicyPeriod {
		revision, err := l.store.LatestRevision(ctx, userID, role, period)
		if err != nil {
			return 0, err
		}
		if revision != nil {
			return revision.Amount, nil
		}
	}

	base, _, err := l.store.BaseSalary(ctx, userID, role)
	return base, err
}

// History lists every entry of the account, newest first
func (l *SalaryLedger) History(ctx context.Context, caller *Caller, userID string, role constants.Role) ([]model.SalaryEntry, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "SalaryHistory")

	if err := authorizeLedgerRead(caller, userID, role); err != nil {
		return nil, err
	}
	if !role.IsSalaried() {
		return nil, apperrors.InvalidInput("user role must be STAFF, RECEPTIONIST or DOCTOR")
	}

	entries, err := l.store.History(ctx, userID, role)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return entries, nil
}

// Payslip is the monthly summary together with the employee identity
func (l *SalaryLedger) Payslip(ctx context.Context, caller *Caller, query dto.SalaryQuery) (*dto.Payslip, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "Payslip")

	if err := authorizeLedgerRead(caller, query.UserID, query.UserRole); err != nil {
		return nil, err
	}
	if query.Month < 1 || query.Month > 12 || query.Year <= 0 {
		return nil, apperrors.InvalidInput("month and year are required")
	}

	account, err := l.accounts.GetByID(ctx, query.UserID)
	if err != nil {
		return nil, storeError(err, apperrors.ErrAccountNotFound, apperrors.ErrDuplicate)
	}
	if account.Role != query.UserRole {
		return nil, apperrors.ErrAccountNotFound
	}

	summary, err := l.summarize(ctx, query)
	if err != nil {
		return nil, err
	}

	return &dto.Payslip{
		SalarySummary: *summary,
		EmployeeName:  account.Name,
		EmployeeEmail: account.Email,
		GeneratedAt:   l.now(),
	}, nil
}

func validateEntry(userID string, role constants.Role, month, year int) error {
	switch {
	case strings.TrimSpace(userID) == "":
		return apperrors.InvalidInput("user id is required")
	case !role.IsSalaried():
		return apperrors.InvalidInput("user role must be STAFF, RECEPTIONIST or DOCTOR")
	case month < 1 || month > 12:
		return apperrors.InvalidInput("month must be between 1 and 12")
	case year <= 0:
		return apperrors.InvalidInput("year is required")
	}
	return nil
}

// authorizeLedgerRead lets ADMIN read any ledger and members read their own
func authorizeLedgerRead(caller *Caller, userID string, role constants.Role) error {
	if caller == nil {
		return apperrors.ErrUnauthenticated
	}
	if caller.Role == constants.RoleAdmin {
		return nil
	}
	if caller.Role.IsSalaried() && caller.Role == role && caller.ID == userID {
		return nil
	}
	return apperrors.ErrForbidden
}
