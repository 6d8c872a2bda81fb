package service

import (
	"context"
	"time"

	"github.com/Payphone-Digital/clinic-admin/internal/constants"
	"github.com/Payphone-Digital/clinic-admin/internal/dto"
	apperrors "github.com/Payphone-Digital/clinic-admin/internal/errors"
	"github.com/Payphone-Digital/clinic-admin/internal/model"
	ctxutil "github.com/Payphone-Digital/clinic-admin/pkg/context"
	"github.com/Payphone-Digital/clinic-admin/pkg/logger"
)

// registrationMonths is the number of calendar months, current one included, in the statistics
const registrationMonths = 6

type DashboardStore interface {
	CountByRole(ctx context.Context, role constants.Role) (int64, error)
	CountAdminsByStatus(ctx context.Context, active bool) (int64, error)
	CountExpiredBefore(ctx context.Context, t time.Time) (int64, error)
	CountExpiringBetween(ctx context.Context, from, to time.Time) (int64, error)
	CountValidAfter(ctx context.Context, t time.Time) (int64, error)
	AdminRegistrationsSince(ctx context.Context, since time.Time) ([]time.Time, error)
}

type DashboardService struct {
	store    DashboardStore
	accounts AccountLookup
	window   time.Duration
	now      func() time.Time
}

func NewDashboardService(store DashboardStore, accounts AccountLookup, expiringWindow time.Duration) *DashboardService {
	return &DashboardService{
		store:    store,
		accounts: accounts,
		window:   expiringWindow,
		now:      time.Now,
	}
}

func (s *DashboardService) SuperAdminSummary(ctx context.Context, caller *Caller) (*dto.SuperAdminSummary, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "SuperAdminSummary")

	if err := Authorize(caller, constants.RoleSuperAdmin); err != nil {
		return nil, err
	}

	now := s.now()
	var summary dto.SuperAdminSummary
	var err error
	if summary.TotalAdmins, err = s.store.CountByRole(ctx, constants.RoleAdmin); err != nil {
		return nil, s.fail(ctx, err)
	}
	if summary.ActiveAdmins, err = s.store.CountAdminsByStatus(ctx, true); err != nil {
		return nil, s.fail(ctx, err)
	}
	if summary.InactiveAdmins, err = s.store.CountAdminsByStatus(ctx, false); err != nil {
		return nil, s.fail(ctx, err)
	}
	if summary.ExpiredSubscriptions, err = s.store.CountExpiredBefore(ctx, now); err != nil {
		return nil, s.fail(ctx, err)
	}
	if summary.ExpiringSoon, err = s.store.CountExpiringBetween(ctx, now, now.Add(s.window)); err != nil {
		return nil, s.fail(ctx, err)
	}
	return &summary, nil
}

// AdminStatistics buckets admin registrations by YYYY-MM and breaks subscriptions down by state
func (s *DashboardService) AdminStatistics(ctx context.Context, caller *Caller) (*dto.AdminStatistics, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "AdminStatistics")

	if err := Authorize(caller, constants.RoleSuperAdmin); err != nil {
		return nil, err
	}

	now := s.now()
	since := time.Date(now.Year(), now.Month()-(registrationMonths-1), 1, 0, 0, 0, 0, now.Location())

	monthly := make(map[string]int64, registrationMonths)
	for m := since; !m.After(now); m = m.AddDate(0, 1, 0) {
		monthly[m.Format("2006-01")] = 0
	}

	created, err := s.store.AdminRegistrationsSince(ctx, since)
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	for _, t := range created {
		key := t.In(now.Location()).Format("2006-01")
		if _, ok := monthly[key]; ok {
			monthly[key]++
		}
	}

	horizon := now.Add(s.window)
	var breakdown dto.SubscriptionBreakdown
	if breakdown.Active, err = s.store.CountValidAfter(ctx, horizon); err != nil {
		return nil, s.fail(ctx, err)
	}
	if breakdown.ExpiringSoon, err = s.store.CountExpiringBetween(ctx, now, horizon); err != nil {
		return nil, s.fail(ctx, err)
	}
	if breakdown.Expired, err = s.store.CountExpiredBefore(ctx, now); err != nil {
		return nil, s.fail(ctx, err)
	}
	if breakdown.Total, err = s.store.CountByRole(ctx, constants.RoleAdmin); err != nil {
		return nil, s.fail(ctx, err)
	}

	return &dto.AdminStatistics{
		MonthlyRegistrations:  monthly,
		SubscriptionBreakdown: breakdown,
	}, nil
}

// AdminDashboard shows the caller's clinic and the head count per role
func (s *DashboardService) AdminDashboard(ctx context.Context, caller *Caller) (*dto.AdminDashboard, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "AdminDashboard")

	if err := Authorize(caller, constants.RoleAdmin); err != nil {
		return nil, err
	}

	account, err := s.accounts.GetByID(ctx, caller.ID)
	if err != nil {
		return nil, storeError(err, apperrors.ErrAdminNotFound, apperrors.ErrDuplicate)
	}

	now := s.now()
	expiry := account.SubscriptionExpiry()
	clinic := dto.ClinicSummary{
		ID:                 account.ID,
		Name:               account.Name,
		Email:              account.Email,
		IsActive:           account.IsActive,
		SubscriptionExpiry: expiry,
		SubscriptionStatus: model.SubscriptionStatus(expiry, now, s.window),
		DaysRemaining:      model.DaysRemaining(expiry, now),
		CreatedAt:          account.CreatedAt,
	}
	if account.Clinic != nil {
		clinic.ClinicName = account.Clinic.ClinicName
		clinic.Location = account.Clinic.Location
	}

	var heads dto.HeadCount
	counts := []struct {
		role constants.Role
		dst  *int64
	}{
		{constants.RoleDoctor, &heads.TotalDoctors},
		{constants.RoleReceptionist, &heads.TotalReceptionists},
		{constants.RoleStaff, &heads.TotalStaff},
		{constants.RolePatient, &heads.TotalPatients},
	}
	for _, c := range counts {
		if *c.dst, err = s.store.CountByRole(ctx, c.role); err != nil {
			return nil, s.fail(ctx, err)
		}
	}
	heads.TotalEmployees = heads.TotalDoctors + heads.TotalReceptionists + heads.TotalStaff

	return &dto.AdminDashboard{Clinic: clinic, Staff: heads}, nil
}

func (s *DashboardService) fail(ctx context.Context, err error) error {
	logger.ErrorWithContext(ctx, "Dashboard aggregation failed").Err(err).Log()
	return apperrors.WrapError(apperrors.ErrInternal, err)
}
