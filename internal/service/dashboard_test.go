package service

import (
	"context"
	"testing"
	"time"

	"github.com/Payphone-Digital/clinic-admin/internal/constants"
	apperrors "github.com/Payphone-Digital/clinic-admin/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDashboardStore struct {
	byRole     map[constants.Role]int64
	active     int64
	inactive   int64
	expiries   []time.Time
	created    []time.Time
	sinceAsked time.Time
	err        error
}

func (f *fakeDashboardStore) CountByRole(_ context.Context, role constants.Role) (int64, error) {
	return f.byRole[role], f.err
}

func (f *fakeDashboardStore) CountAdminsByStatus(_ context.Context, active bool) (int64, error) {
	if active {
		return f.active, f.err
	}
	return f.inactive, f.err
}

func (f *fakeDashboardStore) count(match func(time.Time) bool) int64 {
	var n int64
	for _, e := range f.expiries {
		if match(e) {
			n++
		}
	}
	return n
}

func (f *fakeDashboardStore) CountExpiredBefore(_ context.Context, t time.Time) (int64, error) {
	return f.count(func(e time.Time) bool { return e.Before(t) }), f.err
}

func (f *fakeDashboardStore) CountExpiringBetween(_ context.Context, from, to time.Time) (int64, error) {
	return f.count(func(e time.Time) bool { return !e.Before(from) && !e.After(to) }), f.err
}

func (f *fakeDashboardStore) CountValidAfter(_ context.Context, t time.Time) (int64, error) {
	return f.count(func(e time.Time) bool { return e.After(t) }), f.err
}

func (f *fakeDashboardStore) AdminRegistrationsSince(_ context.Context, since time.Time) ([]time.Time, error) {
	f.sinceAsked = since
	var out []time.Time
	for _, c := range f.created {
		if !c.Before(since) {
			out = append(out, c)
		}
	}
	return out, f.err
}

func newDashboardFixture(store *fakeDashboardStore, accounts *fakeAccounts) *DashboardService {
	svc := NewDashboardService(store, accounts, 7*24*time.Hour)
	svc.now = fixedClock(testNow)
	return svc
}

func TestAdminStatistics(t *testing.T) {
	store := &fakeDashboardStore{
		byRole: map[constants.Role]int64{constants.RoleAdmin: 4},
		expiries: []time.Time{
			testNow.Add(-time.Hour),
			testNow.Add(3 * 24 * time.Hour),
			testNow.Add(30 * 24 * time.Hour),
			testNow.Add(90 * 24 * time.Hour),
		},
		created: []time.Time{
			time.Date(2024, 9, 30, 23, 0, 0, 0, time.UTC),
			time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 1, 20, 8, 0, 0, 0, time.UTC),
			time.Date(2025, 3, 2, 8, 0, 0, 0, time.UTC),
			time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC),
		},
	}
	svc := newDashboardFixture(store, newFakeAccounts())

	stats, err := svc.AdminStatistics(context.Background(), superAdminCaller())
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC), store.sinceAsked)
	assert.Equal(t, map[string]int64{
		"2024-10": 1,
		"2024-11": 0,
		"2024-12": 0,
		"2025-01": 1,
		"2025-02": 0,
		"2025-03": 2,
	}, stats.MonthlyRegistrations)

	assert.Equal(t, int64(2), stats.SubscriptionBreakdown.Active)
	assert.Equal(t, int64(1), stats.SubscriptionBreakdown.ExpiringSoon)
	assert.Equal(t, int64(1), stats.SubscriptionBreakdown.Expired)
	assert.Equal(t, int64(4), stats.SubscriptionBreakdown.Total)
}

func TestDashboards_RoleGuards(t *testing.T) {
	svc := newDashboardFixture(&fakeDashboardStore{}, newFakeAccounts())
	ctx := context.Background()

	_, err := svc.AdminStatistics(ctx, adminCaller("adm-1"))
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	_, err = svc.SuperAdminSummary(ctx, adminCaller("adm-1"))
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	_, err = svc.AdminDashboard(ctx, superAdminCaller())
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestSuperAdminSummary(t *testing.T) {
	store := &fakeDashboardStore{
		byRole:   map[constants.Role]int64{constants.RoleAdmin: 3},
		active:   2,
		inactive: 1,
		expiries: []time.Time{testNow.Add(-48 * time.Hour), testNow.Add(24 * time.Hour), testNow.Add(60 * 24 * time.Hour)},
	}
	svc := newDashboardFixture(store, newFakeAccounts())

	summary, err := svc.SuperAdminSummary(context.Background(), superAdminCaller())
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.TotalAdmins)
	assert.Equal(t, int64(2), summary.ActiveAdmins)
	assert.Equal(t, int64(1), summary.InactiveAdmins)
	assert.Equal(t, int64(1), summary.ExpiredSubscriptions)
	assert.Equal(t, int64(1), summary.ExpiringSoon)

	store.err = errStoreDown
	_, err = svc.SuperAdminSummary(context.Background(), superAdminCaller())
	assert.Equal(t, apperrors.CodeInternal, apperrors.GetErrorCode(err))
}

func TestAdminDashboard(t *testing.T) {
	store := &fakeDashboardStore{byRole: map[constants.Role]int64{
		constants.RoleDoctor:       4,
		constants.RoleReceptionist: 2,
		constants.RoleStaff:        5,
		constants.RolePatient:      40,
	}}
	accounts := newFakeAccounts(newAdminAccount("adm-1", "owner@clinic.test", true, timePtr(testNow.Add(3*24*time.Hour))))
	svc := newDashboardFixture(store, accounts)

	dash, err := svc.AdminDashboard(context.Background(), adminCaller("adm-1"))
	require.NoError(t, err)
	assert.Equal(t, "Sunrise Clinic", dash.Clinic.ClinicName)
	assert.Equal(t, constants.SubscriptionExpiringSoon, dash.Clinic.SubscriptionStatus)
	require.NotNil(t, dash.Clinic.DaysRemaining)
	assert.Equal(t, int64(11), dash.Staff.TotalEmployees)
	assert.Equal(t, int64(40), dash.Staff.TotalPatients)

	_, err = svc.AdminDashboard(context.Background(), adminCaller("adm-missing"))
	assert.ErrorIs(t, err, apperrors.ErrAdminNotFound)
}
