package service

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/Payphone-Digital/clinic-admin/internal/constants"
	"github.com/Payphone-Digital/clinic-admin/internal/dto"
	apperrors "github.com/Payphone-Digital/clinic-admin/internal/errors"
	"github.com/Payphone-Digital/clinic-admin/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeSalaryStore struct {
	mu        sync.Mutex
	bases     map[string]float64
	entries   []model.SalaryEntry
	reviseErr error
	seq       int
}

func newFakeSalaryStore() *fakeSalaryStore {
	return &fakeSalaryStore{bases: map[string]float64{}}
}

func salaryKey(userID string, role constants.Role) string { return string(role) + "/" + userID }

func (f *fakeSalaryStore) stamp(e *model.SalaryEntry) {
	f.seq++
	e.ID = "entry-" + strconv.Itoa(f.seq)
	e.CreatedAt = testNow.Add(time.Duration(f.seq) * time.Minute)
}

func (f *fakeSalaryStore) CreateEntry(_ context.Context, e *model.SalaryEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stamp(e)
	f.entries = append(f.entries, *e)
	return nil
}

func (f *fakeSalaryStore) ReviseBase(_ context.Context, e *model.SalaryEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reviseErr != nil {
		return f.reviseErr
	}
	key := salaryKey(e.UserID, e.UserRole)
	if _, ok := f.bases[key]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.bases[key] = e.Amount
	f.stamp(e)
	f.entries = append(f.entries, *e)
	return nil
}

func (f *fakeSalaryStore) BaseSalary(_ context.Context, userID string, role constants.Role) (float64, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	base, ok := f.bases[salaryKey(userID, role)]
	return base, ok, nil
}

func (f *fakeSalaryStore) Entries(_ context.Context, userID string, role constants.Role, period model.Period) ([]model.SalaryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.SalaryEntry
	for _, e := range f.entries {
		if e.UserID == userID && e.UserRole == role && period.Covers(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeSalaryStore) History(_ context.Context, userID string, role constants.Role) ([]model.SalaryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.SalaryEntry
	for _, e := range f.entries {
		if e.UserID == userID && e.UserRole == role {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeSalaryStore) LatestRevision(_ context.Context, userID string, role constants.Role, period model.Period) (*model.SalaryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *model.SalaryEntry
	for i := range f.entries {
		e := f.entries[i]
		if e.UserID != userID || e.UserRole != role || e.Type != constants.SalaryRevision || !period.NotAfter(e) {
			continue
		}
		if latest == nil || e.Year > latest.Year || (e.Year == latest.Year && e.Month >= latest.Month) {
			latest = &e
		}
	}
	return latest, nil
}

const staffID = "5b3c9f3e-8c1d-4f7a-9a51-2f7b1c0d9e10"

func newLedgerFixture(policy string) (*SalaryLedger, *fakeSalaryStore) {
	store := newFakeSalaryStore()
	store.bases[salaryKey(staffID, constants.RoleStaff)] = 1000
	accounts := newFakeAccounts(&model.Account{
		ID: staffID, Name: "Ravi", Email: "ravi@clinic.test", Role: constants.RoleStaff, IsActive: true,
	})
	ledger := NewSalaryLedger(store, accounts, policy)
	ledger.now = fixedClock(testNow)
	return ledger, store
}

func entryRequest(t constants.SalaryType, amount float64, month int) dto.AddSalaryEntryRequest {
	return dto.AddSalaryEntryRequest{
		UserID: staffID, UserRole: constants.RoleStaff, Type: t, Amount: amount, Month: month, Year: 2025,
	}
}

func TestAddEntry_Validation(t *testing.T) {
	ledger, store := newLedgerFixture(constants.SalaryPolicyCurrent)
	ctx := context.Background()
	admin := adminCaller("adm-1")

	badRole := entryRequest(constants.SalaryBonus, 10, 3)
	badRole.UserRole = constants.RolePatient
	noYear := entryRequest(constants.SalaryBonus, 10, 3)
	noYear.Year = 0
	noUser := entryRequest(constants.SalaryBonus, 10, 3)
	noUser.UserID = ""

	tests := []struct {
		name string
		req  dto.AddSalaryEntryRequest
	}{
		{"zero amount", entryRequest(constants.SalaryBonus, 0, 3)},
		{"negative amount", entryRequest(constants.SalaryPenalty, -5, 3)},
		{"month zero", entryRequest(constants.SalaryBonus, 10, 0)},
		{"month thirteen", entryRequest(constants.SalaryBonus, 10, 13)},
		{"unknown type", entryRequest("TIP", 10, 3)},
		{"unsalaried role", badRole},
		{"missing year", noYear},
		{"missing user", noUser},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ledger.AddEntry(ctx, admin, tt.req)
			assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetErrorCode(err))
		})
	}

	_, err := ledger.AddEntry(ctx, &Caller{ID: staffID, Role: constants.RoleStaff}, entryRequest(constants.SalaryBonus, 10, 3))
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Empty(t, store.entries)
}

func TestAddEntry_DoesNotTouchBase(t *testing.T) {
	ledger, store := newLedgerFixture(constants.SalaryPolicyCurrent)
	ctx := context.Background()

	entry, err := ledger.AddEntry(ctx, adminCaller("adm-1"), entryRequest(constants.SalaryRevision, 5000, 3))
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, 1000.0, store.bases[salaryKey(staffID, constants.RoleStaff)])

	_, err = ledger.AddEntry(ctx, adminCaller("adm-1"), entryRequest(constants.SalaryBonus, 50, 3))
	require.NoError(t, err)
	_, err = ledger.AddEntry(ctx, adminCaller("adm-1"), entryRequest(constants.SalaryBonus, 50, 3))
	require.NoError(t, err, "duplicates are allowed")
	assert.Len(t, store.entries, 3)
}

func TestAddEntry_ConcurrentSamePeriod(t *testing.T) {
	ledger, store := newLedgerFixture(constants.SalaryPolicyCurrent)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = ledger.AddEntry(ctx, adminCaller("adm-1"), entryRequest(constants.SalaryPenalty, 25, 3))
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	require.Len(t, store.entries, 2)
	assert.NotEqual(t, store.entries[0].ID, store.entries[1].ID)

	summary, err := ledger.ComputeNetForPeriod(ctx, adminCaller("adm-1"), dto.SalaryQuery{
		UserID: staffID, UserRole: constants.RoleStaff, Month: 3, Year: 2025,
	})
	require.NoError(t, err)
	assert.Equal(t, 50.0, summary.Penalty)
	assert.Equal(t, 950.0, summary.NetSalary)
}

func TestReviseBaseSalary(t *testing.T) {
	ledger, store := newLedgerFixture(constants.SalaryPolicyCurrent)
	ctx := context.Background()

	revision, err := ledger.ReviseBaseSalary(ctx, adminCaller("adm-1"), dto.ReviseBaseSalaryRequest{
		UserID: staffID, UserRole: constants.RoleStaff, NewSalary: 1500, Month: 3, Year: 2025,
	})
	require.NoError(t, err)
	assert.Equal(t, constants.SalaryRevision, revision.Type)
	assert.Equal(t, constants.DefaultRevisionReason, revision.Reason)
	assert.Equal(t, 1500.0, store.bases[salaryKey(staffID, constants.RoleStaff)])
	assert.Len(t, store.entries, 1)

	_, err = ledger.ReviseBaseSalary(ctx, adminCaller("adm-1"), dto.ReviseBaseSalaryRequest{
		UserID: "no-such-user", UserRole: constants.RoleDoctor, NewSalary: 1500, Month: 3, Year: 2025,
	})
	assert.ErrorIs(t, err, apperrors.ErrProfileNotFound)
	assert.Len(t, store.entries, 1)

	store.reviseErr = errStoreDown
	_, err = ledger.ReviseBaseSalary(ctx, adminCaller("adm-1"), dto.ReviseBaseSalaryRequest{
		UserID: staffID, UserRole: constants.RoleStaff, NewSalary: 2000, Month: 4, Year: 2025,
	})
	assert.Equal(t, apperrors.CodeInternal, apperrors.GetErrorCode(err))
	assert.Equal(t, 1500.0, store.bases[salaryKey(staffID, constants.RoleStaff)])

	_, err = ledger.ReviseBaseSalary(ctx, adminCaller("adm-1"), dto.ReviseBaseSalaryRequest{
		UserID: staffID, UserRole: constants.RoleStaff, NewSalary: 0, Month: 4, Year: 2025,
	})
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetErrorCode(err))
}

func TestComputeNetForPeriod(t *testing.T) {
	ledger, _ := newLedgerFixture(constants.SalaryPolicyCurrent)
	ctx := context.Background()
	admin := adminCaller("adm-1")

	for _, req := range []dto.AddSalaryEntryRequest{
		entryRequest(constants.SalaryBonus, 200, 3),
		entryRequest(constants.SalaryPenalty, 50, 3),
		entryRequest(constants.SalaryBonus, 25, 4),
		entryRequest(constants.SalaryRevision, 99999, 3),
	} {
		_, err := ledger.AddEntry(ctx, admin, req)
		require.NoError(t, err)
	}

	march, err := ledger.ComputeNetForPeriod(ctx, admin, dto.SalaryQuery{UserID: staffID, UserRole: constants.RoleStaff, Month: 3, Year: 2025})
	require.NoError(t, err)
	assert.Equal(t, 1000.0, march.BaseSalary)
	assert.Equal(t, 200.0, march.Bonus)
	assert.Equal(t, 50.0, march.Penalty)
	assert.Equal(t, 1150.0, march.NetSalary)
	assert.Len(t, march.Adjustments, 2)

	year, err := ledger.ComputeNetForPeriod(ctx, admin, dto.SalaryQuery{UserID: staffID, UserRole: constants.RoleStaff, Year: 2025})
	require.NoError(t, err)
	assert.Equal(t, 225.0, year.Bonus)
	assert.Equal(t, 1175.0, year.NetSalary)

	_, err = ledger.ComputeNetForPeriod(ctx, admin, dto.SalaryQuery{UserID: staffID, UserRole: constants.RoleStaff})
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetErrorCode(err))
}

func TestComputeNetForPeriod_NotFloored(t *testing.T) {
	ledger, _ := newLedgerFixture(constants.SalaryPolicyCurrent)
	ctx := context.Background()
	_, err := ledger.AddEntry(ctx, adminCaller("adm-1"), entryRequest(constants.SalaryPenalty, 1500, 5))
	require.NoError(t, err)

	summary, err := ledger.ComputeNetForPeriod(ctx, adminCaller("adm-1"), dto.SalaryQuery{UserID: staffID, UserRole: constants.RoleStaff, Month: 5, Year: 2025})
	require.NoError(t, err)
	assert.Equal(t, -500.0, summary.NetSalary)
}

func TestComputeNetForPeriod_MissingProfileCountsAsZero(t *testing.T) {
	ledger, _ := newLedgerFixture(constants.SalaryPolicyCurrent)
	summary, err := ledger.ComputeNetForPeriod(context.Background(), adminCaller("adm-1"),
		dto.SalaryQuery{UserID: "someone-else", UserRole: constants.RoleDoctor, Month: 1, Year: 2025})
	require.NoError(t, err)
	assert.Zero(t, summary.BaseSalary)
	assert.Zero(t, summary.NetSalary)
}

func TestComputeNetForPeriod_PeriodPolicy(t *testing.T) {
	ctx := context.Background()
	admin := adminCaller("adm-1")
	revise := func(ledger *SalaryLedger, amount float64, month int) {
		_, err := ledger.ReviseBaseSalary(ctx, admin, dto.ReviseBaseSalaryRequest{
			UserID: staffID, UserRole: constants.RoleStaff, NewSalary: amount, Month: month, Year: 2025,
		})
		require.NoError(t, err)
	}
	query := func(month int) dto.SalaryQuery {
		return dto.SalaryQuery{UserID: staffID, UserRole: constants.RoleStaff, Month: month, Year: 2025}
	}

	current, _ := newLedgerFixture(constants.SalaryPolicyCurrent)
	revise(current, 1200, 2)
	revise(current, 1800, 6)
	summary, err := current.ComputeNetForPeriod(ctx, admin, query(4))
	require.NoError(t, err)
	assert.Equal(t, 1800.0, summary.BaseSalary)
	assert.Equal(t, constants.SalaryPolicyCurrent, summary.BasePolicy)

	period, _ := newLedgerFixture(constants.SalaryPolicyPeriod)
	revise(period, 1200, 2)
	revise(period, 1800, 6)
	summary, err = period.ComputeNetForPeriod(ctx, admin, query(4))
	require.NoError(t, err)
	assert.Equal(t, 1200.0, summary.BaseSalary)

	summary, err = period.ComputeNetForPeriod(ctx, admin, query(1))
	require.NoError(t, err)
	assert.Equal(t, 1800.0, summary.BaseSalary, "falls back to the current base before any revision")
}

func TestSalaryReadAccess(t *testing.T) {
	ledger, _ := newLedgerFixture(constants.SalaryPolicyCurrent)
	ctx := context.Background()
	query := dto.SalaryQuery{UserID: staffID, UserRole: constants.RoleStaff, Month: 3, Year: 2025}

	_, err := ledger.ComputeNetForPeriod(ctx, &Caller{ID: staffID, Role: constants.RoleStaff}, query)
	assert.NoError(t, err)

	_, err = ledger.ComputeNetForPeriod(ctx, &Caller{ID: "other", Role: constants.RoleStaff}, query)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = ledger.History(ctx, &Caller{ID: staffID, Role: constants.RoleDoctor}, staffID, constants.RoleStaff)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = ledger.History(ctx, superAdminCaller(), staffID, constants.RoleStaff)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestSalaryHistory_NewestFirst(t *testing.T) {
	ledger, _ := newLedgerFixture(constants.SalaryPolicyCurrent)
	ctx := context.Background()
	for _, amount := range []float64{10, 20, 30} {
		_, err := ledger.AddEntry(ctx, adminCaller("adm-1"), entryRequest(constants.SalaryBonus, amount, 3))
		require.NoError(t, err)
	}

	history, err := ledger.History(ctx, &Caller{ID: staffID, Role: constants.RoleStaff}, staffID, constants.RoleStaff)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, 30.0, history[0].Amount)
	assert.Equal(t, 10.0, history[2].Amount)
	assert.True(t, history[0].CreatedAt.After(history[1].CreatedAt))
}

func TestPayslip(t *testing.T) {
	ledger, _ := newLedgerFixture(constants.SalaryPolicyCurrent)
	ctx := context.Background()
	_, err := ledger.AddEntry(ctx, adminCaller("adm-1"), entryRequest(constants.SalaryBonus, 300, 3))
	require.NoError(t, err)

	slip, err := ledger.Payslip(ctx, &Caller{ID: staffID, Role: constants.RoleStaff}, dto.SalaryQuery{
		UserID: staffID, UserRole: constants.RoleStaff, Month: 3, Year: 2025,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ravi", slip.EmployeeName)
	assert.Equal(t, 1300.0, slip.NetSalary)
	assert.Equal(t, testNow, slip.GeneratedAt)

	_, err = ledger.Payslip(ctx, adminCaller("adm-1"), dto.SalaryQuery{UserID: staffID, UserRole: constants.RoleStaff, Year: 2025})
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetErrorCode(err))

	_, err = ledger.Payslip(ctx, adminCaller("adm-1"), dto.SalaryQuery{UserID: staffID, UserRole: constants.RoleDoctor, Month: 3, Year: 2025})
	assert.ErrorIs(t, err, apperrors.ErrAccountNotFound)
}
