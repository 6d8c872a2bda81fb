package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Payphone-Digital/clinic-admin/internal/constants"
	"github.com/Payphone-Digital/clinic-admin/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestExchangeOTPForGrant(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{"challenge still current", 1, true},
		{"challenge replaced meanwhile", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewAccountRepository(db)

			mock.ExpectExec(`UPDATE "accounts" SET .*"otp_code"=.*"reset_token_hash"=.* WHERE id = \$\d+ AND otp_code = \$\d+`).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			ok, err := repo.ExchangeOTPForGrant(context.Background(), "acc-1", "482913", "digest", time.Now().Add(15*time.Minute))
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestConsumeResetGrant(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)
	now := time.Now()

	pattern := `UPDATE "accounts" SET .*"password"=.* WHERE reset_token_hash = \$\d+ AND reset_expires_at > \$\d+`
	mock.ExpectExec(pattern).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(pattern).WillReturnResult(sqlmock.NewResult(0, 0))

	first, err := repo.ConsumeResetGrant(context.Background(), "digest", "hash", now)
	require.NoError(t, err)
	assert.True(t, first)

	second, err := repo.ConsumeResetGrant(context.Background(), "digest", "hash", now)
	require.NoError(t, err)
	assert.False(t, second)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateFieldsMissingAccount(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectExec(`UPDATE "accounts" SET .* WHERE id = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateFields(context.Background(), "missing", map[string]any{"is_active": false})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAdminRejectsOtherRoles(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE id = \$1 AND role = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "role"}))

	_, err := repo.GetAdmin(context.Background(), "doctor-account")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAdminsAppliesFilters(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	expiry := now.Add(72 * time.Hour)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "accounts" LEFT JOIN clinic_profiles .* WHERE accounts.role = \$1 AND accounts.is_active = \$2 AND \(clinic_profiles.subscription_expiry BETWEEN \$3 AND \$4\) AND \(accounts.name ILIKE`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT .* FROM "accounts" LEFT JOIN clinic_profiles .* ORDER BY clinic_profiles\.subscription_expiry asc LIMIT \$9`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "role", "is_active"}).
			AddRow("adm-1", "Asha", "asha@clinic.in", "ADMIN", true))
	mock.ExpectQuery(`SELECT \* FROM "clinic_profiles" WHERE "clinic_profiles"."account_id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "account_id", "clinic_name", "subscription_expiry"}).
			AddRow("cl-1", "adm-1", "Sunrise", expiry))

	admins, total, err := repo.ListAdmins(context.Background(), dto.AdminFilter{
		Status:       constants.StatusActive,
		Subscription: constants.SubscriptionFilterExpiring,
		Search:       "sun",
		SortBy:       "subscription_expiry",
		SortOrder:    "asc",
		Limit:        10,
	}, now, 7*24*time.Hour)

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, admins, 1)
	require.NotNil(t, admins[0].Clinic)
	assert.Equal(t, "Sunrise", admins[0].Clinic.ClinicName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
