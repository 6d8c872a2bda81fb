package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Payphone-Digital/clinic-admin/internal/constants"
	"github.com/Payphone-Digital/clinic-admin/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func revision() *model.SalaryEntry {
	return &model.SalaryEntry{
		UserID:   "acc-1",
		UserRole: constants.RoleStaff,
		Type:     constants.SalaryRevision,
		Amount:   55000,
		Reason:   constants.DefaultRevisionReason,
		Month:    4,
		Year:     2026,
	}
}

func TestReviseBaseCommitsBothWrites(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSalaryRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "staff_profiles" SET .*"salary"=.* WHERE account_id = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "salary_entries"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	entry := revision()
	require.NoError(t, repo.ReviseBase(context.Background(), entry))
	assert.NotEmpty(t, entry.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviseBaseMissingProfileRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSalaryRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "staff_profiles" SET .* WHERE account_id = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.ReviseBase(context.Background(), revision())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviseBaseAuditFailureRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSalaryRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "staff_profiles"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "salary_entries"`).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.ReviseBase(context.Background(), revision())
	assert.EqualError(t, err, "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBaseSalary(t *testing.T) {
	t.Run("profile present", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`SELECT "salary" FROM "doctor_profiles" WHERE account_id = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"salary"}).AddRow(50000.0))

		base, found, err := NewSalaryRepository(db).BaseSalary(context.Background(), "acc-1", constants.RoleDoctor)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, 50000.0, base)
	})

	t.Run("no profile", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`SELECT "salary" FROM "doctor_profiles"`).
			WillReturnRows(sqlmock.NewRows([]string{"salary"}))

		base, found, err := NewSalaryRepository(db).BaseSalary(context.Background(), "acc-1", constants.RoleDoctor)
		require.NoError(t, err)
		assert.False(t, found)
		assert.Zero(t, base)
	})
}

func TestEntriesWholeYearSkipsMonthFilter(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "salary_entries" WHERE user_id = \$1 AND user_role = \$2 AND year = \$3 ORDER BY created_at ASC$`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "type", "amount", "month", "year"}).
			AddRow("e1", "BONUS", 2000.0, 1, 2026).
			AddRow("e2", "PENALTY", 500.0, 7, 2026))

	entries, err := NewSalaryRepository(db).Entries(context.Background(), "acc-1", constants.RoleStaff, model.Period{Year: 2026})
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryNewestFirst(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "salary_entries" WHERE user_id = \$1 AND user_role = \$2 ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "type", "created_at"}).
			AddRow("new", "BONUS", now).
			AddRow("old", "REVISION", now.Add(-time.Hour)))

	entries, err := NewSalaryRepository(db).History(context.Background(), "acc-1", constants.RoleStaff)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "new", entries[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLatestRevisionNone(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "salary_entries" WHERE .*type = \$3.*year < \$4 OR \(year = \$5 AND month <= \$6\)`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	entry, err := NewSalaryRepository(db).LatestRevision(context.Background(), "acc-1", constants.RoleStaff, model.Period{Month: 3, Year: 2026})
	require.NoError(t, err)
	assert.Nil(t, entry)
	assert.NoError(t, mock.ExpectationsWereMet())
}
