package database

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func newMockDB(t *testing.T, matcher sqlmock.QueryMatcher) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(matcher))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormLogger.Discard,
	})
	require.NoError(t, err)
	return db, mock
}

func TestCreateIndexes_SkipsFailures(t *testing.T) {
	db, mock := newMockDB(t, sqlmock.QueryMatcherEqual)

	for i, statement := range indexStatements {
		expect := mock.ExpectExec(statement)
		if i == 1 {
			expect.WillReturnError(errors.New("permission denied"))
			continue
		}
		expect.WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, CreateIndexes(db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedClinic_AlreadySeeded(t *testing.T) {
	db, mock := newMockDB(t, sqlmock.QueryMatcherRegexp)
	demo := GetDemoClinic()

	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE email = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}).AddRow("acc-1", demo.Email))

	require.NoError(t, SeedClinic(db, demo, 4, time.Now()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedClinic_LookupError(t *testing.T) {
	db, mock := newMockDB(t, sqlmock.QueryMatcherRegexp)

	mock.ExpectQuery(`SELECT \* FROM "accounts"`).WillReturnError(errors.New("connection reset"))

	err := SeedClinic(db, GetDemoClinic(), 4, time.Now())
	assert.EqualError(t, err, "connection reset")
}

func TestGormLogLevel(t *testing.T) {
	assert.Equal(t, gormLogger.Silent, gormLogLevel("production"))
	assert.Equal(t, gormLogger.Warn, gormLogLevel("staging"))
	assert.Equal(t, gormLogger.Info, gormLogLevel("development"))
}

func TestModelsCoverEveryTable(t *testing.T) {
	assert.Len(t, Models(), 6)
}
