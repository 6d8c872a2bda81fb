package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Payphone-Digital/clinic-admin/internal/constants"
	"github.com/Payphone-Digital/clinic-admin/internal/model"
	ctxutil "github.com/Payphone-Digital/clinic-admin/pkg/context"
	"github.com/Payphone-Digital/clinic-admin/pkg/logger"
	"gorm.io/gorm"
)

type SalaryRepository struct {
	db *gorm.DB
}

func NewSalaryRepository(db *gorm.DB) *SalaryRepository {
	return &SalaryRepository{db: db}
}

func (r *SalaryRepository) CreateEntry(ctx context.Context, entry *model.SalaryEntry) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "CreateEntry")

	start := time.Now()
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to append salary entry").
			String("user_id", entry.UserID).
			String("type", string(entry.Type)).
			Duration(time.Since(start)).
			Err(err).
			Log()
		return err
	}

	logger.DebugWithContext(ctx, "Salary entry appended").
		String("entry_id", entry.ID).
		String("user_id", entry.UserID).
		String("type", string(entry.Type)).
		Float64("amount", entry.Amount).
		Duration(time.Since(start)).
		Log()
	return nil
}

// ReviseBase overwrites the profile salary and appends the REVISION entry in one transaction.
// A missing profile rolls back with gorm.ErrRecordNotFound.
func (r *SalaryRepository) ReviseBase(ctx context.Context, revision *model.SalaryEntry) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "ReviseBase")

	table, ok := model.ProfileTable(revision.UserRole)
	if !ok {
		return fmt.Errorf("role %s has no salary profile", revision.UserRole)
	}

	start := time.Now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Table(table).
			Where("account_id = ?", revision.UserID).
			Updates(map[string]any{"salary": revision.Amount, "updated_at": time.Now()})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Create(revision).Error
	})
	if err != nil {
		logger.ErrorWithContext(ctx, "Base salary revision rolled back").
			String("user_id", revision.UserID).
			String("user_role", revision.UserRole.String()).
			Duration(time.Since(start)).
			Err(err).
			Log()
		return err
	}

	logger.InfoWithContext(ctx, "Base salary revised").
		String("user_id", revision.UserID).
		String("user_role", revision.UserRole.String()).
		Float64("amount", revision.Amount).
		Duration(time.Since(start)).
		Log()
	return nil
}

// BaseSalary returns the current profile salary. found is false when no profile exists.
func (r *SalaryRepository) BaseSalary(ctx context.Context, userID string, role constants.Role) (float64, bool, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "BaseSalary")

	table, ok := model.ProfileTable(role)
	if !ok {
		return 0, false, nil
	}

	var salaries []float64
	err := r.db.WithContext(ctx).Table(table).Where("account_id = ?", userID).Limit(1).Pluck("salary", &salaries).Error
	if err != nil {
		return 0, false, err
	}
	if len(salaries) == 0 {
		return 0, false, nil
	}
	return salaries[0], true, nil
}

// Entries returns the ledger rows of one period. month zero selects the whole year.
func (r *SalaryRepository) Entries(ctx context.Context, userID string, role constants.Role, period model.Period) ([]model.SalaryEntry, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "Entries")

	query := r.db.WithContext(ctx).
		Where("user_id = ? AND user_role = ? AND year = ?", userID, role, period.Year)
	if period.Month != 0 {
		query = query.Where("month = ?", period.Month)
	}

	var entries []model.SalaryEntry
	if err := query.Order("created_at ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// History returns every entry of the account newest first
func (r *SalaryRepository) History(ctx context.Context, userID string, role constants.Role) ([]model.SalaryEntry, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "History")

	start := time.Now()
	var entries []model.SalaryEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND user_role = ?", userID, role).
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}

	logger.DebugWithContext(ctx, "Salary history retrieved").
		String("user_id", userID).
		Int("count", len(entries)).
		Duration(time.Since(start)).
		Log()
	return entries, nil
}

// LatestRevision returns the newest REVISION recorded for the period or before it, nil if none
func (r *SalaryRepository) LatestRevision(ctx context.Context, userID string, role constants.Role, period model.Period) (*model.SalaryEntry, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "LatestRevision")

	query := r.db.WithContext(ctx).
		Where("user_id = ? AND user_role = ? AND type = ?", userID, role, constants.SalaryRevision)
	if period.Month == 0 {
		query = query.Where("year <= ?", period.Year)
	} else {
		query = query.Where("year < ? OR (year = ? AND month <= ?)", period.Year, period.Year, period.Month)
	}

	var entry model.SalaryEntry
	err := query.Order("year DESC, month DESC, created_at DESC").First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
