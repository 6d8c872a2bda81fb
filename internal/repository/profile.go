package repository

import (
	"context"
	"time"

	"github.com/Payphone-Digital/clinic-admin/internal/constants"
	"github.com/Payphone-Digital/clinic-admin/internal/dto"
	"github.com/Payphone-Digital/clinic-admin/internal/model"
	ctxutil "github.com/Payphone-Digital/clinic-admin/pkg/context"
	"github.com/Payphone-Digital/clinic-admin/pkg/logger"
	"gorm.io/gorm"
)

// ProfileRepository stores one member profile kind. T is the profile model.
type ProfileRepository[T any, P interface {
	*T
	model.MemberProfile
}] struct {
	db    *gorm.DB
	table string
}

func NewProfileRepository[T any, P interface {
	*T
	model.MemberProfile
}](db *gorm.DB) *ProfileRepository[T, P] {
	table, _ := model.ProfileTable(P(new(T)).Role())
	return &ProfileRepository[T, P]{db: db, table: table}
}

// GetByID loads a profile by its own id with the owning account
func (r *ProfileRepository[T, P]) GetByID(ctx context.Context, id string) (*T, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "GetProfileByID")

	start := time.Now()
	profile := new(T)
	err := r.db.WithContext(ctx).Preload("Account").Where("id = ?", id).First(profile).Error
	if err != nil {
		logger.DebugWithContext(ctx, "Profile lookup failed").
			String("table", r.table).
			String("profile_id", id).
			Duration(time.Since(start)).
			Err(err).
			Log()
		return nil, err
	}
	return profile, nil
}

// AadhaarExists reports whether another profile of this kind already holds aadhaar
func (r *ProfileRepository[T, P]) AadhaarExists(ctx context.Context, aadhaar, excludeID string) (bool, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "AadhaarExists")

	query := r.db.WithContext(ctx).Model(new(T)).Where("aadhaar = ?", aadhaar)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List pages profiles joined with their accounts. Search covers name, email and phone.
func (r *ProfileRepository[T, P]) List(ctx context.Context, filter dto.ProfileFilter) ([]T, int64, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "ListProfiles")

	logger.DebugWithContext(ctx, "Listing profiles").
		String("table", r.table).
		String("search", filter.Search).
		String("status", filter.Status).
		Int("limit", filter.Limit).
		Int("offset", filter.Offset).
		Log()

	start := time.Now()
	query := r.db.WithContext(ctx).Model(new(T)).
		Joins("JOIN accounts ON accounts.id = " + r.table + ".account_id")

	switch filter.Status {
	case constants.StatusActive:
		query = query.Where("accounts.is_active = ?", true)
	case constants.StatusInactive:
		query = query.Where("accounts.is_active = ?", false)
	}

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("accounts.name ILIKE ? OR accounts.email ILIKE ? OR accounts.phone ILIKE ?",
			pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to count profiles").
			String("table", r.table).
			Err(err).
			Log()
		return nil, 0, err
	}

	var profiles []T
	err := query.Preload("Account").
		Order(r.table + ".created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&profiles).Error
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to fetch profiles").
			String("table", r.table).
			Duration(time.Since(start)).
			Err(err).
			Log()
		return nil, 0, err
	}

	logger.DebugWithContext(ctx, "Profiles retrieved").
		String("table", r.table).
		Int64("total", total).
		Int("returned_count", len(profiles)).
		Duration(time.Since(start)).
		Log()
	return profiles, total, nil
}

// Update applies account and profile column changes in one transaction
func (r *ProfileRepository[T, P]) Update(ctx context.Context, profileID, accountID string, changes dto.Changes) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "UpdateProfile")

	start := time.Now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(changes.Account) > 0 {
			result := tx.Model(&model.Account{}).Where("id = ?", accountID).Updates(changes.Account)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		if len(changes.Profile) > 0 {
			result := tx.Model(new(T)).Where("id = ?", profileID).Updates(changes.Profile)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to update profile").
			String("table", r.table).
			String("profile_id", profileID).
			Duration(time.Since(start)).
			Err(err).
			Log()
		return err
	}

	logger.DebugWithContext(ctx, "Profile updated").
		String("table", r.table).
		String("profile_id", profileID).
		Int("account_fields", len(changes.Account)).
		Int("profile_fields", len(changes.Profile)).
		Duration(time.Since(start)).
		Log()
	return nil
}
