package repository

import (
	"context"
	"time"

	"github.com/Payphone-Digital/clinic-admin/internal/constants"
	"github.com/Payphone-Digital/clinic-admin/internal/model"
	ctxutil "github.com/Payphone-Digital/clinic-admin/pkg/context"
	"gorm.io/gorm"
)

// DashboardRepository answers the aggregate counts behind the dashboards
type DashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

func (r *DashboardRepository) CountByRole(ctx context.Context, role constants.Role) (int64, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "CountByRole")

	var count int64
	err := r.db.WithContext(ctx).Model(&model.Account{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

func (r *DashboardRepository) CountAdminsByStatus(ctx context.Context, active bool) (int64, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "CountAdminsByStatus")

	var count int64
	err := r.db.WithContext(ctx).Model(&model.Account{}).
		Where("role = ? AND is_active = ?", constants.RoleAdmin, active).
		Count(&count).Error
	return count, err
}

func (r *DashboardRepository) clinics(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.ClinicProfile{}).
		Joins("JOIN accounts ON accounts.id = clinic_profiles.account_id").
		Where("accounts.role = ?", constants.RoleAdmin)
}

// CountExpiredBefore counts clinics whose subscription ended strictly before t
func (r *DashboardRepository) CountExpiredBefore(ctx context.Context, t time.Time) (int64, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "CountExpiredBefore")

	var count int64
	err := r.clinics(ctx).Where("clinic_profiles.subscription_expiry < ?", t).Count(&count).Error
	return count, err
}

// CountExpiringBetween counts clinics expiring in [from, to]
func (r *DashboardRepository) CountExpiringBetween(ctx context.Context, from, to time.Time) (int64, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "CountExpiringBetween")

	var count int64
	err := r.clinics(ctx).
		Where("clinic_profiles.subscription_expiry >= ? AND clinic_profiles.subscription_expiry <= ?", from, to).
		Count(&count).Error
	return count, err
}

// CountValidAfter counts clinics whose subscription runs past t
func (r *DashboardRepository) CountValidAfter(ctx context.Context, t time.Time) (int64, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "CountValidAfter")

	var count int64
	err := r.clinics(ctx).Where("clinic_profiles.subscription_expiry > ?", t).Count(&count).Error
	return count, err
}

// AdminRegistrationsSince returns the creation time of every ADMIN created at or after since
func (r *DashboardRepository) AdminRegistrationsSince(ctx context.Context, since time.Time) ([]time.Time, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "AdminRegistrationsSince")

	var created []time.Time
	err := r.db.WithContext(ctx).Model(&model.Account{}).
		Where("role = ? AND created_at >= ?", constants.RoleAdmin, since).
		Pluck("created_at", &created).Error
	return created, err
}
