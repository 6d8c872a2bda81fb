package repository

import (
	"context"
	"strings"
	"time"

	"github.com/Payphone-Digital/clinic-admin/internal/constants"
	"github.com/Payphone-Digital/clinic-admin/internal/dto"
	"github.com/Payphone-Digital/clinic-admin/internal/model"
	ctxutil "github.com/Payphone-Digital/clinic-admin/pkg/context"
	"github.com/Payphone-Digital/clinic-admin/pkg/logger"
	"gorm.io/gorm"
)

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// GetByID loads the account with its clinic profile (if any)
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*model.Account, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "GetByID")

	start := time.Now()
	var account model.Account
	err := r.db.WithContext(ctx).Preload("Clinic").Where("id = ?", id).First(&account).Error
	if err != nil {
		logger.DebugWithContext(ctx, "Account lookup failed").
			String("account_id", id).
			Duration(time.Since(start)).
			Err(err).
			Log()
		return nil, err
	}

	logger.DebugWithContext(ctx, "Account retrieved").
		String("account_id", id).
		String("role", account.Role.String()).
		Duration(time.Since(start)).
		Log()
	return &account, nil
}

// GetWithProfile loads the account and whichever role profile it owns
func (r *AccountRepository) GetWithProfile(ctx context.Context, id string) (*model.Account, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "GetWithProfile")

	var account model.Account
	err := r.db.WithContext(ctx).
		Preload("Clinic").
		Preload("Doctor").
		Preload("Receptionist").
		Preload("Staff").
		Where("id = ?", id).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "GetByEmail")

	start := time.Now()
	var account model.Account
	err := r.db.WithContext(ctx).Preload("Clinic").Where("email = ?", strings.ToLower(email)).First(&account).Error
	if err != nil {
		logger.DebugWithContext(ctx, "Account lookup by email failed").
			String("email", email).
			Duration(time.Since(start)).
			Err(err).
			Log()
		return nil, err
	}
	return &account, nil
}

// GetByIdentifier matches either the email or the phone number
func (r *AccountRepository) GetByIdentifier(ctx context.Context, identifier string) (*model.Account, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "GetByIdentifier")

	var account model.Account
	err := r.db.WithContext(ctx).
		Where("email = ? OR phone = ?", strings.ToLower(identifier), identifier).
		Order("created_at ASC").
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "EmailExists")

	var count int64
	err := r.db.WithContext(ctx).Model(&model.Account{}).Where("email = ?", strings.ToLower(email)).Count(&count).Error
	return count > 0, err
}

// Create inserts the account together with its attached profile
func (r *AccountRepository) Create(ctx context.Context, account *model.Account) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "Create")

	start := time.Now()
	err := r.db.WithContext(ctx).Create(account).Error
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to create account").
			String("email", account.Email).
			String("role", account.Role.String()).
			Duration(time.Since(start)).
			Err(err).
			Log()
		return err
	}

	logger.InfoWithContext(ctx, "Account created").
		String("account_id", account.ID).
		String("role", account.Role.String()).
		Duration(time.Since(start)).
		Log()
	return nil
}

// UpdateFields applies column updates to one account, gorm.ErrRecordNotFound when it does not exist
func (r *AccountRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "UpdateFields")

	result := r.db.WithContext(ctx).Model(&model.Account{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update account").
			String("account_id", id).
			Err(result.Error).
			Log()
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *AccountRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "TouchLastLogin")

	return r.db.WithContext(ctx).Model(&model.Account{}).Where("id = ?", id).Update("last_login", at).Error
}

// SaveOTPChallenge overwrites whatever challenge the account had
func (r *AccountRepository) SaveOTPChallenge(ctx context.Context, id, code string, expiresAt time.Time) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "SaveOTPChallenge")

	result := r.db.WithContext(ctx).Model(&model.Account{}).Where("id = ?", id).Updates(map[string]any{
		"otp_code":       code,
		"otp_expires_at": expiresAt,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ExchangeOTPForGrant clears the challenge and stores the grant digest in one statement.
// It only applies while the stored code still equals code; false means the challenge changed.
func (r *AccountRepository) ExchangeOTPForGrant(ctx context.Context, id, code, tokenHash string, grantExpiry time.Time) (bool, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "ExchangeOTPForGrant")

	result := r.db.WithContext(ctx).Model(&model.Account{}).
		Where("id = ? AND otp_code = ?", id, code).
		Updates(map[string]any{
			"otp_code":         nil,
			"otp_expires_at":   nil,
			"reset_token_hash": tokenHash,
			"reset_expires_at": grantExpiry,
		})
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to exchange OTP for reset grant").
			String("account_id", id).
			Err(result.Error).
			Log()
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// ConsumeResetGrant stores the new password hash and clears the grant, only when a live grant
// with this digest exists. false covers both unknown and expired grants.
func (r *AccountRepository) ConsumeResetGrant(ctx context.Context, tokenHash, passwordHash string, now time.Time) (bool, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "ConsumeResetGrant")

	result := r.db.WithContext(ctx).Model(&model.Account{}).
		Where("reset_token_hash = ? AND reset_expires_at > ?", tokenHash, now).
		Updates(map[string]any{
			"password":         passwordHash,
			"reset_token_hash": nil,
			"reset_expires_at": nil,
		})
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to consume reset grant").
			Err(result.Error).
			Log()
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// GetAdmin loads an ADMIN account with its clinic, gorm.ErrRecordNotFound for any other role
func (r *AccountRepository) GetAdmin(ctx context.Context, id string) (*model.Account, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "GetAdmin")

	var account model.Account
	err := r.db.WithContext(ctx).
		Preload("Clinic").
		Where("id = ? AND role = ?", id, constants.RoleAdmin).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

var adminSortColumns = map[string]string{
	"created_at":          "accounts.created_at",
	"name":                "accounts.name",
	"email":               "accounts.email",
	"subscription_expiry": "clinic_profiles.subscription_expiry",
}

// ListAdmins filters, sorts and pages ADMIN accounts. now and window define the subscription buckets.
func (r *AccountRepository) ListAdmins(ctx context.Context, filter dto.AdminFilter, now time.Time, window time.Duration) ([]model.Account, int64, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "ListAdmins")

	logger.DebugWithContext(ctx, "Listing admins").
		String("status", filter.Status).
		String("subscription", filter.Subscription).
		String("search", filter.Search).
		Int("limit", filter.Limit).
		Int("offset", filter.Offset).
		Log()

	start := time.Now()
	query := r.db.WithContext(ctx).Model(&model.Account{}).
		Joins("LEFT JOIN clinic_profiles ON clinic_profiles.account_id = accounts.id").
		Where("accounts.role = ?", constants.RoleAdmin)

	switch filter.Status {
	case constants.StatusActive:
		query = query.Where("accounts.is_active = ?", true)
	case constants.StatusInactive:
		query = query.Where("accounts.is_active = ?", false)
	}

	horizon := now.Add(window)
	switch filter.Subscription {
	case constants.SubscriptionFilterExpired:
		query = query.Where("clinic_profiles.subscription_expiry < ?", now)
	case constants.SubscriptionFilterExpiring:
		query = query.Where("clinic_profiles.subscription_expiry BETWEEN ? AND ?", now, horizon)
	case constants.SubscriptionFilterActive:
		query = query.Where("clinic_profiles.subscription_expiry > ?", horizon)
	}

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"accounts.name ILIKE ? OR accounts.email ILIKE ? OR accounts.phone ILIKE ? OR clinic_profiles.clinic_name ILIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to count admins").
			Err(err).
			Log()
		return nil, 0, err
	}

	column, ok := adminSortColumns[filter.SortBy]
	if !ok {
		column = adminSortColumns["created_at"]
	}
	order := constants.OrderDesc
	if strings.EqualFold(filter.SortOrder, constants.OrderAsc) {
		order = constants.OrderAsc
	}

	var admins []model.Account
	err := query.Preload("Clinic").
		Order(column + " " + order).
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&admins).Error
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to fetch admins").
			Duration(time.Since(start)).
			Err(err).
			Log()
		return nil, 0, err
	}

	logger.DebugWithContext(ctx, "Admins retrieved").
		Int64("total", total).
		Int("returned_count", len(admins)).
		Duration(time.Since(start)).
		Log()
	return admins, total, nil
}

// UpdateAdmin applies account and clinic changes in one transaction
func (r *AccountRepository) UpdateAdmin(ctx context.Context, id string, accountFields, clinicFields map[string]any) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "UpdateAdmin")

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(accountFields) > 0 {
			result := tx.Model(&model.Account{}).
				Where("id = ? AND role = ?", id, constants.RoleAdmin).
				Updates(accountFields)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		if len(clinicFields) > 0 {
			result := tx.Model(&model.ClinicProfile{}).Where("account_id = ?", id).Updates(clinicFields)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
}
