package service

import (
	"context"
	"strings"
	"time"

	"github.com/Payphone-Digital/clinic-admin/config"
	"github.com/Payphone-Digital/clinic-admin/internal/constants"
	"github.com/Payphone-Digital/clinic-admin/internal/dto"
	apperrors "github.com/Payphone-Digital/clinic-admin/internal/errors"
	"github.com/Payphone-Digital/clinic-admin/internal/model"
	ctxutil "github.com/Payphone-Digital/clinic-admin/pkg/context"
	"github.com/Payphone-Digital/clinic-admin/pkg/logger"
)

type AdminStore interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, account *model.Account) error
	GetAdmin(ctx context.Context, id string) (*model.Account, error)
	ListAdmins(ctx context.Context, filter dto.AdminFilter, now time.Time, window time.Duration) ([]model.Account, int64, error)
	UpdateAdmin(ctx context.Context, id string, accountFields, clinicFields map[string]any) error
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
}

// AdminService manages clinic admin accounts on behalf of the super admin
type AdminService struct {
	store          AdminStore
	hasher         *PasswordHasher
	notifier       Notifier
	defaultMonths  int
	expiringWindow time.Duration
	passwordLength int
	loginURL       string
	now            func() time.Time
}

func NewAdminService(store AdminStore, hasher *PasswordHasher, notifier Notifier, cfg *config.Config) *AdminService {
	return &AdminService{
		store:          store,
		hasher:         hasher,
		notifier:       notifier,
		defaultMonths:  cfg.Subscription.DefaultMonths,
		expiringWindow: cfg.Subscription.ExpiringWindow,
		passwordLength: cfg.Security.GeneratedPassword,
		loginURL:       cfg.App.ClientURL,
		now:            time.Now,
	}
}

func (s *AdminService) CreateAdmin(ctx context.Context, caller *Caller, req dto.CreateAdminRequest) (*dto.CreateAdminResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "CreateAdmin")

	if err := Authorize(caller, constants.RoleSuperAdmin); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	exists, err := s.store.EmailExists(ctx, email)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if exists {
		return nil, apperrors.ErrEmailExists
	}

	password, err := GeneratePassword(s.passwordLength)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	expiry := req.SubscriptionExpiry
	if expiry == nil {
		t := s.now().AddDate(0, s.defaultMonths, 0)
		expiry = &t
	}

	clinic := &model.ClinicProfile{
		ClinicName:         strings.TrimSpace(req.ClinicName),
		Location:           strings.TrimSpace(req.Location),
		SubscriptionExpiry: expiry,
	}
	account, err := model.NewAccount(strings.TrimSpace(req.Name), email, strings.TrimSpace(req.Phone), digest, clinic)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.store.Create(ctx, account); err != nil {
		return nil, storeError(err, apperrors.ErrAdminNotFound, apperrors.ErrEmailExists)
	}

	creds := Credentials{
		Name:       account.Name,
		Email:      account.Email,
		Password:   password,
		Role:       constants.RoleAdmin.String(),
		ClinicName: clinic.ClinicName,
		LoginURL:   s.loginURL,
	}
	if err := s.notifier.SendCredentials(ctx, account.Email, creds); err != nil {
		logger.ErrorWithContext(ctx, "Failed to send admin credentials").
			String("account_id", account.ID).
			Err(err).
			Log()
	}

	logger.InfoWithContext(ctx, "Clinic admin created").
		String("account_id", account.ID).
		String("clinic_name", clinic.ClinicName).
		Time("subscription_expiry", *expiry).
		Log()

	return &dto.CreateAdminResponse{
		Admin:             s.adminView(account),
		TemporaryPassword: password,
	}, nil
}

func (s *AdminService) ListAdmins(ctx context.Context, caller *Caller, filter dto.AdminFilter) (*dto.AdminListResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "ListAdmins")

	if err := Authorize(caller, constants.RoleSuperAdmin); err != nil {
		return nil, err
	}

	now := s.now()
	admins, total, err := s.store.ListAdmins(ctx, filter, now, s.expiringWindow)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	views := make([]dto.AdminResponse, 0, len(admins))
	for i := range admins {
		views = append(views, s.adminViewAt(&admins[i], now))
	}

	return &dto.AdminListResponse{
		Admins: views,
		Total:  total,
		Page:   filter.Page,
		Limit:  filter.Limit,
	}, nil
}

// GetAdmin is open to the super admin and to the admin reading their own record
func (s *AdminService) GetAdmin(ctx context.Context, caller *Caller, id string) (*dto.AdminResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "GetAdmin")

	if caller == nil {
		return nil, apperrors.ErrUnauthenticated
	}
	if !caller.Is(constants.RoleSuperAdmin) && !(caller.Is(constants.RoleAdmin) && caller.ID == id) {
		return nil, apperrors.ErrForbidden
	}

	account, err := s.store.GetAdmin(ctx, id)
	if err != nil {
		return nil, storeError(err, apperrors.ErrAdminNotFound, apperrors.ErrDuplicate)
	}

	view := s.adminView(account)
	return &view, nil
}

func (s *AdminService) UpdateAdmin(ctx context.Context, caller *Caller, id string, req dto.UpdateAdminRequest) (*dto.AdminResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "UpdateAdmin")

	if err := Authorize(caller, constants.RoleSuperAdmin); err != nil {
		return nil, err
	}
	if req.Empty() {
		return nil, apperrors.InvalidInput("no fields to update")
	}

	accountFields := map[string]any{}
	if req.Name != nil {
		accountFields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		accountFields["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.IsActive != nil {
		accountFields["is_active"] = *req.IsActive
	}

	clinicFields := map[string]any{}
	if req.ClinicName != nil {
		clinicFields["clinic_name"] = strings.TrimSpace(*req.ClinicName)
	}
	if req.Location != nil {
		clinicFields["location"] = strings.TrimSpace(*req.Location)
	}
	if req.SubscriptionExpiry != nil {
		clinicFields["subscription_expiry"] = *req.SubscriptionExpiry
	}

	// existence and role are checked up front so a clinic-only update cannot touch a non-admin
	if _, err := s.store.GetAdmin(ctx, id); err != nil {
		return nil, storeError(err, apperrors.ErrAdminNotFound, apperrors.ErrDuplicate)
	}
	if err := s.store.UpdateAdmin(ctx, id, accountFields, clinicFields); err != nil {
		return nil, storeError(err, apperrors.ErrAdminNotFound, apperrors.ErrDuplicate)
	}

	logger.InfoWithContext(ctx, "Clinic admin updated").
		String("account_id", id).
		Int("account_fields", len(accountFields)).
		Int("clinic_fields", len(clinicFields)).
		Log()

	account, err := s.store.GetAdmin(ctx, id)
	if err != nil {
		return nil, storeError(err, apperrors.ErrAdminNotFound, apperrors.ErrDuplicate)
	}
	view := s.adminView(account)
	return &view, nil
}

func (s *AdminService) SetAdminPassword(ctx context.Context, caller *Caller, id, newPassword string) error {
	ctx = ctxutil.WithFunction(ctx, "service", "SetAdminPassword")

	if err := Authorize(caller, constants.RoleSuperAdmin); err != nil {
		return err
	}
	if len(newPassword) < constants.MinPasswordLength {
		return apperrors.InvalidInput("password must be at least 8 characters")
	}
	if _, err := s.store.GetAdmin(ctx, id); err != nil {
		return storeError(err, apperrors.ErrAdminNotFound, apperrors.ErrDuplicate)
	}

	digest, err := s.hasher.Hash(newPassword)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if err := s.store.UpdateFields(ctx, id, map[string]any{"password": digest}); err != nil {
		return storeError(err, apperrors.ErrAdminNotFound, apperrors.ErrDuplicate)
	}

	logger.InfoWithContext(ctx, "Admin password set").String("account_id", id).Log()
	return nil
}

// SetAdminStatus enables or disables an admin. The self check runs before the role check.
func (s *AdminService) SetAdminStatus(ctx context.Context, caller *Caller, id string, active bool) error {
	ctx = ctxutil.WithFunction(ctx, "service", "SetAdminStatus")

	if err := ForbidSelf(caller, id); err != nil {
		return err
	}
	if err := Authorize(caller, constants.RoleSuperAdmin); err != nil {
		return err
	}
	if _, err := s.store.GetAdmin(ctx, id); err != nil {
		return storeError(err, apperrors.ErrAdminNotFound, apperrors.ErrDuplicate)
	}
	if err := s.store.UpdateFields(ctx, id, map[string]any{"is_active": active}); err != nil {
		return storeError(err, apperrors.ErrAdminNotFound, apperrors.ErrDuplicate)
	}

	logger.InfoWithContext(ctx, "Admin status changed").
		String("account_id", id).
		Bool("is_active", active).
		Log()
	return nil
}

func (s *AdminService) adminView(a *model.Account) dto.AdminResponse {
	return s.adminViewAt(a, s.now())
}

func (s *AdminService) adminViewAt(a *model.Account, now time.Time) dto.AdminResponse {
	expiry := a.SubscriptionExpiry()
	view := dto.AdminResponse{
		ID:                 a.ID,
		Name:               a.Name,
		Email:              a.Email,
		Phone:              a.Phone,
		IsActive:           a.IsActive,
		SubscriptionExpiry: expiry,
		SubscriptionStatus: model.SubscriptionStatus(expiry, now, s.expiringWindow),
		DaysRemaining:      model.DaysRemaining(expiry, now),
		LastLogin:          a.LastLogin,
		CreatedAt:          a.CreatedAt,
	}
	if a.Clinic != nil {
		view.ClinicName = a.Clinic.ClinicName
		view.Location = a.Clinic.Location
	}
	return view
}
