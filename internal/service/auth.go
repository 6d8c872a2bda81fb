package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/Payphone-Digital/clinic-admin/config"
	"github.com/Payphone-Digital/clinic-admin/internal/constants"
	"github.com/Payphone-Digital/clinic-admin/internal/dto"
	apperrors "github.com/Payphone-Digital/clinic-admin/internal/errors"
	"github.com/Payphone-Digital/clinic-admin/internal/metrics"
	"github.com/Payphone-Digital/clinic-admin/internal/model"
	ctxutil "github.com/Payphone-Digital/clinic-admin/pkg/context"
	"github.com/Payphone-Digital/clinic-admin/pkg/logger"
	"gorm.io/gorm"
)

type AuthStore interface {
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
	GetWithProfile(ctx context.Context, id string) (*model.Account, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}

type AuthService struct {
	accounts   AuthStore
	hasher     *PasswordHasher
	tokens     *TokenIssuer
	superAdmin config.SuperAdminConfig
	tokenTTL   time.Duration
	now        func() time.Time
}

func NewAuthService(accounts AuthStore, hasher *PasswordHasher, tokens *TokenIssuer, cfg *config.Config) *AuthService {
	return &AuthService{
		accounts:   accounts,
		hasher:     hasher,
		tokens:     tokens,
		superAdmin: cfg.SuperAdmin,
		tokenTTL:   cfg.JWT.ExpirationTime,
		now:        time.Now,
	}
}

// SuperAdminLogin checks the configured operator credentials. Nothing is read from the store.
func (s *AuthService) SuperAdminLogin(ctx context.Context, req dto.SuperAdminLoginRequest) (*dto.LoginResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "SuperAdminLogin")

	if s.superAdmin.Username == "" || s.superAdmin.Password == "" ||
		!constantTimeEqual(req.Username, s.superAdmin.Username) ||
		!constantTimeEqual(req.Password, s.superAdmin.Password) {
		metrics.LoginAttempts.WithLabelValues(constants.RoleSuperAdmin.String(), "invalid_credentials").Inc()
		logger.WarnWithContext(ctx, "Super admin login rejected").Log()
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.tokens.Sign(s.superAdmin.ID, constants.RoleSuperAdmin, s.tokenTTL)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	metrics.LoginAttempts.WithLabelValues(constants.RoleSuperAdmin.String(), "success").Inc()
	logger.InfoWithContext(ctx, "Super admin logged in").Log()

	return &dto.LoginResponse{
		Token:     token,
		ExpiresIn: int(s.tokenTTL.Seconds()),
		User:      s.superAdminView(),
	}, nil
}

// Login authenticates a persisted account by email and password
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "Login")

	start := time.Now()
	account, err := s.accounts.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.LoginAttempts.WithLabelValues("unknown", "invalid_credentials").Inc()
			return nil, apperrors.ErrInvalidCredentials
		}
		logger.ErrorWithContext(ctx, "Failed to load account for login").Err(err).Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	role := account.Role.String()
	if !s.hasher.Verify(req.Password, account.Password) {
		metrics.LoginAttempts.WithLabelValues(role, "invalid_credentials").Inc()
		logger.WarnWithContext(ctx, "Login rejected: wrong password").
			String("account_id", account.ID).
			Log()
		return nil, apperrors.ErrInvalidCredentials
	}

	if !account.IsActive {
		metrics.LoginAttempts.WithLabelValues(role, "disabled").Inc()
		return nil, apperrors.ErrAccountDisabled
	}

	now := s.now()
	if expiry := account.SubscriptionExpiry(); account.Role == constants.RoleAdmin && expiry != nil && now.After(*expiry) {
		metrics.LoginAttempts.WithLabelValues(role, "expired").Inc()
		return nil, apperrors.ErrSubscriptionExpired
	}

	if err := s.accounts.TouchLastLogin(ctx, account.ID, now); err != nil {
		logger.WarnWithContext(ctx, "Failed to record last login").
			String("account_id", account.ID).
			Err(err).
			Log()
	} else {
		account.LastLogin = &now
	}

	token, err := s.tokens.Sign(account.ID, account.Role, s.tokenTTL)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	metrics.LoginAttempts.WithLabelValues(role, "success").Inc()
	logger.InfoWithContext(ctx, "User logged in").
		String("account_id", account.ID).
		String("role", role).
		Duration(time.Since(start)).
		Log()

	return &dto.LoginResponse{
		Token:     token,
		ExpiresIn: int(s.tokenTTL.Seconds()),
		User:      accountView(account),
	}, nil
}

// Me returns the caller's account with its role profile
func (s *AuthService) Me(ctx context.Context, caller *Caller) (*dto.AccountResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "Me")

	if caller == nil {
		return nil, apperrors.ErrUnauthenticated
	}
	if caller.Role == constants.RoleSuperAdmin {
		view := s.superAdminView()
		return &view, nil
	}

	account, err := s.accounts.GetWithProfile(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	view := accountView(account)
	return &view, nil
}

func (s *AuthService) superAdminView() dto.AccountResponse {
	return dto.AccountResponse{
		ID:       s.superAdmin.ID,
		Name:     s.superAdmin.Name,
		Email:    s.superAdmin.Email,
		Role:     constants.RoleSuperAdmin,
		IsActive: true,
	}
}

func accountView(a *model.Account) dto.AccountResponse {
	created := a.CreatedAt
	view := dto.AccountResponse{
		ID:                 a.ID,
		Name:               a.Name,
		Email:              a.Email,
		Phone:              a.Phone,
		Role:               a.Role,
		IsActive:           a.IsActive,
		SubscriptionExpiry: a.SubscriptionExpiry(),
		LastLogin:          a.LastLogin,
		CreatedAt:          &created,
	}
	if p := a.Profile(); p != nil {
		view.Profile = p
	}
	return view
}

func constantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
