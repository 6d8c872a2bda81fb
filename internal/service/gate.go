package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Payphone-Digital/clinic-admin/config"
	"github.com/Payphone-Digital/clinic-admin/internal/constants"
	apperrors "github.com/Payphone-Digital/clinic-admin/internal/errors"
	"github.com/Payphone-Digital/clinic-admin/internal/model"
	ctxutil "github.com/Payphone-Digital/clinic-admin/pkg/context"
	"github.com/Payphone-Digital/clinic-admin/pkg/logger"
	"gorm.io/gorm"
)

// Caller is the authenticated identity attached to a request
type Caller struct {
	ID                 string
	Role               constants.Role
	Email              string
	Name               string
	IsActive           bool
	SubscriptionExpiry *time.Time
}

// Is reports whether the caller holds one of roles
func (c *Caller) Is(roles ...constants.Role) bool {
	if c == nil {
		return false
	}
	for _, r := range roles {
		if c.Role == r {
			return true
		}
	}
	return false
}

type TokenVerifier interface {
	Verify(token string) (*SessionClaims, error)
}

type AccountLookup interface {
	GetByID(ctx context.Context, id string) (*model.Account, error)
}

// AccessGate turns a bearer header into a Caller
type AccessGate struct {
	tokens     TokenVerifier
	accounts   AccountLookup
	superAdmin config.SuperAdminConfig
	now        func() time.Time
}

func NewAccessGate(tokens TokenVerifier, accounts AccountLookup, superAdmin config.SuperAdminConfig) *AccessGate {
	return &AccessGate{
		tokens:     tokens,
		accounts:   accounts,
		superAdmin: superAdmin,
		now:        time.Now,
	}
}

// Authenticate verifies the Authorization header value. The super admin is synthesized
// from configuration; every other caller is loaded from the store on each request so
// that deactivation and subscription expiry take effect immediately.
func (g *AccessGate) Authenticate(ctx context.Context, header string) (*Caller, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "Authenticate")

	token, ok := bearerToken(header)
	if !ok {
		return nil, apperrors.ErrUnauthenticated
	}

	claims, err := g.tokens.Verify(token)
	if err != nil {
		logger.DebugWithContext(ctx, "Token rejected").Err(err).Log()
		return nil, err
	}

	if claims.Role == constants.RoleSuperAdmin {
		if claims.Subject != g.superAdmin.ID {
			return nil, apperrors.ErrInvalidToken
		}
		return &Caller{
			ID:       g.superAdmin.ID,
			Role:     constants.RoleSuperAdmin,
			Email:    g.superAdmin.Email,
			Name:     g.superAdmin.Name,
			IsActive: true,
		}, nil
	}

	account, err := g.accounts.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUnauthenticated
		}
		logger.ErrorWithContext(ctx, "Failed to load caller account").
			String("account_id", claims.Subject).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if !account.IsActive {
		logger.WarnWithContext(ctx, "Disabled account presented a token").
			String("account_id", account.ID).
			Log()
		return nil, apperrors.ErrAccountDisabled
	}

	expiry := account.SubscriptionExpiry()
	if account.Role == constants.RoleAdmin && expiry != nil && g.now().After(*expiry) {
		logger.WarnWithContext(ctx, "Admin with expired subscription presented a token").
			String("account_id", account.ID).
			Time("subscription_expiry", *expiry).
			Log()
		return nil, apperrors.ErrSubscriptionExpired
	}

	return &Caller{
		ID:                 account.ID,
		Role:               account.Role,
		Email:              account.Email,
		Name:               account.Name,
		IsActive:           account.IsActive,
		SubscriptionExpiry: expiry,
	}, nil
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], constants.BearerScheme) {
		return "", false
	}
	return parts[1], true
}
