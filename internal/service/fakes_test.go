package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Payphone-Digital/clinic-admin/config"
	"github.com/Payphone-Digital/clinic-admin/internal/constants"
	"github.com/Payphone-Digital/clinic-admin/internal/dto"
	"github.com/Payphone-Digital/clinic-admin/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	errStoreDown = errors.New("connection refused")
	testNow      = time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func testHasher() *PasswordHasher {
	return NewPasswordHasher(bcrypt.MinCost)
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{ClientURL: "http://clinic.test"},
		JWT: config.JWTConfig{Secret: "test-secret", ExpirationTime: time.Hour, Issuer: "clinic-admin"},
		SuperAdmin: config.SuperAdminConfig{
			ID:       "super-admin-001",
			Username: "root",
			Password: "s3cret-pass",
			Email:    "root@clinic.test",
			Name:     "Root",
		},
		OTP:          config.OTPConfig{CodeTTL: 3 * time.Minute, GrantTTL: 15 * time.Minute},
		Security:     config.SecurityConfig{BcryptCost: bcrypt.MinCost, GeneratedPassword: 12},
		Subscription: config.SubscriptionConfig{DefaultMonths: 1, ExpiringWindow: 7 * 24 * time.Hour},
	}
}

func superAdminCaller() *Caller {
	return &Caller{ID: "super-admin-001", Role: constants.RoleSuperAdmin, IsActive: true}
}

func adminCaller(id string) *Caller {
	return &Caller{ID: id, Role: constants.RoleAdmin, IsActive: true}
}

// fakeAccounts is an in-memory account table satisfying every account facing store interface
type fakeAccounts struct {
	mu       sync.Mutex
	byID     map[string]*model.Account
	err      error
	creates  int
	updates  []map[string]any
	touchErr error
}

func newFakeAccounts(accounts ...*model.Account) *fakeAccounts {
	f := &fakeAccounts{byID: map[string]*model.Account{}}
	for _, a := range accounts {
		f.byID[a.ID] = a
	}
	return f
}

func (f *fakeAccounts) get(id string) (*model.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	a, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAccounts) GetByID(_ context.Context, id string) (*model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.get(id)
}

func (f *fakeAccounts) GetWithProfile(ctx context.Context, id string) (*model.Account, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeAccounts) GetByEmail(_ context.Context, email string) (*model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, a := range f.byID {
		if a.Email == strings.ToLower(email) {
			cp := *a
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAccounts) GetByIdentifier(_ context.Context, identifier string) (*model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, a := range f.byID {
		if a.Email == strings.ToLower(identifier) || a.Phone == identifier {
			cp := *a
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAccounts) EmailExists(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	for _, a := range f.byID {
		if a.Email == strings.ToLower(email) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAccounts) Create(_ context.Context, account *model.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	account.CreatedAt = testNow
	f.byID[account.ID] = account
	f.creates++
	return nil
}

func (f *fakeAccounts) UpdateFields(_ context.Context, id string, fields map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	a, ok := f.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	f.updates = append(f.updates, fields)
	for k, v := range fields {
		switch k {
		case "password":
			a.Password = v.(string)
		case "is_active":
			a.IsActive = v.(bool)
		case "name":
			a.Name = v.(string)
		case "phone":
			a.Phone = v.(string)
		}
	}
	return nil
}

func (f *fakeAccounts) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.touchErr != nil {
		return f.touchErr
	}
	if a, ok := f.byID[id]; ok {
		a.LastLogin = &at
	}
	return nil
}

func (f *fakeAccounts) SaveOTPChallenge(_ context.Context, id, code string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.OTP = model.OTPChallenge{Code: &code, ExpiresAt: &expiresAt}
	return nil
}

func (f *fakeAccounts) ExchangeOTPForGrant(_ context.Context, id, code, tokenHash string, grantExpiry time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok || a.OTP.Code == nil || *a.OTP.Code != code {
		return false, nil
	}
	a.OTP = model.OTPChallenge{}
	a.Reset = model.ResetGrant{TokenHash: &tokenHash, ExpiresAt: &grantExpiry}
	return true, nil
}

func (f *fakeAccounts) ConsumeResetGrant(_ context.Context, tokenHash, passwordHash string, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byID {
		if a.Reset.TokenHash != nil && *a.Reset.TokenHash == tokenHash && a.Reset.ExpiresAt.After(now) {
			a.Password = passwordHash
			a.Reset = model.ResetGrant{}
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAccounts) GetAdmin(ctx context.Context, id string) (*model.Account, error) {
	a, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Role != constants.RoleAdmin {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (f *fakeAccounts) ListAdmins(_ context.Context, filter dto.AdminFilter, _ time.Time, _ time.Duration) ([]model.Account, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, 0, f.err
	}
	var admins []model.Account
	for _, a := range f.byID {
		if a.Role == constants.RoleAdmin {
			admins = append(admins, *a)
		}
	}
	sort.Slice(admins, func(i, j int) bool { return admins[i].Email < admins[j].Email })
	return admins, int64(len(admins)), nil
}

func (f *fakeAccounts) UpdateAdmin(_ context.Context, id string, accountFields, clinicFields map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok || a.Role != constants.RoleAdmin {
		return gorm.ErrRecordNotFound
	}
	for k, v := range accountFields {
		switch k {
		case "name":
			a.Name = v.(string)
		case "phone":
			a.Phone = v.(string)
		case "is_active":
			a.IsActive = v.(bool)
		}
	}
	if a.Clinic != nil {
		for k, v := range clinicFields {
			switch k {
			case "clinic_name":
				a.Clinic.ClinicName = v.(string)
			case "location":
				a.Clinic.Location = v.(string)
			case "subscription_expiry":
				t := v.(time.Time)
				a.Clinic.SubscriptionExpiry = &t
			}
		}
	}
	return nil
}

type sentMessage struct {
	kind    string
	address string
	code    string
	creds   Credentials
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (n *fakeNotifier) SendCredentials(_ context.Context, address string, creds Credentials) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMessage{kind: "credentials", address: address, creds: creds})
	return n.err
}

func (n *fakeNotifier) SendOTP(_ context.Context, address, code, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMessage{kind: "otp", address: address, code: code})
	return n.err
}

func newAdminAccount(id, email string, active bool, expiry *time.Time) *model.Account {
	return &model.Account{
		ID:       id,
		Name:     "Clinic Owner",
		Email:    email,
		Phone:    "9000000001",
		Role:     constants.RoleAdmin,
		IsActive: active,
		Clinic: &model.ClinicProfile{
			ID:                 "clinic-" + id,
			AccountID:          id,
			ClinicName:         "Sunrise Clinic",
			Location:           "Pune",
			SubscriptionExpiry: expiry,
		},
	}
}

func newMemberAccount(id, email, phone string, role constants.Role, active bool) *model.Account {
	return &model.Account{ID: id, Name: "Member " + id, Email: email, Phone: phone, Role: role, IsActive: active}
}

func timePtr(t time.Time) *time.Time { return &t }
