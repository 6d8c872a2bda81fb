package service

import (
	"context"
	"strings"

	"github.com/Payphone-Digital/clinic-admin/config"
	"github.com/Payphone-Digital/clinic-admin/internal/constants"
	"github.com/Payphone-Digital/clinic-admin/internal/dto"
	apperrors "github.com/Payphone-Digital/clinic-admin/internal/errors"
	"github.com/Payphone-Digital/clinic-admin/internal/model"
	ctxutil "github.com/Payphone-Digital/clinic-admin/pkg/context"
	"github.com/Payphone-Digital/clinic-admin/pkg/logger"
)

// ProfileKind describes one member role served by ProfileService
type ProfileKind[T any] struct {
	Role  constants.Role
	Label string
	// SelfFields are the columns an owner may change on their own profile
	SelfFields map[string]struct{}
	// ViewRoles may list and read every profile of the kind besides ADMIN
	ViewRoles []constants.Role
	NewCreate func() dto.ProfileCreate[T]
	NewUpdate func() dto.ProfileUpdate
}

var DoctorKind = ProfileKind[model.DoctorProfile]{
	Role:       constants.RoleDoctor,
	Label:      "doctor",
	SelfFields: fieldSet("name", "phone", "experience", "address", "document_url"),
	ViewRoles:  []constants.Role{constants.RoleReceptionist, constants.RolePatient},
	NewCreate:  func() dto.ProfileCreate[model.DoctorProfile] { return &dto.CreateDoctorRequest{} },
	NewUpdate:  func() dto.ProfileUpdate { return &dto.UpdateDoctorRequest{} },
}

var ReceptionistKind = ProfileKind[model.ReceptionistProfile]{
	Role:       constants.RoleReceptionist,
	Label:      "receptionist",
	SelfFields: fieldSet("name", "phone", "experience", "address", "desk_number", "shift_timing"),
	NewCreate:  func() dto.ProfileCreate[model.ReceptionistProfile] { return &dto.CreateReceptionistRequest{} },
	NewUpdate:  func() dto.ProfileUpdate { return &dto.UpdateReceptionistRequest{} },
}

var StaffKind = ProfileKind[model.StaffProfile]{
	Role:       constants.RoleStaff,
	Label:      "staff",
	SelfFields: fieldSet("name", "phone", "experience", "address", "skill"),
	NewCreate:  func() dto.ProfileCreate[model.StaffProfile] { return &dto.CreateStaffRequest{} },
	NewUpdate:  func() dto.ProfileUpdate { return &dto.UpdateStaffRequest{} },
}

type ProfileStore[T any] interface {
	GetByID(ctx context.Context, id string) (*T, error)
	AadhaarExists(ctx context.Context, aadhaar, excludeID string) (bool, error)
	List(ctx context.Context, filter dto.ProfileFilter) ([]T, int64, error)
	Update(ctx context.Context, profileID, accountID string, changes dto.Changes) error
}

type MemberAccounts interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, account *model.Account) error
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
}

// ProfileService is the CRUD surface shared by every member kind
type ProfileService[T any, P interface {
	*T
	model.MemberProfile
}] struct {
	kind           ProfileKind[T]
	profiles       ProfileStore[T]
	accounts       MemberAccounts
	hasher         *PasswordHasher
	notifier       Notifier
	passwordLength int
	loginURL       string
}

func NewProfileService[T any, P interface {
	*T
	model.MemberProfile
}](kind ProfileKind[T], profiles ProfileStore[T], accounts MemberAccounts, hasher *PasswordHasher, notifier Notifier, cfg *config.Config) *ProfileService[T, P] {
	return &ProfileService[T, P]{
		kind:           kind,
		profiles:       profiles,
		accounts:       accounts,
		hasher:         hasher,
		notifier:       notifier,
		passwordLength: cfg.Security.GeneratedPassword,
		loginURL:       cfg.App.ClientURL,
	}
}

func (s *ProfileService[T, P]) Kind() ProfileKind[T] {
	return s.kind
}

// Create registers an account and its profile. A password is generated when none is supplied.
func (s *ProfileService[T, P]) Create(ctx context.Context, caller *Caller, req dto.ProfileCreate[T]) (*dto.CreatedMember[T], error) {
	ctx = ctxutil.WithFunction(ctx, "service", "CreateProfile")

	if err := Authorize(caller, constants.RoleAdmin); err != nil {
		return nil, err
	}

	input := req.AccountFields()
	email := strings.ToLower(strings.TrimSpace(input.Email))
	exists, err := s.accounts.EmailExists(ctx, email)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if exists {
		return nil, apperrors.ErrEmailExists
	}

	profile := req.NewProfile()
	if aadhaar := P(profile).GetAadhaar(); aadhaar != nil {
		taken, err := s.profiles.AadhaarExists(ctx, *aadhaar, "")
		if err != nil {
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}
		if taken {
			return nil, apperrors.ErrAadhaarExists
		}
	}

	password, generated := input.Password, ""
	if password == "" {
		if password, err = GeneratePassword(s.passwordLength); err != nil {
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}
		generated = password
	}
	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	account, err := model.NewAccount(strings.TrimSpace(input.Name), email, strings.TrimSpace(input.Phone), digest, P(profile))
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, storeError(err, apperrors.ErrProfileNotFound, apperrors.ErrDuplicate)
	}

	creds := Credentials{
		Name:     account.Name,
		Email:    account.Email,
		Password: password,
		Role:     s.kind.Role.String(),
		LoginURL: s.loginURL,
	}
	if err := s.notifier.SendCredentials(ctx, account.Email, creds); err != nil {
		logger.ErrorWithContext(ctx, "Failed to send member credentials").
			String("account_id", account.ID).
			String("kind", s.kind.Label).
			Err(err).
			Log()
	}

	logger.InfoWithContext(ctx, "Member profile created").
		String("kind", s.kind.Label).
		String("account_id", account.ID).
		String("profile_id", P(profile).GetID()).
		Bool("generated_password", generated != "").
		Log()

	created, err := s.profiles.GetByID(ctx, P(profile).GetID())
	if err != nil {
		return nil, storeError(err, apperrors.ErrProfileNotFound, apperrors.ErrDuplicate)
	}
	return &dto.CreatedMember[T]{Profile: created, TemporaryPassword: generated}, nil
}

// Get returns one profile to an ADMIN, a viewer role of the kind, or its owner
func (s *ProfileService[T, P]) Get(ctx context.Context, caller *Caller, id string) (*T, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "GetProfile")

	if caller == nil {
		return nil, apperrors.ErrUnauthenticated
	}

	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, apperrors.ErrProfileNotFound, apperrors.ErrDuplicate)
	}

	if caller.Is(s.kind.ViewRoles...) {
		return profile, nil
	}
	if err := AuthorizeOwnerOrAdmin(caller, s.kind.Role, P(profile).GetAccountID()); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService[T, P]) List(ctx context.Context, caller *Caller, filter dto.ProfileFilter) ([]T, int64, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "ListProfiles")

	allowed := append([]constants.Role{constants.RoleAdmin}, s.kind.ViewRoles...)
	if err := Authorize(caller, allowed...); err != nil {
		return nil, 0, err
	}

	profiles, total, err := s.profiles.List(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return profiles, total, nil
}

// Update applies an ADMIN edit in full. An owner edit keeps only the self-editable fields.
func (s *ProfileService[T, P]) Update(ctx context.Context, caller *Caller, id string, req dto.ProfileUpdate) (*T, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "UpdateProfile")

	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, apperrors.ErrProfileNotFound, apperrors.ErrDuplicate)
	}
	accountID := P(profile).GetAccountID()
	if err := AuthorizeOwnerOrAdmin(caller, s.kind.Role, accountID); err != nil {
		return nil, err
	}

	changes := RestrictToFields(caller, req.Changes(), s.kind.SelfFields)
	if changes.Empty() {
		return profile, nil
	}

	if v, ok := changes.Profile["aadhaar"]; ok {
		if aadhaar, _ := v.(*string); aadhaar != nil {
			taken, err := s.profiles.AadhaarExists(ctx, *aadhaar, id)
			if err != nil {
				return nil, apperrors.WrapError(apperrors.ErrInternal, err)
			}
			if taken {
				return nil, apperrors.ErrAadhaarExists
			}
		}
	}

	if err := s.profiles.Update(ctx, id, accountID, changes); err != nil {
		return nil, storeError(err, apperrors.ErrProfileNotFound, apperrors.ErrAadhaarExists)
	}

	logger.InfoWithContext(ctx, "Member profile updated").
		String("kind", s.kind.Label).
		String("profile_id", id).
		String("by_role", caller.Role.String()).
		Log()

	updated, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, apperrors.ErrProfileNotFound, apperrors.ErrDuplicate)
	}
	return updated, nil
}

func (s *ProfileService[T, P]) SetPassword(ctx context.Context, caller *Caller, id, newPassword string) error {
	ctx = ctxutil.WithFunction(ctx, "service", "SetProfilePassword")

	if err := Authorize(caller, constants.RoleAdmin); err != nil {
		return err
	}
	if len(newPassword) < constants.MinPasswordLength {
		return apperrors.InvalidInput("password must be at least 8 characters")
	}

	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return storeError(err, apperrors.ErrProfileNotFound, apperrors.ErrDuplicate)
	}
	digest, err := s.hasher.Hash(newPassword)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if err := s.accounts.UpdateFields(ctx, P(profile).GetAccountID(), map[string]any{"password": digest}); err != nil {
		return storeError(err, apperrors.ErrAccountNotFound, apperrors.ErrDuplicate)
	}

	logger.InfoWithContext(ctx, "Member password set").
		String("kind", s.kind.Label).
		String("profile_id", id).
		Log()
	return nil
}

func (s *ProfileService[T, P]) SetStatus(ctx context.Context, caller *Caller, id string, active bool) error {
	ctx = ctxutil.WithFunction(ctx, "service", "SetProfileStatus")

	if err := Authorize(caller, constants.RoleAdmin); err != nil {
		return err
	}

	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return storeError(err, apperrors.ErrProfileNotFound, apperrors.ErrDuplicate)
	}
	if err := s.accounts.UpdateFields(ctx, P(profile).GetAccountID(), map[string]any{"is_active": active}); err != nil {
		return storeError(err, apperrors.ErrAccountNotFound, apperrors.ErrDuplicate)
	}

	logger.InfoWithContext(ctx, "Member status changed").
		String("kind", s.kind.Label).
		String("profile_id", id).
		Bool("is_active", active).
		Log()
	return nil
}
