package model

import (
	"fmt"
	"time"

	"github.com/Payphone-Digital/clinic-admin/internal/constants"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Account is a login capable identity with exactly one role. Accounts are
// deactivated, never deleted.
type Account struct {
	ID        string         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name      string         `gorm:"column:name;not null" json:"name"`
	Email     string         `gorm:"column:email;uniqueIndex;not null" json:"email"`
	Phone     string         `gorm:"column:phone;index" json:"phone"`
	Password  string         `gorm:"column:password;not null" json:"-"`
	Role      constants.Role `gorm:"column:role;type:varchar(20);index;not null" json:"role"`
	IsActive  bool           `gorm:"column:is_active;default:true;not null" json:"is_active"`
	LastLogin *time.Time     `gorm:"column:last_login" json:"last_login,omitempty"`
	CreatedAt time.Time      `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at" json:"updated_at"`

	OTP   OTPChallenge `gorm:"embedded;embeddedPrefix:otp_" json:"-"`
	Reset ResetGrant   `gorm:"embedded;embeddedPrefix:reset_" json:"-"`

	Clinic       *ClinicProfile       `gorm:"foreignKey:AccountID" json:"clinic,omitempty"`
	Doctor       *DoctorProfile       `gorm:"foreignKey:AccountID" json:"doctor,omitempty"`
	Receptionist *ReceptionistProfile `gorm:"foreignKey:AccountID" json:"receptionist,omitempty"`
	Staff        *StaffProfile        `gorm:"foreignKey:AccountID" json:"staff,omitempty"`
}

func (Account) TableName() string {
	return "accounts"
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// OTPChallenge is the live one-time code of an account, if any
type OTPChallenge struct {
	Code      *string    `gorm:"column:code;type:varchar(6)"`
	ExpiresAt *time.Time `gorm:"column:expires_at"`
}

// Live reports whether a challenge has been issued and not yet consumed
func (o OTPChallenge) Live() bool {
	return o.Code != nil && o.ExpiresAt != nil
}

// ResetGrant holds the digest of the single-use reset token issued after OTP verification
type ResetGrant struct {
	TokenHash *string    `gorm:"column:token_hash;type:varchar(64);index"`
	ExpiresAt *time.Time `gorm:"column:expires_at"`
}

// NewAccount builds an account whose role is taken from the profile variant.
// Exactly one profile is attached.
func NewAccount(name, email, phone, passwordHash string, profile RoleProfile) (*Account, error) {
	if profile == nil {
		return nil, fmt.Errorf("account %s: role profile is required", email)
	}

	account := &Account{
		ID:       uuid.NewString(),
		Name:     name,
		Email:    email,
		Phone:    phone,
		Password: passwordHash,
		Role:     profile.Role(),
		IsActive: true,
	}
	if err := account.Attach(profile); err != nil {
		return nil, err
	}
	return account, nil
}

// Attach sets the profile variant matching the account role and clears the others
func (a *Account) Attach(profile RoleProfile) error {
	if profile.Role() != a.Role {
		return fmt.Errorf("profile for %s cannot be attached to a %s account", profile.Role(), a.Role)
	}

	a.Clinic, a.Doctor, a.Receptionist, a.Staff = nil, nil, nil, nil
	profile.bind(a)
	return nil
}

// Profile returns the populated profile variant, nil when none is loaded
func (a *Account) Profile() RoleProfile {
	switch a.Role {
	case constants.RoleAdmin:
		if a.Clinic != nil {
			return a.Clinic
		}
	case constants.RoleDoctor:
		if a.Doctor != nil {
			return a.Doctor
		}
	case constants.RoleReceptionist:
		if a.Receptionist != nil {
			return a.Receptionist
		}
	case constants.RoleStaff:
		if a.Staff != nil {
			return a.Staff
		}
	}
	return nil
}

// SubscriptionExpiry returns the clinic expiry of an ADMIN account when loaded
func (a *Account) SubscriptionExpiry() *time.Time {
	if a.Role != constants.RoleAdmin || a.Clinic == nil {
		return nil
	}
	return a.Clinic.SubscriptionExpiry
}
