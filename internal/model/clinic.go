package model

import (
	"math"
	"time"

	"github.com/Payphone-Digital/clinic-admin/internal/constants"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClinicProfile belongs to an ADMIN account. Past SubscriptionExpiry the admin is locked out.
type ClinicProfile struct {
	ID                 string     `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	AccountID          string     `gorm:"column:account_id;type:uuid;uniqueIndex;not null" json:"account_id"`
	ClinicName         string     `gorm:"column:clinic_name;not null" json:"clinic_name"`
	Location           string     `gorm:"column:location" json:"location"`
	SubscriptionExpiry *time.Time `gorm:"column:subscription_expiry;index" json:"subscription_expiry,omitempty"`
	CreatedAt          time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

func (ClinicProfile) TableName() string { return "clinic_profiles" }

func (p *ClinicProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (p *ClinicProfile) Role() constants.Role { return constants.RoleAdmin }

func (p *ClinicProfile) bind(a *Account) {
	newProfileID(&p.ID)
	p.AccountID = a.ID
	a.Clinic = p
}

// SubscriptionStatus classifies expiry relative to now. window is the expiring-soon horizon.
func SubscriptionStatus(expiry *time.Time, now time.Time, window time.Duration) string {
	switch {
	case expiry == nil:
		return constants.SubscriptionNone
	case now.After(*expiry):
		return constants.SubscriptionExpired
	case !expiry.After(now.Add(window)):
		return constants.SubscriptionExpiringSoon
	default:
		return constants.SubscriptionActive
	}
}

// DaysRemaining counts started days until expiry, nil without a subscription.
// Once expired it counts started days since, so any lapse is at least -1.
func DaysRemaining(expiry *time.Time, now time.Time) *int {
	if expiry == nil {
		return nil
	}
	span := expiry.Sub(now).Hours() / 24
	var days int
	if span < 0 {
		days = int(math.Floor(span))
	} else {
		days = int(math.Ceil(span))
	}
	return &days
}
