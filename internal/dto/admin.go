package dto

import "time"

type CreateAdminRequest struct {
	Name               string     `json:"name" binding:"required,min=2,max=100"`
	Email              string     `json:"email" binding:"required,email"`
	Phone              string     `json:"phone" binding:"required,min=10,max=15"`
	ClinicName         string     `json:"clinic_name" binding:"required"`
	Location           string     `json:"location" binding:"required"`
	SubscriptionExpiry *time.Time `json:"subscription_expiry"`
}

type CreateAdminResponse struct {
	Admin             AdminResponse `json:"admin"`
	TemporaryPassword string        `json:"temporary_password"`
}

type UpdateAdminRequest struct {
	Name               *string    `json:"name" binding:"omitempty,min=2,max=100"`
	Phone              *string    `json:"phone" binding:"omitempty,min=10,max=15"`
	ClinicName         *string    `json:"clinic_name" binding:"omitempty,min=1"`
	Location           *string    `json:"location"`
	SubscriptionExpiry *time.Time `json:"subscription_expiry"`
	IsActive           *bool      `json:"is_active"`
}

// Empty reports whether the request changes nothing
func (r UpdateAdminRequest) Empty() bool {
	return r.Name == nil && r.Phone == nil && r.ClinicName == nil &&
		r.Location == nil && r.SubscriptionExpiry == nil && r.IsActive == nil
}

// AdminFilter drives the admin listing
type AdminFilter struct {
	Status       string // active | inactive | all
	Subscription string // active | expiring | expired
	Search       string
	SortBy       string
	SortOrder    string
	Page         int
	Limit        int
	Offset       int
}

type AdminResponse struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Email              string     `json:"email"`
	Phone              string     `json:"phone"`
	IsActive           bool       `json:"is_active"`
	ClinicName         string     `json:"clinic_name"`
	Location           string     `json:"location"`
	SubscriptionExpiry *time.Time `json:"subscription_expiry,omitempty"`
	SubscriptionStatus string     `json:"subscription_status"`
	DaysRemaining      *int       `json:"days_remaining"`
	LastLogin          *time.Time `json:"last_login,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

type AdminListResponse struct {
	Admins []AdminResponse
	Total  int64
	Page   int
	Limit  int
}
