package dto

import (
	"time"

	"github.com/Payphone-Digital/clinic-admin/internal/constants"
)

type SuperAdminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string          `json:"token"`
	ExpiresIn int             `json:"expires_in"` // seconds
	User      AccountResponse `json:"user"`
}

// SendOTPRequest identifies the account by email or phone
type SendOTPRequest struct {
	Identifier string `json:"identifier" binding:"required"`
}

type SendOTPResponse struct {
	Identifier string    `json:"identifier"`
	Channel    string    `json:"channel"`
	ExpiresAt  time.Time `json:"expires_at"`
}

type VerifyOTPRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	OTP        string `json:"otp" binding:"required,otp"`
}

type VerifyOTPResponse struct {
	ResetToken string    `json:"reset_token"`
	ExpiresAt  time.Time `json:"expires_at"`
}

type ResetPasswordRequest struct {
	ResetToken  string `json:"reset_token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=100"`
}

type SetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=8,max=100"`
}

type SetStatusRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// AccountResponse is the public view of an account. Profile carries the role variant.
type AccountResponse struct {
	ID                 string         `json:"id"`
	Name               string         `json:"name"`
	Email              string         `json:"email"`
	Phone              string         `json:"phone,omitempty"`
	Role               constants.Role `json:"role"`
	IsActive           bool           `json:"is_active"`
	SubscriptionExpiry *time.Time     `json:"subscription_expiry,omitempty"`
	LastLogin          *time.Time     `json:"last_login,omitempty"`
	CreatedAt          *time.Time     `json:"created_at,omitempty"`
	Profile            any            `json:"profile,omitempty"`
}
