package constants

import "time"

// Credential limits
const (
	MinPasswordLength = 8
	OTPLength         = 6
)

// Protocol windows
const (
	DefaultOTPTTL         = 3 * time.Minute
	DefaultResetGrantTTL  = 15 * time.Minute
	DefaultExpiringWindow = 7 * 24 * time.Hour
	ResetTokenBytes       = 32
)

// Validation Patterns
const (
	OTPPattern     = `^[0-9]{6}$`
	AadhaarPattern = `^[0-9]{12}$`
)

// Salary defaults
const (
	DefaultRevisionReason = "Salary revised"
	SalaryPolicyCurrent   = "current"
	SalaryPolicyPeriod    = "period"
)
