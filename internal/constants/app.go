package constants

// AppVersion is reported by the health endpoints
const AppVersion = "1.0.0"

// Environment Types
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

const DefaultPort = "8080"

// Redis Key Prefixes
const (
	CacheKeyPrefix      = "clinic:"
	CacheKeyOTPThrottle = CacheKeyPrefix + "otp:throttle:"
)
