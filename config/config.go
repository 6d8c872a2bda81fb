package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Payphone-Digital/clinic-admin/internal/constants"
	"github.com/joho/godotenv"
)

type Config struct {
	App          AppConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	JWT          JWTConfig
	SuperAdmin   SuperAdminConfig
	OTP          OTPConfig
	Security     SecurityConfig
	Subscription SubscriptionConfig
	Salary       SalaryConfig
	SMTP         SMTPConfig
	RateLimit    RateLimitConfig
	Metrics      MetricsConfig
}

type AppConfig struct {
	Name        string        `mapstructure:"name"`
	Environment string        `mapstructure:"environment"`
	Debug       bool          `mapstructure:"debug"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Port        string        `mapstructure:"port"`
	LogsPath    string        `mapstructure:"logs_path"`
	ClientURL   string        `mapstructure:"client_url"`
	SeedDemo    bool          `mapstructure:"seed_demo"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Name            string        `mapstructure:"name"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

type JWTConfig struct {
	Secret         string        `mapstructure:"secret"`
	ExpirationTime time.Duration `mapstructure:"expiration_time"`
	Issuer         string        `mapstructure:"issuer"`
}

// SuperAdminConfig describes the single privileged identity that never lives in the database
type SuperAdminConfig struct {
	ID       string `mapstructure:"id"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Email    string `mapstructure:"email"`
	Name     string `mapstructure:"name"`
}

type OTPConfig struct {
	CodeTTL    time.Duration `mapstructure:"code_ttl"`
	GrantTTL   time.Duration `mapstructure:"grant_ttl"`
	SendLimit  int           `mapstructure:"send_limit"`
	SendWindow time.Duration `mapstructure:"send_window"`
}

type SecurityConfig struct {
	BcryptCost        int `mapstructure:"bcrypt_cost"`
	GeneratedPassword int `mapstructure:"generated_password_length"`
}

type SubscriptionConfig struct {
	DefaultMonths  int           `mapstructure:"default_months"`
	ExpiringWindow time.Duration `mapstructure:"expiring_window"`
}

type SalaryConfig struct {
	// BasePolicy is "current" or "period"
	BasePolicy string `mapstructure:"base_policy"`
}

type SMTPConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	Database     int           `mapstructure:"database"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	PoolTimeout  time.Duration `mapstructure:"pool_timeout"`
}

type RateLimitConfig struct {
	Request  int `mapstructure:"request"`
	Duration int `mapstructure:"duration"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

func LoadConfig() (*Config, error) {
	// A missing .env is fine, the process environment still applies
	_ = godotenv.Load()

	config := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "clinic-admin"),
			Environment: getEnv("APP_ENV", constants.EnvDevelopment),
			Port:        getEnv("APP_PORT", constants.DefaultPort),
			Debug:       getEnvAsBool("APP_DEBUG", true),
			Timeout:     getEnvAsDuration("APP_TIMEOUT", 30*time.Second),
			LogsPath:    getEnv("LOGS_PATH", "./logs"),
			ClientURL:   getEnv("CLIENT_URL", "http://localhost:3000"),
			SeedDemo:    getEnvAsBool("SEED_DEMO", false),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			Name:            getEnv("DB_NAME", "clinic_db"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 50),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
			ConnMaxIdleTime: getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", 10*time.Minute),
			AutoMigrate:     getEnvAsBool("DB_AUTO_MIGRATE", true),
		},
		Redis: RedisConfig{
			Enabled:      getEnvAsBool("REDIS_ENABLED", false),
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnvAsInt("REDIS_PORT", 6379),
			Password:     getEnv("REDIS_PASSWORD", ""),
			Database:     getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 5),
			DialTimeout:  getEnvAsDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getEnvAsDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvAsDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			PoolTimeout:  getEnvAsDuration("REDIS_POOL_TIMEOUT", 4*time.Second),
		},
		JWT: JWTConfig{
			Secret:         getEnv("JWT_SECRET", "default_secret_key_change_in_production"),
			ExpirationTime: getEnvAsDuration("JWT_EXPIRATION", 24*time.Hour),
			Issuer:         getEnv("JWT_ISSUER", "clinic-admin"),
		},
		SuperAdmin: SuperAdminConfig{
			ID:       getEnv("SUPER_ADMIN_ID", "super-admin-001"),
			Username: getEnv("SUPER_ADMIN_USERNAME", "superadmin"),
			Password: getEnv("SUPER_ADMIN_PASSWORD", ""),
			Email:    getEnv("SUPER_ADMIN_EMAIL", "superadmin@clinic.local"),
			Name:     getEnv("SUPER_ADMIN_NAME", "Super Admin"),
		},
		OTP: OTPConfig{
			CodeTTL:    getEnvAsDuration("OTP_TTL", constants.DefaultOTPTTL),
			GrantTTL:   getEnvAsDuration("RESET_GRANT_TTL", constants.DefaultResetGrantTTL),
			SendLimit:  getEnvAsInt("OTP_SEND_LIMIT", 5),
			SendWindow: getEnvAsDuration("OTP_SEND_WINDOW", 15*time.Minute),
		},
		Security: SecurityConfig{
			BcryptCost:        getEnvAsInt("BCRYPT_COST", 12),
			GeneratedPassword: getEnvAsInt("GENERATED_PASSWORD_LENGTH", 12),
		},
		Subscription: SubscriptionConfig{
			DefaultMonths:  getEnvAsInt("SUBSCRIPTION_DEFAULT_MONTHS", 1),
			ExpiringWindow: getEnvAsDuration("SUBSCRIPTION_EXPIRING_WINDOW", constants.DefaultExpiringWindow),
		},
		Salary: SalaryConfig{
			BasePolicy: getEnv("SALARY_BASE_POLICY", constants.SalaryPolicyCurrent),
		},
		SMTP: SMTPConfig{
			Enabled:  getEnvAsBool("SMTP_ENABLED", false),
			Host:     getEnv("SMTP_HOST", "localhost"),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", "no-reply@clinic.local"),
		},
		RateLimit: RateLimitConfig{
			Request:  getEnvAsInt("RATE_LIMIT_MAX_REQUEST", 100),
			Duration: getEnvAsInt("RATE_LIMIT_DURATION", 60),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvAsBool("METRICS_ENABLED", true),
			Path:    getEnv("METRICS_PATH", "/metrics"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate rejects configurations the service cannot run with
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	if c.SuperAdmin.ID == "" {
		return fmt.Errorf("SUPER_ADMIN_ID must be set")
	}
	if c.Salary.BasePolicy != constants.SalaryPolicyCurrent && c.Salary.BasePolicy != constants.SalaryPolicyPeriod {
		return fmt.Errorf("SALARY_BASE_POLICY must be current or period, got %q", c.Salary.BasePolicy)
	}
	if c.Security.BcryptCost < 4 || c.Security.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST out of range: %d", c.Security.BcryptCost)
	}
	if c.Security.GeneratedPassword < 8 {
		return fmt.Errorf("GENERATED_PASSWORD_LENGTH must be at least 8")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == constants.EnvProduction
}

func (c *Config) DatabaseConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func (c *Config) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		boolValue, err := strconv.ParseBool(value)
		if err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
