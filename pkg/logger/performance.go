package logger

import (
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// PerformanceConfig tunes the builder logger
type PerformanceConfig struct {
	SamplingRate    float64       `json:"sampling_rate"`
	MinLogLevel     zapcore.Level `json:"min_log_level"`
	EnableSampling  bool          `json:"enable_sampling"`
	MaxLogPerSecond int           `json:"max_log_per_second"`
	EnableRateLimit bool          `json:"enable_rate_limit"`
}

// DefaultPerformanceConfig is used when nothing was initialised
func DefaultPerformanceConfig() PerformanceConfig {
	return PerformanceConfig{
		SamplingRate:    1.0,
		MinLogLevel:     zapcore.InfoLevel,
		MaxLogPerSecond: 1000,
	}
}

// ProductionConfig samples and rate limits
func ProductionConfig() PerformanceConfig {
	return PerformanceConfig{
		SamplingRate:    0.1,
		MinLogLevel:     zapcore.InfoLevel,
		EnableSampling:  true,
		MaxLogPerSecond: 500,
		EnableRateLimit: true,
	}
}

// DevelopmentConfig logs everything
func DevelopmentConfig() PerformanceConfig {
	return PerformanceConfig{
		SamplingRate:    1.0,
		MinLogLevel:     zapcore.DebugLevel,
		MaxLogPerSecond: 10000,
	}
}

// OptimizedLogger drops entries below the configured level or above the per-second budget
// before any field is built.
type OptimizedLogger struct {
	config      PerformanceConfig
	logger      *zap.Logger
	rateLimiter *RateLimiter
}

// RateLimiter caps the number of entries written per second
type RateLimiter struct {
	maxLogs   int
	current   int
	lastReset time.Time
	mu        sync.Mutex
}

func NewRateLimiter(maxLogs int) *RateLimiter {
	return &RateLimiter{
		maxLogs:   maxLogs,
		lastReset: time.Now(),
	}
}

func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if now.Sub(rl.lastReset) >= time.Second {
		rl.current = 0
		rl.lastReset = now
	}

	if rl.current >= rl.maxLogs {
		return false
	}

	rl.current++
	return true
}

// NewOptimizedLogger builds a JSON stdout logger for the given profile
func NewOptimizedLogger(config PerformanceConfig) (*OptimizedLogger, error) {
	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(config.MinLogLevel)
	zapConfig.OutputPaths = []string{"stdout"}
	zapConfig.ErrorOutputPaths = []string{"stderr"}
	zapConfig.EncoderConfig.TimeKey = "timestamp"
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapConfig.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	zapConfig.DisableStacktrace = true
	zapConfig.Sampling = nil

	zapLogger, err := zapConfig.Build(zap.WithCaller(false))
	if err != nil {
		return nil, err
	}

	if config.EnableSampling {
		zapLogger = zapLogger.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewSamplerWithOptions(core, time.Second, int(config.SamplingRate*100), 0)
		}))
	}

	return newOptimizedLogger(config, zapLogger), nil
}

// NewOptimizedLoggerWith wraps an existing zap logger, used by tests with zap.NewNop
func NewOptimizedLoggerWith(config PerformanceConfig, zapLogger *zap.Logger) *OptimizedLogger {
	return newOptimizedLogger(config, zapLogger)
}

func newOptimizedLogger(config PerformanceConfig, zapLogger *zap.Logger) *OptimizedLogger {
	return &OptimizedLogger{
		config:      config,
		logger:      zapLogger,
		rateLimiter: NewRateLimiter(config.MaxLogPerSecond),
	}
}

// ShouldLog reports whether an entry at level would be written
func (ol *OptimizedLogger) ShouldLog(level zapcore.Level) bool {
	if level < ol.config.MinLogLevel {
		return false
	}

	if ol.config.EnableRateLimit && !ol.rateLimiter.Allow() {
		return false
	}

	return true
}

var (
	optimizedLogger *OptimizedLogger
	optimizedMu     sync.RWMutex
)

// InitOptimizedLogger installs the process-wide builder logger
func InitOptimizedLogger(config PerformanceConfig) error {
	logger, err := NewOptimizedLogger(config)
	if err != nil {
		return err
	}
	SetOptimizedLogger(logger)
	return nil
}

// SetOptimizedLogger replaces the process-wide builder logger
func SetOptimizedLogger(logger *OptimizedLogger) {
	optimizedMu.Lock()
	optimizedLogger = logger
	optimizedMu.Unlock()
}

// GetOptimizedLogger returns the builder logger, creating one from GO_ENV on first use
func GetOptimizedLogger() *OptimizedLogger {
	optimizedMu.RLock()
	logger := optimizedLogger
	optimizedMu.RUnlock()
	if logger != nil {
		return logger
	}

	config := DefaultPerformanceConfig()
	switch os.Getenv("GO_ENV") {
	case "production":
		config = ProductionConfig()
	case "development":
		config = DevelopmentConfig()
	}

	built, err := NewOptimizedLogger(config)
	if err != nil {
		built = newOptimizedLogger(config, zap.NewNop())
	}

	optimizedMu.Lock()
	defer optimizedMu.Unlock()
	if optimizedLogger == nil {
		optimizedLogger = built
	}
	return optimizedLogger
}
