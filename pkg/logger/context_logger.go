package logger

import (
	"context"
	"time"

	ctxutil "github.com/Payphone-Digital/clinic-admin/pkg/context"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ContextLogBuilder accumulates fields for one entry and writes it on Log.
// Request scoped values (request id, account, layer, function) are pulled
// from the context automatically.
type ContextLogBuilder struct {
	logger     *OptimizedLogger
	ctx        context.Context
	level      zapcore.Level
	fields     []zap.Field
	message    string
	shouldLog  bool
	autoFields bool
}

// WithContext starts a builder bound to ctx
func (ol *OptimizedLogger) WithContext(ctx context.Context) *ContextLogBuilder {
	return &ContextLogBuilder{
		logger:     ol,
		ctx:        ctx,
		level:      zapcore.InfoLevel,
		fields:     make([]zap.Field, 0, 12),
		shouldLog:  true,
		autoFields: true,
	}
}

// AutoFields toggles extraction of context values
func (clb *ContextLogBuilder) AutoFields(auto bool) *ContextLogBuilder {
	clb.autoFields = auto
	return clb
}

func (clb *ContextLogBuilder) extractContextFields() {
	if !clb.autoFields || clb.ctx == nil {
		return
	}

	appendString := func(key, value string) {
		if value != "" {
			clb.fields = append(clb.fields, zap.String(key, value))
		}
	}

	appendString("request_id", ctxutil.GetRequestID(clb.ctx))
	appendString("client_ip", ctxutil.GetClientIP(clb.ctx))
	appendString("user_agent", ctxutil.GetUserAgent(clb.ctx))
	appendString("user_id", ctxutil.GetUserID(clb.ctx))
	appendString("user_role", ctxutil.GetUserRole(clb.ctx))
	appendString("module", ctxutil.GetModule(clb.ctx))
	appendString("function", ctxutil.GetFunction(clb.ctx))

	if elapsed := ctxutil.GetDuration(clb.ctx); elapsed > 0 {
		clb.fields = append(clb.fields, zap.Duration("elapsed", elapsed))
	}
}

func (clb *ContextLogBuilder) at(level zapcore.Level, message string) *ContextLogBuilder {
	if !clb.logger.ShouldLog(level) {
		clb.shouldLog = false
		return clb
	}
	clb.level = level
	clb.message = message
	clb.extractContextFields()
	return clb
}

func (clb *ContextLogBuilder) Info(message string) *ContextLogBuilder {
	return clb.at(zapcore.InfoLevel, message)
}

func (clb *ContextLogBuilder) Warn(message string) *ContextLogBuilder {
	return clb.at(zapcore.WarnLevel, message)
}

func (clb *ContextLogBuilder) Error(message string) *ContextLogBuilder {
	return clb.at(zapcore.ErrorLevel, message)
}

func (clb *ContextLogBuilder) Debug(message string) *ContextLogBuilder {
	return clb.at(zapcore.DebugLevel, message)
}

func (clb *ContextLogBuilder) add(field zap.Field) *ContextLogBuilder {
	if clb.shouldLog {
		clb.fields = append(clb.fields, field)
	}
	return clb
}

func (clb *ContextLogBuilder) String(key, value string) *ContextLogBuilder {
	return clb.add(zap.String(key, value))
}

func (clb *ContextLogBuilder) Int(key string, value int) *ContextLogBuilder {
	return clb.add(zap.Int(key, value))
}

func (clb *ContextLogBuilder) Int64(key string, value int64) *ContextLogBuilder {
	return clb.add(zap.Int64(key, value))
}

func (clb *ContextLogBuilder) Bool(key string, value bool) *ContextLogBuilder {
	return clb.add(zap.Bool(key, value))
}

func (clb *ContextLogBuilder) Float64(key string, value float64) *ContextLogBuilder {
	return clb.add(zap.Float64(key, value))
}

func (clb *ContextLogBuilder) Time(key string, value time.Time) *ContextLogBuilder {
	return clb.add(zap.Time(key, value))
}

func (clb *ContextLogBuilder) Duration(value time.Duration) *ContextLogBuilder {
	return clb.add(zap.Duration("duration", value))
}

func (clb *ContextLogBuilder) Err(err error) *ContextLogBuilder {
	if err == nil {
		return clb
	}
	return clb.add(zap.Error(err))
}

func (clb *ContextLogBuilder) Any(key string, value interface{}) *ContextLogBuilder {
	return clb.add(zap.Any(key, value))
}

func (clb *ContextLogBuilder) Method(method string) *ContextLogBuilder {
	return clb.add(zap.String("method", method))
}

func (clb *ContextLogBuilder) Path(path string) *ContextLogBuilder {
	return clb.add(zap.String("path", path))
}

func (clb *ContextLogBuilder) StatusCode(code int) *ContextLogBuilder {
	return clb.add(zap.Int("status_code", code))
}

// Log writes the entry
func (clb *ContextLogBuilder) Log() {
	if !clb.shouldLog {
		return
	}

	switch clb.level {
	case zapcore.DebugLevel:
		clb.logger.logger.Debug(clb.message, clb.fields...)
	case zapcore.InfoLevel:
		clb.logger.logger.Info(clb.message, clb.fields...)
	case zapcore.WarnLevel:
		clb.logger.logger.Warn(clb.message, clb.fields...)
	case zapcore.ErrorLevel:
		clb.logger.logger.Error(clb.message, clb.fields...)
	}
}

func WithContext(ctx context.Context) *ContextLogBuilder {
	return GetOptimizedLogger().WithContext(ctx)
}

func InfoWithContext(ctx context.Context, message string) *ContextLogBuilder {
	return GetOptimizedLogger().WithContext(ctx).Info(message)
}

func WarnWithContext(ctx context.Context, message string) *ContextLogBuilder {
	return GetOptimizedLogger().WithContext(ctx).Warn(message)
}

func ErrorWithContext(ctx context.Context, message string) *ContextLogBuilder {
	return GetOptimizedLogger().WithContext(ctx).Error(message)
}

func DebugWithContext(ctx context.Context, message string) *ContextLogBuilder {
	return GetOptimizedLogger().WithContext(ctx).Debug(message)
}
