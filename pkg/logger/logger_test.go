package logger

import (
	"context"
	"errors"
	"testing"

	ctxutil "github.com/Payphone-Digital/clinic-admin/pkg/context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T, config PerformanceConfig) *observer.ObservedLogs {
	t.Helper()

	core, logs := observer.New(zapcore.DebugLevel)
	previous := GetOptimizedLogger()
	SetOptimizedLogger(NewOptimizedLoggerWith(config, zap.New(core)))
	t.Cleanup(func() { SetOptimizedLogger(previous) })
	return logs
}

func TestBuilder_ContextFields(t *testing.T) {
	logs := observe(t, DevelopmentConfig())

	ctx := ctxutil.WithRequestID(context.Background(), "req-42")
	ctx = ctxutil.WithUser(ctx, "acc-1", "ADMIN")
	ctx = ctxutil.WithFunction(ctx, "service", "Login")

	WarnWithContext(ctx, "Login rejected").
		String("email", "asha@sunrise.clinic").
		Int("attempt", 2).
		Err(errors.New("bad password")).
		Any("channel", "email").
		Log()

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, "Login rejected", entry.Message)

	fields := entry.ContextMap()
	assert.Equal(t, "req-42", fields["request_id"])
	assert.Equal(t, "acc-1", fields["user_id"])
	assert.Equal(t, "ADMIN", fields["user_role"])
	assert.Equal(t, "Login", fields["function"])
	assert.Equal(t, "asha@sunrise.clinic", fields["email"])
	assert.EqualValues(t, 2, fields["attempt"])
	assert.Equal(t, "email", fields["channel"])
	assert.Equal(t, "bad password", fields["error"])
}

func TestBuilder_RequestFields(t *testing.T) {
	logs := observe(t, DevelopmentConfig())

	InfoWithContext(context.Background(), "Request completed").
		Method("GET").
		Path("/api/v1/admins").
		StatusCode(200).
		Log()

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/api/v1/admins", fields["path"])
	assert.EqualValues(t, 200, fields["status_code"])
}

func TestBuilder_AutoFieldsOff(t *testing.T) {
	logs := observe(t, DevelopmentConfig())

	ctx := ctxutil.WithRequestID(context.Background(), "req-42")
	WithContext(ctx).AutoFields(false).Info("Seed skipped").Log()

	require.Equal(t, 1, logs.Len())
	assert.NotContains(t, logs.All()[0].ContextMap(), "request_id")
}

func TestBuilder_LevelFloor(t *testing.T) {
	logs := observe(t, ProductionConfig())

	DebugWithContext(context.Background(), "hidden").String("k", "v").Log()
	InfoWithContext(context.Background(), "shown").Log()

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "shown", logs.All()[0].Message)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2)

	assert.True(t, rl.Allow())
	assert.True(t, rl.Allow())
	assert.False(t, rl.Allow())
}

func TestGetLogger_NopBeforeInit(t *testing.T) {
	assert.NotNil(t, GetLogger())
}
