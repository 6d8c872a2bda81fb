package redis

import (
	"context"
	"testing"
	"time"

	"github.com/Payphone-Digital/clinic-admin/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_Disabled(t *testing.T) {
	cfg := &config.Config{Redis: config.RedisConfig{Enabled: false}}

	client, err := NewClient(cfg)
	require.NoError(t, err)
	require.NotNil(t, client)

	ctx := context.Background()
	assert.False(t, client.IsEnabled())
	assert.ErrorIs(t, client.Ping(ctx), ErrDisabled)
	assert.ErrorIs(t, client.Delete(ctx, "k"), ErrDisabled)
	assert.Nil(t, client.PoolStats())
	assert.NoError(t, client.Close())

	n, err := client.IncrWithTTL(ctx, "otp:send:a@b.c", time.Minute)
	assert.ErrorIs(t, err, ErrDisabled)
	assert.Zero(t, n)
}

func TestNilClientIsDisabled(t *testing.T) {
	var client *Client
	assert.False(t, client.IsEnabled())
	assert.NoError(t, client.Close())
}
