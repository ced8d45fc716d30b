package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantops/opsgate/internal/ports"
	"github.com/plantops/opsgate/internal/testutil"
)

func TestStateStore_SetAndGet(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	defer client.Close()

	store := NewStateStore(client, Options{})
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, ports.KeySessionData, []byte(`{"token":"opsgate_t1"}`)))

	got, err := store.Get(ctx, ports.KeySessionData)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"token":"opsgate_t1"}`), got)
}

func TestStateStore_GetMissing(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	defer client.Close()

	store := NewStateStore(client, Options{})

	_, err := store.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, ports.ErrNotFound)

	_, err = store.Get(context.Background(), "")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestStateStore_Remove(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	defer client.Close()

	store := NewStateStore(client, Options{Prefix: "t:"})
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, ports.KeyRememberMe, []byte("true")))
	require.NoError(t, store.Remove(ctx, ports.KeyRememberMe))

	_, err := store.Get(ctx, ports.KeyRememberMe)
	assert.ErrorIs(t, err, ports.ErrNotFound)

	// Removing an absent or empty key is a no-op.
	require.NoError(t, store.Remove(ctx, ports.KeyRememberMe))
	require.NoError(t, store.Remove(ctx, ""))
}

func TestStateStore_AppliesTTL(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	defer client.Close()

	store := NewStateStore(client, Options{TTL: time.Minute})
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, ports.KeyUserData, []byte("{}")))

	ttl, err := client.TTL(ctx, "authstate:"+ports.KeyUserData).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)
}
