package memstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantops/opsgate/internal/ports"
)

func TestStore_SetGetRemove(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.Get(ctx, "user-data")
	assert.ErrorIs(t, err, ports.ErrNotFound)

	require.NoError(t, s.Set(ctx, "user-data", []byte(`{"id":"u1"}`)))
	got, err := s.Get(ctx, "user-data")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"id":"u1"}`), got)

	require.NoError(t, s.Remove(ctx, "user-data"))
	_, err = s.Get(ctx, "user-data")
	assert.ErrorIs(t, err, ports.ErrNotFound)

	// Removing an absent key is a no-op.
	require.NoError(t, s.Remove(ctx, "user-data"))
	assert.Equal(t, 0, s.Len())
}

func TestStore_GetReturnsCopy(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "session-data", []byte("abc")))
	got, err := s.Get(ctx, "session-data")
	require.NoError(t, err)

	got[0] = 'x'
	again, err := s.Get(ctx, "session-data")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}
