package data

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantops/opsgate/internal/clock"
	"github.com/plantops/opsgate/internal/ports"
	"github.com/plantops/opsgate/internal/testutil"
)

func setupAuditRepo(t *testing.T) (*LoginAuditRepo, *clock.Fixed) {
	t.Helper()
	pool := testutil.SetupTestPool(t)
	fixed := clock.NewFixed(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	repo := NewLoginAuditRepoWithClock(pool, fixed)
	require.NoError(t, repo.EnsureSchema(context.Background()))

	_, err := pool.Exec(context.Background(), `DELETE FROM login_audit`)
	require.NoError(t, err)
	return repo, fixed
}

func TestLoginAuditRepo_RecordAndQuery(t *testing.T) {
	repo, fixed := setupAuditRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Record(ctx, ports.AuditEvent{
		Event:      ports.AuditLoginSuccess,
		UserID:     "u1",
		Username:   "zhang",
		RemoteAddr: "10.0.0.7",
	}))
	fixed.Advance(time.Minute)
	require.NoError(t, repo.Record(ctx, ports.AuditEvent{
		Event:    ports.AuditLogout,
		UserID:   "u1",
		Username: "zhang",
	}))

	events, err := repo.RecentForUser(ctx, "u1", 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, ports.AuditLogout, events[0].Event)
	assert.Equal(t, ports.AuditLoginSuccess, events[1].Event)
	assert.Equal(t, "10.0.0.7", events[1].RemoteAddr)
	assert.True(t, events[0].OccurredAt.After(events[1].OccurredAt))
}

func TestLoginAuditRepo_Validation(t *testing.T) {
	repo, _ := setupAuditRepo(t)
	ctx := context.Background()

	err := repo.Record(ctx, ports.AuditEvent{})
	require.Error(t, err)

	_, err = repo.RecentForUser(ctx, "", 10)
	require.Error(t, err)
}

func TestLoginAuditRepo_RecentForUser_Empty(t *testing.T) {
	repo, _ := setupAuditRepo(t)

	events, err := repo.RecentForUser(context.Background(), "nobody", 5)
	require.NoError(t, err)
	assert.Empty(t, events)
}
