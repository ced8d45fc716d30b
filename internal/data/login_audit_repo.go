package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/plantops/opsgate/internal/clock"
	apperrors "github.com/plantops/opsgate/internal/errors"
	"github.com/plantops/opsgate/internal/ports"
)

// LoginAuditRepo is an append-only Postgres record of login and logout
// events. It implements ports.AuditSink; the state machine treats it as
// best-effort and never fails an auth flow on a sink error.
type LoginAuditRepo struct {
	pool  *pgxpool.Pool
	clock clock.Clock
}

// NewLoginAuditRepo creates a LoginAuditRepo with the system clock.
func NewLoginAuditRepo(pool *pgxpool.Pool) *LoginAuditRepo {
	return &LoginAuditRepo{pool: pool, clock: clock.System{}}
}

// NewLoginAuditRepoWithClock creates a LoginAuditRepo with a custom clock
// (useful for tests).
func NewLoginAuditRepoWithClock(pool *pgxpool.Pool, c clock.Clock) *LoginAuditRepo {
	return &LoginAuditRepo{pool: pool, clock: c}
}

// EnsureSchema creates the audit table when it does not exist yet.
func (r *LoginAuditRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS login_audit (
			id BIGSERIAL PRIMARY KEY,
			event TEXT NOT NULL,
			user_id TEXT NOT NULL DEFAULT '',
			username TEXT NOT NULL DEFAULT '',
			remote_addr TEXT NOT NULL DEFAULT '',
			detail TEXT NOT NULL DEFAULT '',
			occurred_at TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("ensure login_audit schema: %w", apperrors.MapDBError(err))
	}
	return nil
}

// Record appends one audit event.
func (r *LoginAuditRepo) Record(ctx context.Context, ev ports.AuditEvent) error {
	if ev.Event == "" {
		return errors.New("audit event name is required")
	}
	occurredAt := ev.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = r.clock.Now()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO login_audit (event, user_id, username, remote_addr, detail, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, ev.Event, ev.UserID, ev.Username, ev.RemoteAddr, ev.Detail, occurredAt.UTC())
	if err != nil {
		return fmt.Errorf("record audit event: %w", apperrors.MapDBError(err))
	}
	return nil
}

// RecentForUser returns the newest events for a user, most recent first.
func (r *LoginAuditRepo) RecentForUser(ctx context.Context, userID string, limit int) ([]ports.AuditEvent, error) {
	if userID == "" {
		return nil, errors.New("user id is required")
	}
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `
		SELECT event, user_id, username, remote_addr, detail, occurred_at
		FROM login_audit
		WHERE user_id = $1
		ORDER BY occurred_at DESC, id DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", apperrors.MapDBError(err))
	}
	defer rows.Close()

	var out []ports.AuditEvent
	for rows.Next() {
		var ev ports.AuditEvent
		var occurredAt time.Time
		if scanErr := rows.Scan(&ev.Event, &ev.UserID, &ev.Username, &ev.RemoteAddr, &ev.Detail, &occurredAt); scanErr != nil {
			return nil, fmt.Errorf("scan audit event: %w", scanErr)
		}
		ev.OccurredAt = occurredAt
		out = append(out, ev)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("iterate audit events: %w", apperrors.MapDBError(rowsErr))
	}
	return out, nil
}
