package redis

// Package redis provides a Redis-backed StateStore for deployments where the
// auth state must survive process restarts or be shared with other services.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/plantops/opsgate/internal/domain/auth"
	"github.com/plantops/opsgate/internal/ports"
)

// StateStore persists auth state keys in Redis under a common prefix.
// Keys carry a TTL as a safety net against abandoned state; authoritative
// expiry still happens in the state machine on read.
type StateStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// Options configures a StateStore.
type Options struct {
	// Prefix namespaces keys, default "authstate:".
	Prefix string
	// TTL bounds how long abandoned keys linger. Defaults to the
	// remember-me lifetime, the longest a session can be useful.
	TTL time.Duration
}

// NewStateStore creates a Redis-backed state store.
func NewStateStore(client redis.UniversalClient, opts Options) *StateStore {
	if opts.Prefix == "" {
		opts.Prefix = "authstate:"
	}
	if opts.TTL <= 0 {
		opts.TTL = domainauth.RememberMeLifetime
	}
	return &StateStore{client: client, prefix: opts.Prefix, ttl: opts.TTL}
}

func (s *StateStore) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ports.ErrNotFound
	}
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return data, nil
}

func (s *StateStore) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return errors.New("state key cannot be empty")
	}
	if err := s.client.Set(ctx, s.prefix+key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *StateStore) Remove(ctx context.Context, key string) error {
	if key == "" {
		return nil // Nothing to remove
	}
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
