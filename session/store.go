// Package session is the Redis facade for the refresh-token registry and
// the access-token blacklist. It holds no state of its own: every
// operation is one Redis round-trip, so revocation is visible to all
// replicas immediately.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	refreshNamespace   = "refresh:"
	blacklistNamespace = "blacklist:"

	// BlacklistReason is the value stored under a blacklisted token key.
	BlacklistReason = "logout"
)

var (
	// ErrNotFound reports an absent registry entry. Absence is
	// authoritative: an expired entry and a never-issued token are
	// indistinguishable and both mean rejection.
	ErrNotFound = errors.New("session: entry not found")
	// ErrUnavailable reports a Redis failure other than a clean miss.
	// Callers must surface it as an outage, never as a rejection.
	ErrUnavailable = errors.New("session: store unavailable")
)

// Store wraps a Redis client with the engine's key layout.
type Store struct {
	redis  redis.UniversalClient
	prefix string
}

// NewStore returns a store namespacing all keys under prefix (may be
// empty).
func NewStore(client redis.UniversalClient, prefix string) *Store {
	return &Store{redis: client, prefix: prefix}
}

func (s *Store) refreshKey(token string) string {
	return s.prefix + refreshNamespace + token
}

func (s *Store) blacklistKey(token string) string {
	return s.prefix + blacklistNamespace + token
}

// RegisterRefresh records a refresh token for the principal with the
// registry TTL. Redis expiry is the only cleanup mechanism.
func (s *Store) RegisterRefresh(ctx context.Context, token string, principalID int64, ttl time.Duration) error {
	value := strconv.FormatInt(principalID, 10)
	if err := s.redis.Set(ctx, s.refreshKey(token), value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// LookupRefresh resolves a refresh token to its principal id. Absent or
// expired tokens return ErrNotFound.
func (s *Store) LookupRefresh(ctx context.Context, token string) (int64, error) {
	value, err := s.redis.Get(ctx, s.refreshKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		// A corrupt entry is unusable; treat it like a miss.
		return 0, ErrNotFound
	}
	return id, nil
}

// RevokeRefresh deletes the registry entry. Idempotent: deleting an
// absent token is not an error.
func (s *Store) RevokeRefresh(ctx context.Context, token string) error {
	if err := s.redis.Del(ctx, s.refreshKey(token)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Blacklist marks an access token revoked for its remaining lifetime.
// A non-positive remaining duration is a no-op: the token is already
// dead on its own and the entry would only waste registry space.
func (s *Store) Blacklist(ctx context.Context, token string, remaining time.Duration) error {
	if remaining <= 0 {
		return nil
	}
	if err := s.redis.Set(ctx, s.blacklistKey(token), BlacklistReason, remaining).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// IsBlacklisted reports whether the access token was revoked. Outages
// return an error rather than a guess in either direction.
func (s *Store) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	n, err := s.redis.Exists(ctx, s.blacklistKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return n > 0, nil
}
