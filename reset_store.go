package lectureauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const resetNamespace = "reset:"

var (
	errResetNotFound    = errors.New("reset token not found")
	errResetUnavailable = errors.New("reset store unavailable")
)

// resetCredentialStore maps a reset token to the verified email for the
// reset window. Single-use is enforced by the store, not by a used flag:
// Consume reads and deletes in one atomic GETDEL, so a second consumer
// sees a miss no matter how the two interleave.
type resetCredentialStore struct {
	redis  redis.UniversalClient
	prefix string
}

func newResetCredentialStore(client redis.UniversalClient, prefix string) *resetCredentialStore {
	return &resetCredentialStore{redis: client, prefix: prefix}
}

func (s *resetCredentialStore) key(token string) string {
	return s.prefix + resetNamespace + token
}

func (s *resetCredentialStore) Save(ctx context.Context, token, email string, ttl time.Duration) error {
	if err := s.redis.Set(ctx, s.key(token), email, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", errResetUnavailable, err)
	}
	return nil
}

// Consume returns the email bound to the token and removes the entry.
// Unknown, expired, and already-consumed tokens are indistinguishable.
func (s *resetCredentialStore) Consume(ctx context.Context, token string) (string, error) {
	email, err := s.redis.GetDel(ctx, s.key(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", errResetNotFound
		}
		return "", fmt.Errorf("%w: %v", errResetUnavailable, err)
	}
	return email, nil
}
