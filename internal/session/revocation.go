package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const revocationKeyPrefix = "session:revoked:"

// RevocationStore records logged-out token IDs in Redis until their
// natural expiry. The token itself stays opaque; only the jti is
// stored.
type RevocationStore struct {
	rdb *redis.Client
}

func NewRevocationStore(rdb *redis.Client) *RevocationStore {
	return &RevocationStore{rdb: rdb}
}

// Revoke marks a token ID as logged out for the remainder of its
// lifetime. A non-positive ttl means the token already expired and
// there is nothing to record.
func (s *RevocationStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return fmt.Errorf("cannot revoke token without an id")
	}
	if ttl <= 0 {
		return nil
	}
	return s.rdb.Set(ctx, revocationKeyPrefix+jti, 1, ttl).Err()
}

// IsRevoked reports whether a token ID has been revoked.
func (s *RevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	n, err := s.rdb.Exists(ctx, revocationKeyPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
