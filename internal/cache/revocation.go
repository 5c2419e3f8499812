package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// RevocationStore remembers signed-out session tokens until they expire on
// their own. Tokens are stored hashed.
type RevocationStore struct {
	helper *CacheHelper
}

func NewRevocationStore(helper *CacheHelper) *RevocationStore {
	return &RevocationStore{helper: helper}
}

func revocationKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "revoked:" + hex.EncodeToString(sum[:])
}

// Revoke marks token as unusable for ttl. A non-positive ttl means the token
// has already expired and nothing is stored.
func (s *RevocationStore) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if token == "" || ttl <= 0 {
		return nil
	}
	return s.helper.SetString(ctx, revocationKey(token), "1", ttl)
}

// IsRevoked reports whether token was revoked. Without redis nothing is ever
// revoked.
func (s *RevocationStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	if !s.helper.Available() {
		return false, nil
	}
	return s.helper.Exists(ctx, revocationKey(token))
}
