package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/BruksfildServices01/barber-client/internal/port"
)

const (
	sessionKey    = "barber-client:session:current"
	revokedPrefix = "barber-client:revoked:"
)

// SessionStore persists the signed-in session across restarts and keeps
// the ids of tokens revoked before they expired.
type SessionStore struct {
	cache Cache
}

func NewSessionStore(c Cache) *SessionStore {
	return &SessionStore{cache: c}
}

// Save keeps s until it expires.
func (s *SessionStore) Save(ctx context.Context, sess *port.Session, now time.Time) error {
	ttl := sess.ExpiresAt.Sub(now)
	if ttl <= 0 {
		return nil
	}

	b, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return s.cache.Set(ctx, sessionKey, b, ttl)
}

// Load returns nil when no session was persisted.
func (s *SessionStore) Load(ctx context.Context) (*port.Session, error) {
	b, ok, err := s.cache.Get(ctx, sessionKey)
	if err != nil || !ok {
		return nil, err
	}

	var sess port.Session
	if err := json.Unmarshal(b, &sess); err != nil {
		// A corrupt entry is as good as none.
		_ = s.cache.Delete(ctx, sessionKey)
		return nil, nil
	}
	return &sess, nil
}

func (s *SessionStore) Clear(ctx context.Context) error {
	return s.cache.Delete(ctx, sessionKey)
}

// Revoke marks token id jti as unusable until its own expiry.
func (s *SessionStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" || ttl <= 0 {
		return nil
	}
	return s.cache.Set(ctx, revokedPrefix+jti, []byte("1"), ttl)
}

func (s *SessionStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	_, ok, err := s.cache.Get(ctx, revokedPrefix+jti)
	return ok, err
}
