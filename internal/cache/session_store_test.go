package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-client/internal/port"
)

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]time.Duration
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *memCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func TestSessionStoreRoundTrip(t *testing.T) {
	mem := newMemCache()
	store := NewSessionStore(mem)
	now := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)

	sess := &port.Session{
		Token:     "T1",
		AccountID: "acc-1",
		Email:     "cliente@barber.com",
		ExpiresAt: now.Add(2 * time.Hour),
	}
	require.NoError(t, store.Save(context.Background(), sess, now))
	assert.Equal(t, 2*time.Hour, mem.ttls[sessionKey])

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "T1", got.Token)
	assert.True(t, sess.ExpiresAt.Equal(got.ExpiresAt))

	require.NoError(t, store.Clear(context.Background()))
	got, err = store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionStoreSkipsExpired(t *testing.T) {
	mem := newMemCache()
	store := NewSessionStore(mem)
	now := time.Now()

	require.NoError(t, store.Save(context.Background(), &port.Session{Token: "T1", ExpiresAt: now.Add(-time.Minute)}, now))
	assert.Empty(t, mem.data)
}

func TestSessionStoreDropsCorruptEntry(t *testing.T) {
	mem := newMemCache()
	mem.data[sessionKey] = []byte("{not json")
	store := NewSessionStore(mem)

	got, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NotContains(t, mem.data, sessionKey)
}

func TestRevocation(t *testing.T) {
	store := NewSessionStore(newMemCache())
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "jti-1", time.Hour))
	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestNoopCache(t *testing.T) {
	store := NewSessionStore(NewNoop())
	now := time.Now()

	require.NoError(t, store.Save(context.Background(), &port.Session{Token: "T1", ExpiresAt: now.Add(time.Hour)}, now))
	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
}
