package repository

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSessionStore keeps sessions in Redis under an opaque token.
// The value is the user id; expiry is handled by the key TTL, so a
// session disappears on its own after the configured lifetime.
type RedisSessionStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisSessionStore returns a session store backed by the given
// Redis client. Keys are namespaced under "sess:".
func NewRedisSessionStore(rdb *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb, prefix: "sess:"}
}

// Create stores the token to user id mapping with the given TTL.
func (s *RedisSessionStore) Create(ctx context.Context, token string, userID uint64, ttl time.Duration) error {
	return s.rdb.Set(ctx, s.prefix+token, strconv.FormatUint(userID, 10), ttl).Err()
}

// Get resolves a token to its user id. Unknown and expired tokens
// both come back as ErrNotFound.
func (s *RedisSessionStore) Get(ctx context.Context, token string) (uint64, error) {
	v, err := s.rdb.Get(ctx, s.prefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return strconv.ParseUint(v, 10, 64)
}

// Delete removes the session. Deleting an unknown token is not an
// error.
func (s *RedisSessionStore) Delete(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, s.prefix+token).Err()
}

// MemorySessionStore is the in-process fallback used when Redis is
// unavailable and in tests. Expiry is checked lazily on Get.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]memorySession
}

type memorySession struct {
	userID    uint64
	expiresAt time.Time
}

// NewMemorySessionStore returns an empty in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]memorySession)}
}

// Create stores the token to user id mapping with the given TTL.
func (s *MemorySessionStore) Create(_ context.Context, token string, userID uint64, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = memorySession{userID: userID, expiresAt: time.Now().Add(ttl)}
	return nil
}

// Get resolves a token to its user id, dropping it when expired.
func (s *MemorySessionStore) Get(_ context.Context, token string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return 0, ErrNotFound
	}
	if time.Now().After(sess.expiresAt) {
		delete(s.sessions, token)
		return 0, ErrNotFound
	}
	return sess.userID, nil
}

// Delete removes the session.
func (s *MemorySessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}
