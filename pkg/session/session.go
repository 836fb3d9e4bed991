// Package session manages Redis-backed login sessions.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CookieName is the cookie carrying the session id.
const CookieName = "session_id"

const keyPrefix = "session:"

// ErrNoSession indicates the session id is unknown or expired.
var ErrNoSession = errors.New("no such session")

// Manager creates and resolves sessions in Redis.
type Manager struct {
	client *redis.Client
	ttl    time.Duration
}

// NewManager returns a Manager using the given client and session lifetime.
func NewManager(client *redis.Client, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Manager{client: client, ttl: ttl}
}

// TTL reports the configured session lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Create opens a session for username and returns its id.
func (m *Manager) Create(ctx context.Context, username string) (string, error) {
	id := uuid.NewString()
	if err := m.client.Set(ctx, keyPrefix+id, username, m.ttl).Err(); err != nil {
		return "", err
	}
	return id, nil
}

// Username resolves a session id to the logged-in username.
func (m *Manager) Username(ctx context.Context, id string) (string, error) {
	val, err := m.client.Get(ctx, keyPrefix+id).Result()
	if err == redis.Nil {
		return "", ErrNoSession
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// Destroy removes a session. Destroying an unknown session is not an error.
func (m *Manager) Destroy(ctx context.Context, id string) error {
	return m.client.Del(ctx, keyPrefix+id).Err()
}
