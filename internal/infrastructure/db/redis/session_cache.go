package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/scholarbridge/assistant-api/internal/api/metrics"
	"github.com/scholarbridge/assistant-api/internal/core/domain"
)

// maxEntryTTL caps how long a cached session may outlive a revocation
// performed by another instance.
const maxEntryTTL = 5 * time.Minute

// SessionCache is a read-through cache for session verification backed by
// Redis. Key format: session:<token>.
type SessionCache struct {
	client *redis.Client
}

// NewSessionCache creates a SessionCache wrapping the given Redis client.
func NewSessionCache(client *redis.Client) *SessionCache {
	return &SessionCache{client: client}
}

type cachedSession struct {
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Get returns the cached identity for a token, or domain.ErrSessionNotFound
// on a cache miss.
func (c *SessionCache) Get(ctx context.Context, token string) (*domain.AuthContext, error) {
	raw, err := c.client.Get(ctx, c.key(token)).Bytes()
	if err == redis.Nil {
		metrics.SessionCacheTotal.WithLabelValues("miss").Inc()
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session cache get: %w", err)
	}

	var entry cachedSession
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("session cache decode: %w", err)
	}

	metrics.SessionCacheTotal.WithLabelValues("hit").Inc()
	return &domain.AuthContext{
		UserID:    entry.UserID,
		Role:      entry.Role,
		Token:     token,
		ExpiresAt: entry.ExpiresAt,
	}, nil
}

// Set stores the identity with a TTL capped at the remaining session life.
func (c *SessionCache) Set(ctx context.Context, auth *domain.AuthContext) error {
	ttl := time.Until(auth.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	if ttl > maxEntryTTL {
		ttl = maxEntryTTL
	}

	raw, err := json.Marshal(cachedSession{
		UserID:    auth.UserID,
		Role:      auth.Role,
		ExpiresAt: auth.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("session cache encode: %w", err)
	}
	return c.client.Set(ctx, c.key(auth.Token), raw, ttl).Err()
}

// Delete evicts a token, e.g. on sign-out.
func (c *SessionCache) Delete(ctx context.Context, token string) error {
	return c.client.Del(ctx, c.key(token)).Err()
}

func (c *SessionCache) key(token string) string {
	return "session:" + token
}
