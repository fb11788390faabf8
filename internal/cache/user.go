package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/taskhive/taskhive/internal/model"
)

const (
	// userCachePrefix is the Redis key prefix for cached user records.
	userCachePrefix = "user:email:"
	// userCacheTTL is the time-to-live for cached user records.
	// User records are immutable after registration, so the TTL only
	// bounds memory, not staleness.
	userCacheTTL = 5 * time.Minute
)

// cachedUser represents a user record stored in Redis.
// The password hash never goes into the cache; credential checks always
// read the database.
type cachedUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// userKey builds the Redis key for a user cache entry.
func userKey(cacheKey string) string {
	return userCachePrefix + cacheKey
}

// GetUser retrieves a cached user record by cache key.
// Returns nil on cache miss.
func (c *Cache) GetUser(ctx context.Context, cacheKey string) (*model.User, error) {
	data, err := c.client.Get(ctx, userKey(cacheKey)).Bytes()
	if err != nil {
		// Cache miss is not an error
		return nil, nil //nolint:nilerr
	}

	var cached cachedUser
	if err := json.Unmarshal(data, &cached); err != nil {
		// Corrupted cache entry - treat as miss
		return nil, nil //nolint:nilerr
	}

	return &model.User{
		ID:    cached.ID,
		Name:  cached.Name,
		Email: cached.Email,
	}, nil
}

// SetUser caches a user record.
func (c *Cache) SetUser(ctx context.Context, cacheKey string, user *model.User) error {
	cached := cachedUser{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}

	data, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	return c.client.Set(ctx, userKey(cacheKey), data, userCacheTTL).Err()
}
