package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/corsinf/usuarios-api/internal/models"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "search:results:"

// ResultsCache keeps a session-scoped projection of accumulated search
// results in Redis. It backs get-by-id reads when the in-process session
// is gone (restart, other instance) and is explicitly invalidated when a
// mutation makes every projection stale. Password hashes never enter it.
type ResultsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(client *redis.Client, ttl time.Duration) *ResultsCache {
	return &ResultsCache{client: client, ttl: ttl}
}

func key(sessionID string) string {
	return keyPrefix + sessionID
}

// Put replaces the cached result set for a session.
func (c *ResultsCache) Put(ctx context.Context, sessionID string, users []*models.User) error {
	data, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("failed to encode cached results: %w", err)
	}

	if err := c.client.Set(ctx, key(sessionID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache results: %w", err)
	}
	return nil
}

// Get loads the cached result set for a session. A missing key maps to
// ErrNotFound.
func (c *ResultsCache) Get(ctx context.Context, sessionID string) ([]*models.User, error) {
	data, err := c.client.Get(ctx, key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read cached results: %w", err)
	}

	var users []*models.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("failed to decode cached results: %w", err)
	}
	return users, nil
}

// Lookup finds one user by id inside a session's cached result set.
func (c *ResultsCache) Lookup(ctx context.Context, sessionID string, id int) (*models.User, error) {
	users, err := c.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, models.ErrNotFound
}

// Invalidate drops one session's projection.
func (c *ResultsCache) Invalidate(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, key(sessionID)).Err()
}

// InvalidateAll drops every cached projection. Called after a successful
// mutation, when any accumulated list may contain stale rows.
func (c *ResultsCache) InvalidateAll(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to invalidate cached results: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cached results: %w", err)
	}
	return nil
}
