package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lumenite-labs/ragcore/internal/core/domain"
	"github.com/lumenite-labs/ragcore/internal/core/ports/driven"
	"github.com/redis/go-redis/v9"
)

// Verify interface compliance
var _ driven.SuggestionCache = (*SuggestionCache)(nil)

const suggestionPrefix = "suggest:"

// SuggestionCache implements driven.SuggestionCache using Redis.
// Entries expire via Redis TTL.
type SuggestionCache struct {
	client *redis.Client
}

// NewSuggestionCache creates a new Redis-backed SuggestionCache
func NewSuggestionCache(client *redis.Client) *SuggestionCache {
	return &SuggestionCache{client: client}
}

// Get returns the cached suggestions for a key
func (c *SuggestionCache) Get(ctx context.Context, key string) ([]string, error) {
	data, err := c.client.Get(ctx, suggestionPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get suggestions: %w", err)
	}

	var suggestions []string
	if err := json.Unmarshal(data, &suggestions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal suggestions: %w", err)
	}

	return suggestions, nil
}

// Set stores suggestions with a TTL
func (c *SuggestionCache) Set(ctx context.Context, key string, suggestions []string, ttl time.Duration) error {
	data, err := json.Marshal(suggestions)
	if err != nil {
		return fmt.Errorf("failed to marshal suggestions: %w", err)
	}

	if err := c.client.Set(ctx, suggestionPrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set suggestions: %w", err)
	}

	return nil
}
