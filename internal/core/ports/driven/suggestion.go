package driven

import (
	"context"
	"time"

	"github.com/lumenite-labs/ragcore/internal/core/domain"
)

// SuggestionPipeline asks a lightweight engine pipeline for follow-up
// questions. Synchronous, not streamed; returns the raw textual result.
type SuggestionPipeline interface {
	Complete(ctx context.Context, history []domain.HistoryPair, lang string) (string, error)
}

// SuggestionCache caches generated suggestions keyed by conversation
// history (Redis). Optional: the service works without one.
type SuggestionCache interface {
	// Get returns the cached suggestions, or domain.ErrNotFound
	Get(ctx context.Context, key string) ([]string, error)

	// Set stores suggestions with a TTL
	Set(ctx context.Context, key string, suggestions []string, ttl time.Duration) error
}
