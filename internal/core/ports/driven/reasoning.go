package driven

import (
	"context"

	"github.com/lumenite-labs/ragcore/internal/core/domain"
)

// ReasoningRegistry resolves reasoning-type identifiers to pipeline
// factories. Immutable after initialization.
type ReasoningRegistry interface {
	// Lookup returns the factory for a reasoning type, or false if unknown
	Lookup(typeID string) (ReasoningFactory, bool)

	// List returns descriptions of all registered reasoning types
	List() []domain.ReasoningInfo
}

// ReasoningFactory builds reasoning pipeline instances
type ReasoningFactory interface {
	// Info describes the reasoning type
	Info() domain.ReasoningInfo

	// Build constructs a pipeline instance for one request. The instance
	// is owned by that request and discarded when its stream ends.
	Build(settings *domain.Settings, state *domain.SessionState, retrievers []Retriever) (ReasoningPipeline, error)
}

// ReasoningPipeline turns one chat turn into a streamed answer. The
// returned channel is closed when the answer is complete; the pipeline
// stops producing when ctx is canceled.
type ReasoningPipeline interface {
	StreamChat(ctx context.Context, message, conversationID string, history []domain.HistoryPair, user string) (<-chan domain.ResultItem, error)
}
