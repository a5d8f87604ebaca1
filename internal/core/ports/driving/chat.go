package driving

import (
	"context"

	"github.com/lumenite-labs/ragcore/internal/core/domain"
)

// ChatService orchestrates chat turns against the reasoning engine
type ChatService interface {
	// Dispatch resolves the reasoning pipeline for a turn and returns its
	// result stream untouched. The channel is closed when the answer is
	// complete; the pipeline stops producing when ctx is canceled.
	Dispatch(ctx context.Context, turn domain.ChatTurn) (<-chan domain.ResultItem, error)
}

// SuggestionService produces follow-up question suggestions
type SuggestionService interface {
	// Suggest returns follow-up questions for a conversation, degrading
	// to canned samples when history is empty or nothing usable comes
	// back from the engine.
	Suggest(ctx context.Context, history []domain.HistoryPair, language string) ([]string, error)
}
