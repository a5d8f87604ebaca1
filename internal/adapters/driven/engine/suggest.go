package engine

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/lumenite-labs/ragcore/internal/core/domain"
	"github.com/lumenite-labs/ragcore/internal/core/ports/driven"
)

var _ driven.SuggestionPipeline = (*FollowupPipeline)(nil)

// FollowupPipeline asks the LLM for follow-up questions a user might
// want to ask next, given the conversation so far.
type FollowupPipeline struct {
	client *openai.Client
	model  string
}

// NewFollowupPipeline creates a FollowupPipeline
func NewFollowupPipeline(client *openai.Client, model string) *FollowupPipeline {
	return &FollowupPipeline{client: client, model: model}
}

// Complete returns the raw model output. Parsing into a list is the
// caller's concern.
func (p *FollowupPipeline) Complete(ctx context.Context, history []domain.HistoryPair, lang string) (string, error) {
	var convo strings.Builder
	for _, pair := range history {
		fmt.Fprintf(&convo, "User: %s\nAssistant: %s\n", pair.User, pair.Assistant)
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: fmt.Sprintf(
					"Given a conversation, suggest 3 short follow-up questions the user could ask next. "+
						"Write them in %s. Respond with a JSON array of strings and nothing else.", lang),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: convo.String(),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("follow-up completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("follow-up completion: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}
