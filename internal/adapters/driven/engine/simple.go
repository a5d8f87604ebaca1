package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/lumenite-labs/ragcore/internal/core/domain"
	"github.com/lumenite-labs/ragcore/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ReasoningFactory = (*SimpleFactory)(nil)

// SimpleFactory builds the "simple" reasoning pipeline: retrieve
// context, answer in one LLM pass, stream tokens as they arrive.
type SimpleFactory struct {
	client       *openai.Client
	defaultModel string
	logger       *slog.Logger
}

// NewSimpleFactory creates a SimpleFactory
func NewSimpleFactory(client *openai.Client, defaultModel string, logger *slog.Logger) *SimpleFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &SimpleFactory{
		client:       client,
		defaultModel: defaultModel,
		logger:       logger,
	}
}

// Info describes the reasoning type
func (f *SimpleFactory) Info() domain.ReasoningInfo {
	return domain.ReasoningInfo{
		ID:          "simple",
		Name:        "Simple QA",
		Description: "single-pass retrieval-augmented question answering",
	}
}

// Build constructs a pipeline instance for one request
func (f *SimpleFactory) Build(settings *domain.Settings, state *domain.SessionState, retrievers []driven.Retriever) (driven.ReasoningPipeline, error) {
	opts := settings.Options(f.Info().ID)
	model := opts.LLM
	if model == "" {
		model = f.defaultModel
	}
	return &simplePipeline{
		client:     f.client,
		model:      model,
		opts:       opts,
		lang:       settings.Lang,
		retrievers: retrievers,
		regen:      state.Regen,
		logger:     f.logger,
	}, nil
}

// simplePipeline is owned by a single request and discarded after its
// stream completes
type simplePipeline struct {
	client     *openai.Client
	model      string
	opts       domain.ReasoningOptions
	lang       string
	retrievers []driven.Retriever
	regen      bool
	logger     *slog.Logger
}

func (p *simplePipeline) StreamChat(ctx context.Context, message, conversationID string, history []domain.HistoryPair, user string) (<-chan domain.ResultItem, error) {
	out := make(chan domain.ResultItem)
	go func() {
		defer close(out)
		p.run(ctx, message, history, out)
	}()
	return out, nil
}

func (p *simplePipeline) run(ctx context.Context, message string, history []domain.HistoryPair, out chan<- domain.ResultItem) {
	chunks := p.gatherContext(ctx, message)

	stream, err := p.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:    p.model,
		Messages: p.buildMessages(message, history, chunks),
		Stream:   true,
	})
	if err != nil {
		p.logger.Error("chat completion failed", "model", p.model, "error", err)
		emit(ctx, out, domain.StructuredDoc{
			Channel: "error",
			Text:    fmt.Sprintf("reasoning failed: %v", err),
		})
		return
	}
	defer stream.Close()

	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			p.logger.Error("chat stream interrupted", "model", p.model, "error", err)
			emit(ctx, out, domain.StructuredDoc{
				Channel: "error",
				Text:    fmt.Sprintf("stream interrupted: %v", err),
			})
			return
		}
		if len(resp.Choices) == 0 {
			continue
		}
		delta := resp.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		if !emit(ctx, out, domain.PlainText(delta)) {
			return
		}
	}

	if p.opts.HighlightCitation != domain.CitationOff && len(chunks) > 0 {
		emit(ctx, out, citationDoc(chunks, p.opts.HighlightCitation))
	}
	if p.opts.CreateMindMap {
		emit(ctx, out, mindMapDoc(message, chunks))
	}
}

// gatherContext queries every retriever and keeps the best chunks up to
// the configured cap. Retriever failures degrade to less context, not to
// a failed answer.
func (p *simplePipeline) gatherContext(ctx context.Context, message string) []driven.RetrievedChunk {
	var all []driven.RetrievedChunk
	for _, retriever := range p.retrievers {
		chunks, err := retriever.Retrieve(ctx, message)
		if err != nil {
			p.logger.Warn("retriever failed", "error", err)
			continue
		}
		all = append(all, chunks...)
	}

	max := p.opts.MaxContextChunks
	if max > 0 && len(all) > max {
		all = all[:max]
	}
	return all
}

func (p *simplePipeline) buildMessages(message string, history []domain.HistoryPair, chunks []driven.RetrievedChunk) []openai.ChatCompletionMessage {
	var system strings.Builder
	fmt.Fprintf(&system, "You are a helpful assistant. Answer in %s.", p.lang)
	if len(chunks) > 0 {
		system.WriteString("\nUse the following context to answer:\n")
		for i, c := range chunks {
			fmt.Fprintf(&system, "[%d] %s\n", i+1, c.Text)
		}
	}

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: system.String()},
	}
	for _, pair := range history {
		messages = append(messages,
			openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: pair.User},
			openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: pair.Assistant},
		)
	}
	return append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: message,
	})
}

func citationDoc(chunks []driven.RetrievedChunk, mode string) domain.StructuredDoc {
	citations := make([]map[string]any, 0, len(chunks))
	for _, c := range chunks {
		citations = append(citations, map[string]any{
			"artifact_id": c.ArtifactID,
			"text":        c.Text,
			"score":       c.Score,
		})
	}
	return domain.StructuredDoc{
		Channel: "info",
		Type:    domain.DocTypeCitation,
		Content: map[string]any{
			"mode":      mode,
			"citations": citations,
		},
	}
}

func mindMapDoc(message string, chunks []driven.RetrievedChunk) domain.StructuredDoc {
	seen := make(map[string]bool)
	var nodes []string
	for _, c := range chunks {
		if !seen[c.ArtifactID] {
			seen[c.ArtifactID] = true
			nodes = append(nodes, c.ArtifactID)
		}
	}
	return domain.StructuredDoc{
		Channel: "info",
		Type:    domain.DocTypeMindMap,
		Content: map[string]any{
			"root":  message,
			"nodes": nodes,
		},
	}
}

// emit delivers an item unless ctx is canceled first
func emit(ctx context.Context, out chan<- domain.ResultItem, item domain.ResultItem) bool {
	select {
	case out <- item:
		return true
	case <-ctx.Done():
		return false
	}
}
