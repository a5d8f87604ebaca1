package services

import (
	"context"
	"fmt"

	"github.com/lumenite-labs/ragcore/internal/core/domain"
	"github.com/lumenite-labs/ragcore/internal/core/ports/driven"
	"github.com/lumenite-labs/ragcore/internal/core/ports/driving"
)

// Ensure chatService implements ChatService
var _ driving.ChatService = (*chatService)(nil)

// chatService resolves a reasoning pipeline per chat turn and hands its
// stream back untouched. Everything it builds (effective settings,
// session state, retriever set, pipeline instance) is request-scoped, so
// concurrent turns share nothing mutable.
type chatService struct {
	indices    driven.IndexRegistry
	reasonings driven.ReasoningRegistry
	defaults   *domain.Settings
}

// NewChatService creates a new ChatService. defaults are the engine's
// shared settings; they are cloned per request and never mutated.
func NewChatService(indices driven.IndexRegistry, reasonings driven.ReasoningRegistry, defaults *domain.Settings) driving.ChatService {
	return &chatService{
		indices:    indices,
		reasonings: reasonings,
		defaults:   defaults,
	}
}

// Dispatch runs the five resolution steps for one turn: retriever set,
// reasoning factory, settings overlay, pipeline construction, invocation.
func (s *chatService) Dispatch(ctx context.Context, turn domain.ChatTurn) (<-chan domain.ResultItem, error) {
	turn.ApplyDefaults()

	if turn.Message == "" {
		return nil, fmt.Errorf("%w: message is required", domain.ErrInvalidInput)
	}

	// Step 1: build retrievers scoped to the selected artifacts. Picked
	// by capability, not by name: the first index that can build
	// artifact-scoped retrievers wins. No selection means an empty set
	// and full-corpus retrieval is left to the engine.
	var retrievers []driven.Retriever
	if len(turn.SelectedArtifactIDs) > 0 {
		for _, idx := range s.indices.List() {
			ai, ok := idx.(driven.ArtifactIndex)
			if !ok {
				continue
			}
			var err error
			retrievers, err = ai.RetrieverPipelines(s.defaults.Clone(), turn.User, turn.SelectedArtifactIDs)
			if err != nil {
				return nil, fmt.Errorf("%w: building retrievers: %v", domain.ErrEngine, err)
			}
			break
		}
	}

	// Step 2: resolve the reasoning factory
	factory, ok := s.reasonings.Lookup(turn.ReasoningType)
	if !ok {
		return nil, fmt.Errorf("%w: unknown reasoning type: %s", domain.ErrInvalidInput, turn.ReasoningType)
	}

	// Step 3: overlay turn overrides onto a fresh copy of the defaults
	settings := s.defaults.Clone()
	settings.Overlay(factory.Info().ID, &turn)

	// Step 4: construct the request-owned pipeline instance
	state := &domain.SessionState{Regen: false}
	pipeline, err := factory.Build(settings, state, retrievers)
	if err != nil {
		return nil, fmt.Errorf("%w: building reasoning pipeline: %v", domain.ErrEngine, err)
	}

	// Step 5: invoke; the produced sequence goes to the stream adapter
	// as-is
	items, err := pipeline.StreamChat(ctx, turn.Message, turn.ConversationID, turn.History, turn.User)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEngine, err)
	}
	return items, nil
}
