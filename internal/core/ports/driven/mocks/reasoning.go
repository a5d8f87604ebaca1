package mocks

import (
	"context"

	"github.com/lumenite-labs/ragcore/internal/core/domain"
	"github.com/lumenite-labs/ragcore/internal/core/ports/driven"
)

// MockReasoningRegistry is a mock implementation of ReasoningRegistry
type MockReasoningRegistry struct {
	Factories map[string]driven.ReasoningFactory
}

// NewMockReasoningRegistry creates a registry over the given factories
func NewMockReasoningRegistry(factories ...driven.ReasoningFactory) *MockReasoningRegistry {
	m := &MockReasoningRegistry{Factories: make(map[string]driven.ReasoningFactory)}
	for _, f := range factories {
		m.Factories[f.Info().ID] = f
	}
	return m
}

func (m *MockReasoningRegistry) Lookup(typeID string) (driven.ReasoningFactory, bool) {
	f, ok := m.Factories[typeID]
	return f, ok
}

func (m *MockReasoningRegistry) List() []domain.ReasoningInfo {
	infos := make([]domain.ReasoningInfo, 0, len(m.Factories))
	for _, f := range m.Factories {
		infos = append(infos, f.Info())
	}
	return infos
}

// MockReasoningFactory is a mock implementation of ReasoningFactory.
// It records what Build received so tests can assert on the overlay.
type MockReasoningFactory struct {
	InfoVal  domain.ReasoningInfo
	Pipeline *MockReasoningPipeline
	BuildErr error

	BuildCalls     int
	LastSettings   *domain.Settings
	LastState      *domain.SessionState
	LastRetrievers []driven.Retriever
}

// NewMockReasoningFactory creates a factory for the given reasoning type
func NewMockReasoningFactory(id string) *MockReasoningFactory {
	return &MockReasoningFactory{
		InfoVal:  domain.ReasoningInfo{ID: id, Name: id},
		Pipeline: &MockReasoningPipeline{},
	}
}

func (m *MockReasoningFactory) Info() domain.ReasoningInfo { return m.InfoVal }

func (m *MockReasoningFactory) Build(settings *domain.Settings, state *domain.SessionState, retrievers []driven.Retriever) (driven.ReasoningPipeline, error) {
	m.BuildCalls++
	m.LastSettings = settings
	m.LastState = state
	m.LastRetrievers = retrievers
	if m.BuildErr != nil {
		return nil, m.BuildErr
	}
	return m.Pipeline, nil
}

// MockReasoningPipeline emits scripted items
type MockReasoningPipeline struct {
	Items []domain.ResultItem
	Err   error

	StreamCalls int
	LastMessage string
	LastConvID  string
	LastHistory []domain.HistoryPair
	LastUser    string
}

func (m *MockReasoningPipeline) StreamChat(ctx context.Context, message, conversationID string, history []domain.HistoryPair, user string) (<-chan domain.ResultItem, error) {
	m.StreamCalls++
	m.LastMessage = message
	m.LastConvID = conversationID
	m.LastHistory = history
	m.LastUser = user

	if m.Err != nil {
		return nil, m.Err
	}

	out := make(chan domain.ResultItem)
	go func() {
		defer close(out)
		for _, item := range m.Items {
			select {
			case out <- item:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
