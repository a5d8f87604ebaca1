package mocks

import (
	"context"
	"sync"

	"github.com/lumenite-labs/ragcore/internal/core/domain"
	"github.com/lumenite-labs/ragcore/internal/core/ports/driven"
)

// MockIndexRegistry is a mock implementation of IndexRegistry for testing
type MockIndexRegistry struct {
	Indices []driven.Index
}

// NewMockIndexRegistry creates a registry over the given indices
func NewMockIndexRegistry(indices ...driven.Index) *MockIndexRegistry {
	return &MockIndexRegistry{Indices: indices}
}

func (m *MockIndexRegistry) List() []driven.Index {
	return m.Indices
}

func (m *MockIndexRegistry) Info() map[string]driven.Index {
	info := make(map[string]driven.Index, len(m.Indices))
	for _, idx := range m.Indices {
		info[idx.ID()] = idx
	}
	return info
}

// MockIndex is a mock implementation of Index for testing
type MockIndex struct {
	IDVal       string
	NameVal     string
	Store       *MockSourceStore
	Pipeline    driven.IndexingPipeline
	PipelineErr error
}

// NewMockIndex creates a MockIndex with its own source store
func NewMockIndex(id string) *MockIndex {
	return &MockIndex{
		IDVal:   id,
		NameVal: id,
		Store:   NewMockSourceStore(),
	}
}

func (m *MockIndex) ID() string   { return m.IDVal }
func (m *MockIndex) Name() string { return m.NameVal }

func (m *MockIndex) Sources() driven.SourceStore { return m.Store }

func (m *MockIndex) IndexingPipeline(settings *domain.Settings, user string) (driven.IndexingPipeline, error) {
	if m.PipelineErr != nil {
		return nil, m.PipelineErr
	}
	return m.Pipeline, nil
}

// MockArtifactIndex is a MockIndex that also builds retrievers
type MockArtifactIndex struct {
	MockIndex

	Retrievers   []driven.Retriever
	RetrieverErr error

	// Recorded arguments from the last RetrieverPipelines call
	LastArtifactIDs []string
	LastUser        string
}

// NewMockArtifactIndex creates a MockArtifactIndex with its own store
func NewMockArtifactIndex(id string) *MockArtifactIndex {
	return &MockArtifactIndex{MockIndex: *NewMockIndex(id)}
}

func (m *MockArtifactIndex) RetrieverPipelines(settings *domain.Settings, user string, artifactIDs []string) ([]driven.Retriever, error) {
	m.LastArtifactIDs = artifactIDs
	m.LastUser = user
	if m.RetrieverErr != nil {
		return nil, m.RetrieverErr
	}
	return m.Retrievers, nil
}

// MockRetriever is a mock implementation of Retriever for testing
type MockRetriever struct {
	Chunks []driven.RetrievedChunk
	Err    error
}

func (m *MockRetriever) Retrieve(ctx context.Context, query string) ([]driven.RetrievedChunk, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Chunks, nil
}

// MockIndexingPipeline is a mock implementation of IndexingPipeline.
// Run, when set, is invoked as the stream is produced (e.g. to save a
// source record the way a real pipeline would); its events are emitted
// after Events.
type MockIndexingPipeline struct {
	Events []domain.ProgressEvent
	Err    error
	Run    func(ctx context.Context, artifact domain.Artifact) []domain.ProgressEvent

	mu           sync.Mutex
	LastArtifact domain.Artifact
	StreamCalls  int
}

func (m *MockIndexingPipeline) Stream(ctx context.Context, artifact domain.Artifact) (<-chan domain.ProgressEvent, error) {
	m.mu.Lock()
	m.LastArtifact = artifact
	m.StreamCalls++
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	out := make(chan domain.ProgressEvent)
	go func() {
		defer close(out)
		events := m.Events
		if m.Run != nil {
			events = append(events, m.Run(ctx, artifact)...)
		}
		for _, ev := range events {
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
