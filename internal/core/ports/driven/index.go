package driven

import (
	"context"

	"github.com/lumenite-labs/ragcore/internal/core/domain"
)

// IndexRegistry owns the named indices. Immutable after initialization so
// request handling needs no locking.
type IndexRegistry interface {
	// List returns all registered indices in registration order
	List() []Index

	// Info returns index handles keyed by index ID
	Info() map[string]Index
}

// Index is a handle to one engine index
type Index interface {
	// ID returns the index identifier
	ID() string

	// Name returns the display name
	Name() string

	// Sources returns the index's Source Record table
	Sources() SourceStore

	// IndexingPipeline builds the indexing pipeline for one request
	IndexingPipeline(settings *domain.Settings, user string) (IndexingPipeline, error)
}

// ArtifactIndex is the capability of building retrievers scoped to
// selected artifacts. The orchestrator picks the first registered index
// that declares it.
type ArtifactIndex interface {
	Index

	// RetrieverPipelines builds retrievers scoped to the selected artifacts
	RetrieverPipelines(settings *domain.Settings, user string, artifactIDs []string) ([]Retriever, error)
}

// IndexingPipeline consumes one artifact and reports progress as a stream
// of events. The returned channel is closed when indexing finishes; the
// pipeline stops early when ctx is canceled.
type IndexingPipeline interface {
	Stream(ctx context.Context, artifact domain.Artifact) (<-chan domain.ProgressEvent, error)
}

// RetrievedChunk is one piece of context fetched by a retriever
type RetrievedChunk struct {
	ArtifactID string
	Text       string
	Score      float64
}

// Retriever fetches context scoped to selected artifacts
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]RetrievedChunk, error)
}
