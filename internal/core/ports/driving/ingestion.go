package driving

import (
	"context"
	"io"

	"github.com/lumenite-labs/ragcore/internal/core/domain"
)

// IngestFileRequest carries one uploaded file to ingest
type IngestFileRequest struct {
	// Name is the original filename
	Name string

	// Content is the uploaded bytes; the workflow stages them before
	// handing the artifact to the indexing pipeline
	Content io.Reader

	// User is the owner identity
	User string

	// Reindex allows replacing an existing (name, user) record
	Reindex bool
}

// IngestURLRequest carries a URL to ingest
type IngestURLRequest struct {
	URL     string
	User    string
	Reindex bool
}

// IngestionService manages the lifecycle of uploaded artifacts
type IngestionService interface {
	// IngestFile stages an upload and runs it through the indexing
	// pipeline of the default index. Synchronous: it returns only after
	// indexing completes, and staged bytes are removed on every path.
	IngestFile(ctx context.Context, req IngestFileRequest) (*domain.IngestResult, error)

	// IngestURL ingests a remote URL. No staging; success is decided by
	// the pipeline's per-item progress events.
	IngestURL(ctx context.Context, req IngestURLRequest) (*domain.IngestResult, error)

	// List returns the records owned by a user
	List(ctx context.Context, user string) ([]*domain.IngestResult, error)

	// Delete removes the relational record scoped by (id, user).
	// Derived stores (vectors, raw blobs) are not touched here; that
	// cleanup belongs to the engine and is a documented gap.
	Delete(ctx context.Context, id, user string) error

	// ListIndices describes the registered indices
	ListIndices(ctx context.Context) []domain.IndexInfo
}
