package driven

import (
	"context"

	"github.com/lumenite-labs/ragcore/internal/core/domain"
)

// SourceStore handles Source Record persistence (PostgreSQL).
// Records are created by the indexing pipeline; the ingestion workflow
// only queries, lists and deletes them.
type SourceStore interface {
	// Save creates or updates a record
	Save(ctx context.Context, record *domain.SourceRecord) error

	// GetByNameAndUser retrieves the record for one (name, user) pair
	GetByNameAndUser(ctx context.Context, name, user string) (*domain.SourceRecord, error)

	// ListByUser retrieves all records owned by a user
	ListByUser(ctx context.Context, user string) ([]*domain.SourceRecord, error)

	// Delete removes the record scoped by (id, user).
	// Returns domain.ErrNotFound if absent or owned by a different user.
	Delete(ctx context.Context, id, user string) error
}
