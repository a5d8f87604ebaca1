package postgres

import (
	"context"
	"database/sql"

	"github.com/lumenite-labs/ragcore/internal/core/domain"
	"github.com/lumenite-labs/ragcore/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.SourceStore = (*SourceStore)(nil)

// SourceStore implements driven.SourceStore using PostgreSQL
type SourceStore struct {
	db *DB
}

// NewSourceStore creates a new SourceStore
func NewSourceStore(db *DB) *SourceStore {
	return &SourceStore{db: db}
}

// Save creates or updates a record. Any prior record with the same
// (name, user) but a different ID is removed in the same transaction,
// keeping at most one live record per pair.
func (s *SourceStore) Save(ctx context.Context, record *domain.SourceRecord) error {
	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`DELETE FROM source_records WHERE name = $1 AND user_id = $2 AND id <> $3`,
			record.Name, record.User, record.ID,
		)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO source_records (id, name, user_id, created_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				user_id = EXCLUDED.user_id
		`,
			record.ID, record.Name, record.User, record.CreatedAt,
		)
		return err
	})
}

// GetByNameAndUser retrieves the record for one (name, user) pair
func (s *SourceStore) GetByNameAndUser(ctx context.Context, name, user string) (*domain.SourceRecord, error) {
	query := `
		SELECT id, name, user_id, created_at
		FROM source_records
		WHERE name = $1 AND user_id = $2
		ORDER BY created_at DESC
		LIMIT 1
	`

	var record domain.SourceRecord
	err := s.db.QueryRowContext(ctx, query, name, user).Scan(
		&record.ID,
		&record.Name,
		&record.User,
		&record.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &record, nil
}

// ListByUser retrieves all records owned by a user
func (s *SourceStore) ListByUser(ctx context.Context, user string) ([]*domain.SourceRecord, error) {
	query := `
		SELECT id, name, user_id, created_at
		FROM source_records
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, user)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.SourceRecord
	for rows.Next() {
		var record domain.SourceRecord
		err := rows.Scan(
			&record.ID,
			&record.Name,
			&record.User,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// Delete removes the record scoped by (id, user)
func (s *SourceStore) Delete(ctx context.Context, id, user string) error {
	query := `DELETE FROM source_records WHERE id = $1 AND user_id = $2`
	result, err := s.db.ExecContext(ctx, query, id, user)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}
