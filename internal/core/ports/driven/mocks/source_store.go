package mocks

import (
	"context"
	"sync"

	"github.com/lumenite-labs/ragcore/internal/core/domain"
)

// MockSourceStore is a mock implementation of SourceStore for testing
type MockSourceStore struct {
	mu      sync.RWMutex
	records map[string]*domain.SourceRecord

	// SaveErr is returned from Save when set
	SaveErr error
}

// NewMockSourceStore creates a new MockSourceStore
func NewMockSourceStore() *MockSourceStore {
	return &MockSourceStore{
		records: make(map[string]*domain.SourceRecord),
	}
}

func (m *MockSourceStore) Save(ctx context.Context, record *domain.SourceRecord) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	// Reindex semantics: replace any prior record with the same (name, user)
	for id, r := range m.records {
		if r.Name == record.Name && r.User == record.User && id != record.ID {
			delete(m.records, id)
		}
	}
	m.records[record.ID] = record
	return nil
}

func (m *MockSourceStore) GetByNameAndUser(ctx context.Context, name, user string) (*domain.SourceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.records {
		if r.Name == name && r.User == user {
			return r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockSourceStore) ListByUser(ctx context.Context, user string) ([]*domain.SourceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.SourceRecord
	for _, r := range m.records {
		if r.User == user {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *MockSourceStore) Delete(ctx context.Context, id, user string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	if !ok || r.User != user {
		return domain.ErrNotFound
	}
	delete(m.records, id)
	return nil
}

// Helper methods for testing

func (m *MockSourceStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = make(map[string]*domain.SourceRecord)
}

func (m *MockSourceStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

func (m *MockSourceStore) CountByNameAndUser(name, user string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, r := range m.records {
		if r.Name == name && r.User == user {
			count++
		}
	}
	return count
}
