package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/lumenite-labs/ragcore/internal/core/domain"
)

// MockSuggestionPipeline returns a scripted textual result
type MockSuggestionPipeline struct {
	Result string
	Err    error

	Calls    int
	LastLang string
}

func (m *MockSuggestionPipeline) Complete(ctx context.Context, history []domain.HistoryPair, lang string) (string, error) {
	m.Calls++
	m.LastLang = lang
	if m.Err != nil {
		return "", m.Err
	}
	return m.Result, nil
}

// MockSuggestionCache is an in-memory SuggestionCache
type MockSuggestionCache struct {
	mu      sync.RWMutex
	entries map[string][]string
}

// NewMockSuggestionCache creates an empty MockSuggestionCache
func NewMockSuggestionCache() *MockSuggestionCache {
	return &MockSuggestionCache{entries: make(map[string][]string)}
}

func (m *MockSuggestionCache) Get(ctx context.Context, key string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return entry, nil
}

func (m *MockSuggestionCache) Set(ctx context.Context, key string, suggestions []string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = suggestions
	return nil
}

// Len reports the number of cached entries
func (m *MockSuggestionCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
