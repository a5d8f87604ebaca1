package engine

import (
	"math"
	"sort"
	"sync"

	"github.com/lumenite-labs/ragcore/internal/core/ports/driven"
)

type chunkEntry struct {
	artifactID string
	text       string
	embedding  []float32
}

// VectorStore is an in-memory embedding store, keyed by artifact.
// It backs the file index's retrievers; a persistent engine-side store
// can be swapped in behind the same index without touching the core.
type VectorStore struct {
	mu         sync.RWMutex
	byArtifact map[string][]chunkEntry
}

// NewVectorStore creates an empty VectorStore
func NewVectorStore() *VectorStore {
	return &VectorStore{byArtifact: make(map[string][]chunkEntry)}
}

// Add stores the chunks of one artifact, replacing any prior entry
func (s *VectorStore) Add(artifactID string, texts []string, embeddings [][]float32) {
	entries := make([]chunkEntry, 0, len(texts))
	for i, text := range texts {
		if i >= len(embeddings) {
			break
		}
		entries = append(entries, chunkEntry{
			artifactID: artifactID,
			text:       text,
			embedding:  embeddings[i],
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.byArtifact[artifactID] = entries
}

// Remove drops all chunks for an artifact
func (s *VectorStore) Remove(artifactID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byArtifact, artifactID)
}

// Search returns the topK chunks most similar to the query embedding,
// restricted to the given artifacts. An empty restriction searches the
// whole store.
func (s *VectorStore) Search(embedding []float32, topK int, artifactIDs []string) []driven.RetrievedChunk {
	s.mu.RLock()
	defer s.mu.RUnlock()

	scope := make(map[string]bool, len(artifactIDs))
	for _, id := range artifactIDs {
		scope[id] = true
	}

	var results []driven.RetrievedChunk
	for id, entries := range s.byArtifact {
		if len(scope) > 0 && !scope[id] {
			continue
		}
		for _, entry := range entries {
			results = append(results, driven.RetrievedChunk{
				ArtifactID: entry.artifactID,
				Text:       entry.text,
				Score:      cosineSimilarity(embedding, entry.embedding),
			})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}
	return results
}

// cosineSimilarity returns a value in [-1, 1], 0 for mismatched or zero
// vectors
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
