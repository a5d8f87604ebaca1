package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorStore_Search(t *testing.T) {
	store := NewVectorStore()
	store.Add("art-1", []string{"alpha", "beta"}, [][]float32{
		{1, 0, 0},
		{0, 1, 0},
	})
	store.Add("art-2", []string{"gamma"}, [][]float32{
		{0.9, 0.1, 0},
	})

	results := store.Search([]float32{1, 0, 0}, 2, nil)
	require.Len(t, results, 2)

	// Best match first
	assert.Equal(t, "alpha", results[0].Text)
	assert.Equal(t, "art-1", results[0].ArtifactID)
	assert.Equal(t, "gamma", results[1].Text)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestVectorStore_Search_ScopedToArtifacts(t *testing.T) {
	store := NewVectorStore()
	store.Add("art-1", []string{"alpha"}, [][]float32{{1, 0, 0}})
	store.Add("art-2", []string{"beta"}, [][]float32{{1, 0, 0}})

	results := store.Search([]float32{1, 0, 0}, 10, []string{"art-2"})
	require.Len(t, results, 1)
	assert.Equal(t, "art-2", results[0].ArtifactID)

	// An empty scope searches everything
	results = store.Search([]float32{1, 0, 0}, 10, nil)
	assert.Len(t, results, 2)
}

func TestVectorStore_AddReplacesAndRemove(t *testing.T) {
	store := NewVectorStore()
	store.Add("art-1", []string{"v1-a", "v1-b"}, [][]float32{{1, 0}, {0, 1}})
	store.Add("art-1", []string{"v2"}, [][]float32{{1, 0}})

	results := store.Search([]float32{1, 0}, 10, []string{"art-1"})
	require.Len(t, results, 1)
	assert.Equal(t, "v2", results[0].Text)

	store.Remove("art-1")
	assert.Empty(t, store.Search([]float32{1, 0}, 10, nil))
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"length mismatch", []float32{1, 0}, []float32{1, 0, 0}, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, cosineSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestChunkText(t *testing.T) {
	t.Run("short text is one chunk", func(t *testing.T) {
		chunks := chunkText("hello world", 100)
		require.Len(t, chunks, 1)
		assert.Equal(t, "hello world", chunks[0])
	})

	t.Run("empty text yields nothing", func(t *testing.T) {
		assert.Empty(t, chunkText("   ", 100))
	})

	t.Run("breaks on whitespace", func(t *testing.T) {
		text := "aaaa bbbb cccc dddd eeee"
		chunks := chunkText(text, 10)
		require.Greater(t, len(chunks), 1)
		for _, chunk := range chunks {
			assert.LessOrEqual(t, len([]rune(chunk)), 10)
			// Chunks never start or end mid-trim
			assert.Equal(t, chunk, string([]rune(chunk)))
		}
	})

	t.Run("hard cut without whitespace", func(t *testing.T) {
		text := "aaaaaaaaaaaaaaaaaaaaaaaaa"
		chunks := chunkText(text, 10)
		require.Len(t, chunks, 3)
		assert.Equal(t, 10, len([]rune(chunks[0])))
	})

	t.Run("no content is lost", func(t *testing.T) {
		text := "the quick brown fox jumps over the lazy dog"
		var joined string
		for _, chunk := range chunkText(text, 12) {
			joined += chunk + " "
		}
		for _, word := range []string{"quick", "jumps", "lazy"} {
			assert.Contains(t, joined, word)
		}
	})
}
