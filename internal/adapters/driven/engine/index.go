package engine

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/lumenite-labs/ragcore/internal/core/domain"
	"github.com/lumenite-labs/ragcore/internal/core/ports/driven"
)

// Verify capability compliance
var _ driven.ArtifactIndex = (*FileIndex)(nil)

const defaultRetrieverTopK = 4

// FileIndex is the artifact-backed index: it ingests uploaded files and
// URLs, keeps their Source Records, and builds retrievers scoped to
// selected artifacts.
type FileIndex struct {
	id      string
	name    string
	store   driven.SourceStore
	client  *openai.Client
	vectors *VectorStore
	httpc   *http.Client
	logger  *slog.Logger
}

// FileIndexConfig holds dependencies for a FileIndex
type FileIndexConfig struct {
	ID     string
	Name   string
	Store  driven.SourceStore
	Client *openai.Client
	Logger *slog.Logger
}

// NewFileIndex creates a FileIndex
func NewFileIndex(cfg FileIndexConfig) *FileIndex {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &FileIndex{
		id:      cfg.ID,
		name:    cfg.Name,
		store:   cfg.Store,
		client:  cfg.Client,
		vectors: NewVectorStore(),
		httpc:   &http.Client{Timeout: 60 * time.Second},
		logger:  logger,
	}
}

func (f *FileIndex) ID() string   { return f.id }
func (f *FileIndex) Name() string { return f.name }

func (f *FileIndex) Sources() driven.SourceStore { return f.store }

// IndexingPipeline builds the indexing pipeline for one request
func (f *FileIndex) IndexingPipeline(settings *domain.Settings, user string) (driven.IndexingPipeline, error) {
	return &indexingPipeline{
		index:    f,
		settings: settings,
		user:     user,
	}, nil
}

// RetrieverPipelines builds retrievers scoped to the selected artifacts
func (f *FileIndex) RetrieverPipelines(settings *domain.Settings, user string, artifactIDs []string) ([]driven.Retriever, error) {
	return []driven.Retriever{
		&vectorRetriever{
			client:      f.client,
			vectors:     f.vectors,
			model:       settings.EmbeddingModel,
			artifactIDs: artifactIDs,
			topK:        defaultRetrieverTopK,
		},
	}, nil
}

// indexingPipeline runs one artifact through load, chunk, embed, store.
// Outcomes are reported as typed progress events on the index channel.
type indexingPipeline struct {
	index    *FileIndex
	settings *domain.Settings
	user     string
}

func (p *indexingPipeline) Stream(ctx context.Context, artifact domain.Artifact) (<-chan domain.ProgressEvent, error) {
	out := make(chan domain.ProgressEvent)
	go func() {
		defer close(out)
		p.run(ctx, artifact, out)
	}()
	return out, nil
}

func (p *indexingPipeline) run(ctx context.Context, artifact domain.Artifact, out chan<- domain.ProgressEvent) {
	f := p.index

	send(ctx, out, domain.ProgressEvent{
		Channel: domain.ProgressChannelDebug,
		Message: fmt.Sprintf("loading %s", artifact.Name),
	})

	existing, err := f.store.GetByNameAndUser(ctx, artifact.Name, artifact.User)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		p.fail(ctx, out, fmt.Sprintf("record lookup failed: %v", err))
		return
	}
	if existing != nil && !artifact.Reindex {
		p.fail(ctx, out, fmt.Sprintf("%s already exists, use reindex to overwrite", artifact.Name))
		return
	}

	text, err := p.load(ctx, artifact)
	if err != nil {
		p.fail(ctx, out, fmt.Sprintf("loading %s: %v", artifact.Name, err))
		return
	}

	chunks := chunkText(text, p.settings.ChunkSize)
	if len(chunks) == 0 {
		p.fail(ctx, out, fmt.Sprintf("%s produced no indexable content", artifact.Name))
		return
	}

	resp, err := f.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(p.settings.EmbeddingModel),
		Input: chunks,
	})
	if err != nil {
		p.fail(ctx, out, fmt.Sprintf("embedding %s: %v", artifact.Name, err))
		return
	}
	embeddings := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		embeddings[i] = d.Embedding
	}

	id := newArtifactID()
	if existing != nil {
		f.vectors.Remove(existing.ID)
	}
	f.vectors.Add(id, chunks, embeddings)

	record := &domain.SourceRecord{
		ID:        id,
		Name:      artifact.Name,
		User:      artifact.User,
		CreatedAt: time.Now(),
	}
	if err := f.store.Save(ctx, record); err != nil {
		f.vectors.Remove(id)
		p.fail(ctx, out, fmt.Sprintf("saving record for %s: %v", artifact.Name, err))
		return
	}

	f.logger.Info("indexed artifact", "name", artifact.Name, "user", artifact.User, "chunks", len(chunks))

	send(ctx, out, domain.ProgressEvent{
		Channel:    domain.ProgressChannelIndex,
		Status:     domain.ProgressStatusSuccess,
		ArtifactID: id,
	})
}

func (p *indexingPipeline) fail(ctx context.Context, out chan<- domain.ProgressEvent, message string) {
	send(ctx, out, domain.ProgressEvent{
		Channel: domain.ProgressChannelIndex,
		Status:  domain.ProgressStatusFailed,
		Message: message,
	})
}

// load reads staged bytes or fetches the URL directly
func (p *indexingPipeline) load(ctx context.Context, artifact domain.Artifact) (string, error) {
	if artifact.IsURL() {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, artifact.URL, nil)
		if err != nil {
			return "", err
		}
		resp, err := p.index.httpc.Do(req)
		if err != nil {
			return "", err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	data, err := os.ReadFile(artifact.LocalPath)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// send delivers an event unless ctx is canceled first
func send(ctx context.Context, out chan<- domain.ProgressEvent, ev domain.ProgressEvent) bool {
	select {
	case out <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// chunkText splits text into chunks of roughly size runes, breaking on
// whitespace when possible
func chunkText(text string, size int) []string {
	if size <= 0 {
		size = 1200
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	runes := []rune(text)
	var chunks []string
	for len(runes) > 0 {
		if len(runes) <= size {
			chunks = append(chunks, string(runes))
			break
		}

		cut := size
		for i := size; i > size/2; i-- {
			if runes[i-1] == ' ' || runes[i-1] == '\n' {
				cut = i
				break
			}
		}
		chunks = append(chunks, strings.TrimSpace(string(runes[:cut])))
		runes = runes[cut:]
	}
	return chunks
}

// vectorRetriever embeds the query and searches the index's vector
// store within the selected artifacts
type vectorRetriever struct {
	client      *openai.Client
	vectors     *VectorStore
	model       string
	artifactIDs []string
	topK        int
}

func (r *vectorRetriever) Retrieve(ctx context.Context, query string) ([]driven.RetrievedChunk, error) {
	resp, err := r.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(r.model),
		Input: []string{query},
	})
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no embedding returned for query")
	}

	return r.vectors.Search(resp.Data[0].Embedding, r.topK, r.artifactIDs), nil
}

func newArtifactID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
