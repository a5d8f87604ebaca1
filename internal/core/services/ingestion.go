package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lumenite-labs/ragcore/internal/core/domain"
	"github.com/lumenite-labs/ragcore/internal/core/ports/driven"
	"github.com/lumenite-labs/ragcore/internal/core/ports/driving"
)

// Ensure ingestionService implements IngestionService
var _ driving.IngestionService = (*ingestionService)(nil)

// ingestionService implements the artifact ingestion workflow:
// stage, dedup-check, run the indexing pipeline to completion, re-query
// the record for the authoritative ID, and always remove staged bytes.
type ingestionService struct {
	registry   driven.IndexRegistry
	defaults   *domain.Settings
	stagingDir string
	logger     *slog.Logger
}

// IngestionConfig holds dependencies for the ingestion service
type IngestionConfig struct {
	Registry driven.IndexRegistry
	Defaults *domain.Settings

	// StagingDir is where uploads are staged; os.TempDir() when empty
	StagingDir string

	Logger *slog.Logger
}

// NewIngestionService creates a new IngestionService
func NewIngestionService(cfg IngestionConfig) driving.IngestionService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	stagingDir := cfg.StagingDir
	if stagingDir == "" {
		stagingDir = os.TempDir()
	}
	return &ingestionService{
		registry:   cfg.Registry,
		defaults:   cfg.Defaults,
		stagingDir: stagingDir,
		logger:     logger,
	}
}

// IngestFile stages an upload and runs it through the default index's
// indexing pipeline. Synchronous by design: the request completes only
// when indexing completes.
func (s *ingestionService) IngestFile(ctx context.Context, req driving.IngestFileRequest) (*domain.IngestResult, error) {
	if req.Name == "" || req.Content == nil {
		return nil, fmt.Errorf("%w: file name and content are required", domain.ErrInvalidInput)
	}

	index, err := s.defaultIndex()
	if err != nil {
		return nil, err
	}
	store := index.Sources()

	// Dedup check before any side effect
	existing, err := store.GetByNameAndUser(ctx, req.Name, req.User)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if existing != nil && !req.Reindex {
		return nil, fmt.Errorf("%w: file %q, use reindex to overwrite", domain.ErrAlreadyExists, req.Name)
	}

	// Stage the upload under its original name in a private directory
	stagePath, cleanup, err := s.stage(req.Name, req.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: staging failed: %v", domain.ErrEngine, err)
	}
	// Staged bytes are removed on every path, success or failure
	defer cleanup()

	pipeline, err := index.IndexingPipeline(s.defaults.Clone(), req.User)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEngine, err)
	}

	artifact := domain.Artifact{
		Name:      req.Name,
		User:      req.User,
		LocalPath: stagePath,
		Reindex:   req.Reindex,
	}

	s.logger.Info("indexing upload", "name", req.Name, "user", req.User, "index", index.ID())

	events, err := pipeline.Stream(ctx, artifact)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEngine, err)
	}
	// Drain the whole event stream; upload latency equals indexing latency.
	// The outcome is read off the typed events: a stale record from an
	// earlier upload must not pass for success on a failed reindex run.
	indexed := false
	var failures []string
	for ev := range events {
		if ev.Channel != domain.ProgressChannelIndex {
			continue
		}
		switch ev.Status {
		case domain.ProgressStatusSuccess:
			indexed = true
		case domain.ProgressStatusFailed:
			failures = append(failures, ev.Message)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !indexed {
		return nil, fmt.Errorf("%w: file indexing failed: %s", domain.ErrEngine, strings.Join(failures, ", "))
	}

	// The pipeline assigns identity; re-query to learn the generated ID
	record, err := store.GetByNameAndUser(ctx, req.Name, req.User)
	if err != nil {
		return nil, fmt.Errorf("%w: indexed record not found after pipeline run", domain.ErrEngine)
	}

	return &domain.IngestResult{
		ArtifactID: record.ID,
		Name:       req.Name,
		Status:     domain.IngestStatusSuccess,
		Message:    "file indexed successfully",
	}, nil
}

// IngestURL ingests a remote URL. The pipeline fetches it directly, so
// nothing is staged; success is read off the typed progress events.
func (s *ingestionService) IngestURL(ctx context.Context, req driving.IngestURLRequest) (*domain.IngestResult, error) {
	if req.URL == "" {
		return nil, fmt.Errorf("%w: url is required", domain.ErrInvalidInput)
	}

	index := s.artifactIndex()
	if index == nil {
		return nil, fmt.Errorf("%w: artifact index", domain.ErrNotFound)
	}

	pipeline, err := index.IndexingPipeline(s.defaults.Clone(), req.User)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEngine, err)
	}

	artifact := domain.Artifact{
		Name:    req.URL,
		User:    req.User,
		URL:     req.URL,
		Reindex: req.Reindex,
	}

	s.logger.Info("indexing url", "url", req.URL, "user", req.User, "index", index.ID())

	events, err := pipeline.Stream(ctx, artifact)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEngine, err)
	}

	var artifactID string
	var failures []string
	for ev := range events {
		if ev.Channel != domain.ProgressChannelIndex {
			continue
		}
		switch ev.Status {
		case domain.ProgressStatusSuccess:
			artifactID = ev.ArtifactID
		case domain.ProgressStatusFailed:
			failures = append(failures, ev.Message)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// No success event means failure, even with an empty failure list
	if artifactID == "" {
		return nil, fmt.Errorf("%w: url indexing failed: %s", domain.ErrEngine, strings.Join(failures, ", "))
	}

	return &domain.IngestResult{
		ArtifactID: artifactID,
		Name:       req.URL,
		Status:     domain.IngestStatusSuccess,
	}, nil
}

// List returns the records owned by a user
func (s *ingestionService) List(ctx context.Context, user string) ([]*domain.IngestResult, error) {
	index, err := s.defaultIndex()
	if err != nil {
		return nil, err
	}

	records, err := index.Sources().ListByUser(ctx, user)
	if err != nil {
		return nil, err
	}

	results := make([]*domain.IngestResult, 0, len(records))
	for _, r := range records {
		results = append(results, &domain.IngestResult{
			ArtifactID: r.ID,
			Name:       r.Name,
			Status:     domain.IngestStatusIndexed,
		})
	}
	return results, nil
}

// Delete removes the relational record scoped by (id, user). Vector and
// document stores are the engine's to clean up; this layer does not
// cascade into them.
func (s *ingestionService) Delete(ctx context.Context, id, user string) error {
	index, err := s.defaultIndex()
	if err != nil {
		return err
	}

	if err := index.Sources().Delete(ctx, id, user); err != nil {
		return err
	}

	s.logger.Info("deleted source record", "id", id, "user", user)
	return nil
}

// ListIndices describes the registered indices
func (s *ingestionService) ListIndices(ctx context.Context) []domain.IndexInfo {
	indices := s.registry.List()
	infos := make([]domain.IndexInfo, 0, len(indices))
	for _, idx := range indices {
		typ := "index"
		if _, ok := idx.(driven.ArtifactIndex); ok {
			typ = "artifact"
		}
		infos = append(infos, domain.IndexInfo{
			ID:   idx.ID(),
			Name: idx.Name(),
			Type: typ,
		})
	}
	return infos
}

// defaultIndex returns the first registered index
func (s *ingestionService) defaultIndex() (driven.Index, error) {
	indices := s.registry.List()
	if len(indices) == 0 {
		return nil, fmt.Errorf("%w: no indices registered", domain.ErrNoIndex)
	}
	return indices[0], nil
}

// artifactIndex returns the first index that can build artifact-scoped
// retrievers, or nil
func (s *ingestionService) artifactIndex() driven.ArtifactIndex {
	for _, idx := range s.registry.List() {
		if ai, ok := idx.(driven.ArtifactIndex); ok {
			return ai
		}
	}
	return nil
}

// stage copies the upload into a private temp directory keyed by the
// original name. The returned cleanup removes the whole directory.
func (s *ingestionService) stage(name string, content io.Reader) (string, func(), error) {
	dir, err := os.MkdirTemp(s.stagingDir, "ragcore-stage-")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() {
		if err := os.RemoveAll(dir); err != nil {
			s.logger.Warn("failed to remove staged upload", "dir", dir, "error", err)
		}
	}

	path := filepath.Join(dir, filepath.Base(name))
	f, err := os.Create(path)
	if err != nil {
		cleanup()
		return "", nil, err
	}
	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		cleanup()
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, err
	}
	return path, cleanup, nil
}
