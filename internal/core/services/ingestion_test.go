package services

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/lumenite-labs/ragcore/internal/core/domain"
	"github.com/lumenite-labs/ragcore/internal/core/ports/driven/mocks"
	"github.com/lumenite-labs/ragcore/internal/core/ports/driving"
)

// indexingRun saves a source record the way a real pipeline does, so the
// service's post-run re-query has something to find.
func indexingRun(store *mocks.MockSourceStore, id string) func(ctx context.Context, artifact domain.Artifact) []domain.ProgressEvent {
	return func(ctx context.Context, artifact domain.Artifact) []domain.ProgressEvent {
		store.Save(ctx, &domain.SourceRecord{
			ID:        id,
			Name:      artifact.Name,
			User:      artifact.User,
			CreatedAt: time.Now(),
		})
		return []domain.ProgressEvent{{
			Channel:    domain.ProgressChannelIndex,
			Status:     domain.ProgressStatusSuccess,
			ArtifactID: id,
		}}
	}
}

func newTestIngestion(t *testing.T, index *mocks.MockArtifactIndex) driving.IngestionService {
	t.Helper()
	return NewIngestionService(IngestionConfig{
		Registry:   mocks.NewMockIndexRegistry(index),
		Defaults:   domain.DefaultSettings(),
		StagingDir: t.TempDir(),
	})
}

func TestIngestionService_IngestFile(t *testing.T) {
	index := mocks.NewMockArtifactIndex("files")
	index.Pipeline = &mocks.MockIndexingPipeline{Run: indexingRun(index.Store, "art-1")}
	svc := newTestIngestion(t, index)

	result, err := svc.IngestFile(context.Background(), driving.IngestFileRequest{
		Name:    "report.txt",
		Content: strings.NewReader("quarterly numbers"),
		User:    "user-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.ArtifactID != "art-1" {
		t.Errorf("expected artifact id art-1, got %s", result.ArtifactID)
	}
	if result.Status != domain.IngestStatusSuccess {
		t.Errorf("expected status %s, got %s", domain.IngestStatusSuccess, result.Status)
	}
	if index.Store.Count() != 1 {
		t.Errorf("expected 1 record, got %d", index.Store.Count())
	}
}

func TestIngestionService_IngestFile_Validation(t *testing.T) {
	index := mocks.NewMockArtifactIndex("files")
	svc := newTestIngestion(t, index)

	tests := []struct {
		name string
		req  driving.IngestFileRequest
	}{
		{"missing name", driving.IngestFileRequest{Content: strings.NewReader("x"), User: "u"}},
		{"missing content", driving.IngestFileRequest{Name: "a.txt", User: "u"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.IngestFile(context.Background(), tt.req)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestIngestionService_IngestFile_Duplicate(t *testing.T) {
	index := mocks.NewMockArtifactIndex("files")
	pipeline := &mocks.MockIndexingPipeline{Run: indexingRun(index.Store, "art-1")}
	index.Pipeline = pipeline
	svc := newTestIngestion(t, index)

	first := driving.IngestFileRequest{
		Name:    "report.txt",
		Content: strings.NewReader("v1"),
		User:    "user-1",
	}
	if _, err := svc.IngestFile(context.Background(), first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Same (name, user) without reindex is a conflict
	_, err := svc.IngestFile(context.Background(), driving.IngestFileRequest{
		Name:    "report.txt",
		Content: strings.NewReader("v2"),
		User:    "user-1",
	})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}

	// Another user with the same name is not
	pipeline.Run = indexingRun(index.Store, "art-2")
	if _, err := svc.IngestFile(context.Background(), driving.IngestFileRequest{
		Name:    "report.txt",
		Content: strings.NewReader("v1"),
		User:    "user-2",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestIngestionService_IngestFile_Reindex(t *testing.T) {
	index := mocks.NewMockArtifactIndex("files")
	pipeline := &mocks.MockIndexingPipeline{Run: indexingRun(index.Store, "art-1")}
	index.Pipeline = pipeline
	svc := newTestIngestion(t, index)

	req := driving.IngestFileRequest{
		Name:    "report.txt",
		Content: strings.NewReader("v1"),
		User:    "user-1",
	}
	if _, err := svc.IngestFile(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pipeline.Run = indexingRun(index.Store, "art-2")
	result, err := svc.IngestFile(context.Background(), driving.IngestFileRequest{
		Name:    "report.txt",
		Content: strings.NewReader("v2"),
		User:    "user-1",
		Reindex: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.ArtifactID != "art-2" {
		t.Errorf("expected fresh artifact id art-2, got %s", result.ArtifactID)
	}
	// Reindex replaces, never duplicates
	if n := index.Store.CountByNameAndUser("report.txt", "user-1"); n != 1 {
		t.Errorf("expected 1 record for (name, user), got %d", n)
	}
}

func TestIngestionService_IngestFile_PipelineFailure(t *testing.T) {
	index := mocks.NewMockArtifactIndex("files")
	index.Pipeline = &mocks.MockIndexingPipeline{
		Events: []domain.ProgressEvent{
			{Channel: domain.ProgressChannelIndex, Status: domain.ProgressStatusFailed, Message: "embedding service unavailable"},
		},
	}
	svc := newTestIngestion(t, index)

	result, err := svc.IngestFile(context.Background(), driving.IngestFileRequest{
		Name:    "report.txt",
		Content: strings.NewReader("data"),
		User:    "user-1",
	})
	if !errors.Is(err, domain.ErrEngine) {
		t.Fatalf("expected ErrEngine, got %v", err)
	}
	if result != nil {
		t.Errorf("expected no result on failure, got %+v", result)
	}
	// The failed event's cause survives into the error
	if !strings.Contains(err.Error(), "embedding service unavailable") {
		t.Errorf("expected failure cause in error, got %q", err.Error())
	}
}

func TestIngestionService_IngestFile_ReindexPipelineFailure(t *testing.T) {
	index := mocks.NewMockArtifactIndex("files")
	index.Pipeline = &mocks.MockIndexingPipeline{
		Events: []domain.ProgressEvent{
			{Channel: domain.ProgressChannelIndex, Status: domain.ProgressStatusFailed, Message: "embedding service unavailable"},
		},
	}
	svc := newTestIngestion(t, index)
	ctx := context.Background()

	// A record from an earlier successful upload is already present
	index.Store.Save(ctx, &domain.SourceRecord{
		ID:        "art-old",
		Name:      "report.txt",
		User:      "user-1",
		CreatedAt: time.Now(),
	})

	// The reindex run fails before saving anything; the stale record must
	// not be reported as a fresh success
	result, err := svc.IngestFile(ctx, driving.IngestFileRequest{
		Name:    "report.txt",
		Content: strings.NewReader("v2"),
		User:    "user-1",
		Reindex: true,
	})
	if !errors.Is(err, domain.ErrEngine) {
		t.Fatalf("expected ErrEngine, got %v (result %+v)", err, result)
	}
	if result != nil {
		t.Errorf("expected no result on failure, got %+v", result)
	}
	if !strings.Contains(err.Error(), "embedding service unavailable") {
		t.Errorf("expected failure cause in error, got %q", err.Error())
	}

	// The prior record is untouched
	record, err := index.Store.GetByNameAndUser(ctx, "report.txt", "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.ID != "art-old" {
		t.Errorf("expected prior record to survive, got %+v", record)
	}
}

func TestIngestionService_IngestFile_StagingCleanup(t *testing.T) {
	staging := t.TempDir()
	index := mocks.NewMockArtifactIndex("files")
	index.Pipeline = &mocks.MockIndexingPipeline{Run: indexingRun(index.Store, "art-1")}
	svc := NewIngestionService(IngestionConfig{
		Registry:   mocks.NewMockIndexRegistry(index),
		Defaults:   domain.DefaultSettings(),
		StagingDir: staging,
	})

	if _, err := svc.IngestFile(context.Background(), driving.IngestFileRequest{
		Name:    "report.txt",
		Content: strings.NewReader("data"),
		User:    "user-1",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertEmptyDir(t, staging)
}

func TestIngestionService_IngestFile_StagingCleanupOnFailure(t *testing.T) {
	staging := t.TempDir()
	index := mocks.NewMockArtifactIndex("files")
	// Pipeline runs but never reports a success event
	index.Pipeline = &mocks.MockIndexingPipeline{}
	svc := NewIngestionService(IngestionConfig{
		Registry:   mocks.NewMockIndexRegistry(index),
		Defaults:   domain.DefaultSettings(),
		StagingDir: staging,
	})

	_, err := svc.IngestFile(context.Background(), driving.IngestFileRequest{
		Name:    "report.txt",
		Content: strings.NewReader("data"),
		User:    "user-1",
	})
	if !errors.Is(err, domain.ErrEngine) {
		t.Errorf("expected ErrEngine, got %v", err)
	}

	assertEmptyDir(t, staging)
}

func TestIngestionService_IngestFile_NoIndex(t *testing.T) {
	svc := NewIngestionService(IngestionConfig{
		Registry: mocks.NewMockIndexRegistry(),
		Defaults: domain.DefaultSettings(),
	})

	_, err := svc.IngestFile(context.Background(), driving.IngestFileRequest{
		Name:    "report.txt",
		Content: strings.NewReader("data"),
		User:    "user-1",
	})
	if !errors.Is(err, domain.ErrNoIndex) {
		t.Errorf("expected ErrNoIndex, got %v", err)
	}
}

func TestIngestionService_IngestURL(t *testing.T) {
	index := mocks.NewMockArtifactIndex("files")
	pipeline := &mocks.MockIndexingPipeline{
		Events: []domain.ProgressEvent{
			{Channel: "debug", Status: "in_progress", Message: "fetching"},
			{Channel: domain.ProgressChannelIndex, Status: domain.ProgressStatusSuccess, ArtifactID: "art-url-1"},
		},
	}
	index.Pipeline = pipeline
	svc := newTestIngestion(t, index)

	result, err := svc.IngestURL(context.Background(), driving.IngestURLRequest{
		URL:  "https://example.com/doc",
		User: "user-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.ArtifactID != "art-url-1" {
		t.Errorf("expected artifact id art-url-1, got %s", result.ArtifactID)
	}
	if pipeline.LastArtifact.URL != "https://example.com/doc" {
		t.Errorf("expected url artifact, got %+v", pipeline.LastArtifact)
	}
}

func TestIngestionService_IngestURL_Failures(t *testing.T) {
	tests := []struct {
		name    string
		events  []domain.ProgressEvent
		wantMsg string
	}{
		{
			name: "failed events collected",
			events: []domain.ProgressEvent{
				{Channel: domain.ProgressChannelIndex, Status: domain.ProgressStatusFailed, Message: "fetch timed out"},
				{Channel: domain.ProgressChannelIndex, Status: domain.ProgressStatusFailed, Message: "retry exhausted"},
			},
			wantMsg: "fetch timed out, retry exhausted",
		},
		{
			name:    "stream ends without success event",
			events:  nil,
			wantMsg: "url indexing failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			index := mocks.NewMockArtifactIndex("files")
			index.Pipeline = &mocks.MockIndexingPipeline{Events: tt.events}
			svc := newTestIngestion(t, index)

			_, err := svc.IngestURL(context.Background(), driving.IngestURLRequest{
				URL:  "https://example.com/doc",
				User: "user-1",
			})
			if !errors.Is(err, domain.ErrEngine) {
				t.Fatalf("expected ErrEngine, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("expected message to contain %q, got %q", tt.wantMsg, err.Error())
			}
		})
	}
}

func TestIngestionService_IngestURL_Validation(t *testing.T) {
	index := mocks.NewMockArtifactIndex("files")
	svc := newTestIngestion(t, index)

	_, err := svc.IngestURL(context.Background(), driving.IngestURLRequest{User: "user-1"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestIngestionService_ListAndDelete(t *testing.T) {
	index := mocks.NewMockArtifactIndex("files")
	svc := newTestIngestion(t, index)
	ctx := context.Background()

	index.Store.Save(ctx, &domain.SourceRecord{ID: "art-1", Name: "a.txt", User: "user-1"})
	index.Store.Save(ctx, &domain.SourceRecord{ID: "art-2", Name: "b.txt", User: "user-1"})
	index.Store.Save(ctx, &domain.SourceRecord{ID: "art-3", Name: "c.txt", User: "user-2"})

	results, err := svc.List(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 results, got %d", len(results))
	}
	for _, r := range results {
		if r.Status != domain.IngestStatusIndexed {
			t.Errorf("expected status %s, got %s", domain.IngestStatusIndexed, r.Status)
		}
	}

	if err := svc.Delete(ctx, "art-1", "user-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Deleting someone else's record is not found
	if err := svc.Delete(ctx, "art-3", "user-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestIngestionService_ListIndices(t *testing.T) {
	index := mocks.NewMockArtifactIndex("files")
	svc := newTestIngestion(t, index)

	infos := svc.ListIndices(context.Background())
	if len(infos) != 1 {
		t.Fatalf("expected 1 index, got %d", len(infos))
	}
	if infos[0].ID != "files" || infos[0].Type != "artifact" {
		t.Errorf("unexpected index info: %+v", infos[0])
	}
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected staging dir to be empty, found %d entries", len(entries))
	}
}
