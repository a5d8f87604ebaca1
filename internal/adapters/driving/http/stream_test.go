package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lumenite-labs/ragcore/internal/core/domain"
)

func TestStreamNDJSON_OneFramePerItem(t *testing.T) {
	tests := []struct {
		name  string
		count int
	}{
		{"empty stream", 0},
		{"single item", 1},
		{"many items", 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := make([]domain.ResultItem, tt.count)
			for i := range items {
				items[i] = domain.PlainText(fmt.Sprintf("token-%d", i))
			}

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			w := httptest.NewRecorder()
			streamNDJSON(w, req, itemsChan(items...))

			if ct := w.Header().Get("Content-Type"); ct != "application/x-ndjson" {
				t.Errorf("expected ndjson content type, got %s", ct)
			}

			body := w.Body.String()
			if tt.count == 0 {
				if body != "" {
					t.Errorf("expected empty body, got %q", body)
				}
				return
			}

			lines := strings.Split(strings.TrimRight(body, "\n"), "\n")
			if len(lines) != tt.count {
				t.Fatalf("expected %d frames, got %d", tt.count, len(lines))
			}
			// Frames preserve the engine's order
			for i, line := range lines {
				if want := fmt.Sprintf("token-%d", i); line != want {
					t.Errorf("frame %d: expected %q, got %q", i, want, line)
				}
			}
		})
	}
}

func TestStreamNDJSON_StructuredFrames(t *testing.T) {
	doc := domain.StructuredDoc{
		ID:      "doc-1",
		Channel: "info",
		Type:    domain.DocTypeMindMap,
		Content: map[string]any{"root": "topic"},
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	streamNDJSON(w, req, itemsChan(doc, &doc, domain.PlainText("tail")))

	lines := strings.Split(strings.TrimRight(w.Body.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(lines))
	}

	// Value and pointer forms serialize identically
	for _, line := range lines[:2] {
		var decoded domain.StructuredDoc
		if err := json.Unmarshal([]byte(line), &decoded); err != nil {
			t.Fatalf("expected JSON frame, got %q: %v", line, err)
		}
		if decoded.ID != "doc-1" || decoded.Type != domain.DocTypeMindMap {
			t.Errorf("unexpected frame: %+v", decoded)
		}
	}
	if lines[2] != "tail" {
		t.Errorf("expected raw text frame, got %q", lines[2])
	}
}

func TestStreamNDJSON_CanceledContextStopsPulling(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	produced := 0
	items := make(chan domain.ResultItem)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer close(items)
		for i := 0; ; i++ {
			select {
			case items <- domain.PlainText(fmt.Sprintf("token-%d", i)):
				produced++
				if i == 2 {
					cancel()
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	streamNDJSON(w, req, items)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("producer did not stop after cancellation")
	}

	// The adapter stops pulling; the producer never runs ahead unbounded
	if produced > 10 {
		t.Errorf("expected production to stop near cancellation, produced %d", produced)
	}
}
