package services

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lumenite-labs/ragcore/internal/core/domain"
	"github.com/lumenite-labs/ragcore/internal/core/ports/driven"
	"github.com/lumenite-labs/ragcore/internal/core/ports/driving"
)

// Ensure suggestionService implements SuggestionService
var _ driving.SuggestionService = (*suggestionService)(nil)

const suggestionCacheTTL = 10 * time.Minute

// suggestionService asks a lightweight pipeline for follow-up questions
// and degrades to canned samples when nothing usable comes back.
type suggestionService struct {
	pipeline driven.SuggestionPipeline
	cache    driven.SuggestionCache // optional, may be nil
	samples  []string
	logger   *slog.Logger
}

// NewSuggestionService creates a new SuggestionService. cache may be nil;
// samples fall back to domain.DefaultChatSamples when empty.
func NewSuggestionService(pipeline driven.SuggestionPipeline, cache driven.SuggestionCache, samples []string, logger *slog.Logger) driving.SuggestionService {
	if len(samples) == 0 {
		samples = domain.DefaultChatSamples
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &suggestionService{
		pipeline: pipeline,
		cache:    cache,
		samples:  samples,
		logger:   logger,
	}
}

// Suggest returns follow-up questions for a conversation. Parse failures
// degrade; pipeline faults propagate for the boundary to report.
func (s *suggestionService) Suggest(ctx context.Context, history []domain.HistoryPair, language string) ([]string, error) {
	lang := domain.MapLanguage(language)

	if len(history) == 0 {
		return s.canned(), nil
	}

	key := cacheKey(history, lang)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key); err == nil {
			return cached, nil
		} else if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("suggestion cache read failed", "error", err)
		}
	}

	raw, err := s.pipeline.Complete(ctx, history, lang)
	if err != nil {
		return nil, fmt.Errorf("%w: suggestion pipeline: %v", domain.ErrEngine, err)
	}

	suggestions := parseSuggestions(raw)
	if len(suggestions) == 0 {
		return s.canned(), nil
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, suggestions, suggestionCacheTTL); err != nil {
			s.logger.Warn("suggestion cache write failed", "error", err)
		}
	}
	return suggestions, nil
}

// parseSuggestions interprets the pipeline's textual result: a JSON list
// element-wise, a JSON scalar wrapped, or the raw text as the single
// suggestion when it is not JSON at all.
func parseSuggestions(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return []string{raw}
	}

	switch v := parsed.(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			} else {
				out = append(out, fmt.Sprint(item))
			}
		}
		return out
	case string:
		return []string{v}
	default:
		return []string{fmt.Sprint(v)}
	}
}

// canned returns a copy of the sample questions so callers cannot mutate
// the shared slice
func (s *suggestionService) canned() []string {
	out := make([]string, len(s.samples))
	copy(out, s.samples)
	return out
}

// cacheKey hashes the conversation history and target language
func cacheKey(history []domain.HistoryPair, lang string) string {
	h := sha256.New()
	h.Write([]byte(lang))
	for _, pair := range history {
		h.Write([]byte{0})
		h.Write([]byte(pair.User))
		h.Write([]byte{0})
		h.Write([]byte(pair.Assistant))
	}
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}
