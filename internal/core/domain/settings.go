package domain

// ReasoningOptions is the per-reasoning-type configuration namespace.
// Typed fields instead of dotted string keys so overlay typos fail to compile.
type ReasoningOptions struct {
	// LLM names the model to use; empty means the engine default
	LLM string `json:"llm"`

	// CreateMindMap asks the pipeline to emit a mind-map document
	CreateMindMap bool `json:"create_mindmap"`

	// HighlightCitation selects the citation mode (off, highlight, inline)
	HighlightCitation string `json:"highlight_citation"`

	// MaxContextChunks caps retrieved context passed to the LLM
	MaxContextChunks int `json:"max_context_chunks"`
}

// Settings is the effective per-request configuration. The shared defaults
// are never handed to a pipeline directly: every request overlays onto its
// own Clone (copy-on-overlay invariant).
type Settings struct {
	// Lang is the answer language
	Lang string `json:"lang"`

	// EmbeddingModel names the embedding model for indexing and retrieval
	EmbeddingModel string `json:"embedding_model"`

	// ChunkSize is the indexing chunk size in runes
	ChunkSize int `json:"chunk_size"`

	// Reasoning holds per-reasoning-type option namespaces, keyed by type ID
	Reasoning map[string]ReasoningOptions `json:"reasoning"`
}

// DefaultSettings returns the engine defaults
func DefaultSettings() *Settings {
	return &Settings{
		Lang:           "English",
		EmbeddingModel: "text-embedding-3-small",
		ChunkSize:      1200,
		Reasoning: map[string]ReasoningOptions{
			"simple": {
				HighlightCitation: CitationOff,
				MaxContextChunks:  8,
			},
		},
	}
}

// Clone returns an independent deep copy
func (s *Settings) Clone() *Settings {
	out := *s
	out.Reasoning = make(map[string]ReasoningOptions, len(s.Reasoning))
	for id, opts := range s.Reasoning {
		out.Reasoning[id] = opts
	}
	return &out
}

// Options returns the namespace for a reasoning type, zero-valued if absent
func (s *Settings) Options(reasoningID string) ReasoningOptions {
	return s.Reasoning[reasoningID]
}

// Overlay applies per-turn overrides for the resolved reasoning type onto
// this settings copy. Later wins: llm override, mind-map toggle, citation
// mode, then the top-level language.
func (s *Settings) Overlay(reasoningID string, turn *ChatTurn) {
	opts := s.Reasoning[reasoningID]
	if turn.LLMOverride != "" {
		opts.LLM = turn.LLMOverride
	}
	opts.CreateMindMap = turn.UseMindMap
	opts.HighlightCitation = turn.CitationMode
	s.Reasoning[reasoningID] = opts
	s.Lang = turn.Language
}
