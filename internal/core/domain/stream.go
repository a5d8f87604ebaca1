package domain

// ResultItem is one unit produced by a reasoning pipeline. The set is
// closed: a structured document or a plain text chunk. Consumers switch
// exhaustively on the concrete type.
type ResultItem interface {
	resultItem()
}

// StructuredDoc is a richly structured result (citation, reasoning step,
// mind-map node). Its fields are preserved end-to-end so the client can
// render each kind differentially.
type StructuredDoc struct {
	ID      string         `json:"id,omitempty"`
	Channel string         `json:"channel,omitempty"`
	Type    string         `json:"type,omitempty"`
	Text    string         `json:"text,omitempty"`
	Content map[string]any `json:"content,omitempty"`
}

func (StructuredDoc) resultItem() {}

// Structured document types
const (
	DocTypeCitation = "citation"
	DocTypeMindMap  = "mindmap"
	DocTypeThinking = "thinking"
)

// PlainText is a raw text chunk, typically one streamed token batch
type PlainText string

func (PlainText) resultItem() {}
