package domain

import (
	"encoding/json"
	"fmt"
)

// HistoryPair is one prior (user, assistant) exchange. On the wire it is a
// two-element string array: ["question", "answer"].
type HistoryPair struct {
	User      string
	Assistant string
}

// MarshalJSON encodes the pair as a two-element array
func (p HistoryPair) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{p.User, p.Assistant})
}

// UnmarshalJSON decodes a two-element array into the pair
func (p *HistoryPair) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err != nil {
		return err
	}
	if len(arr) != 2 {
		return fmt.Errorf("%w: history entry must be a [user, assistant] pair", ErrInvalidInput)
	}
	p.User, p.Assistant = arr[0], arr[1]
	return nil
}

// ChatTurn is one chat request. It is built per request and never persisted
// by this layer.
type ChatTurn struct {
	Message             string        `json:"message"`
	History             []HistoryPair `json:"history"`
	ConversationID      string        `json:"conversation_id"`
	ReasoningType       string        `json:"reasoning_type"`
	LLMOverride         string        `json:"llm_type"`
	UseMindMap          bool          `json:"use_mind_map"`
	CitationMode        string        `json:"use_citation"`
	Language            string        `json:"language"`
	User                string        `json:"user_id"`
	SelectedArtifactIDs []string      `json:"selected_file_ids"`
}

// ApplyDefaults fills the fields the client may omit
func (t *ChatTurn) ApplyDefaults() {
	if t.ReasoningType == "" {
		t.ReasoningType = "simple"
	}
	if t.CitationMode == "" {
		t.CitationMode = CitationOff
	}
	if t.Language == "" {
		t.Language = "English"
	}
	if t.User == "" {
		t.User = "default"
	}
}

// Citation modes
const (
	CitationOff       = "off"
	CitationHighlight = "highlight"
	CitationInline    = "inline"
)

// SessionState is the minimal per-request pipeline state. Regen models a
// user-requested regenerate-last-answer turn and defaults to false.
type SessionState struct {
	Regen bool `json:"regen"`
}

// ReasoningInfo describes a registered reasoning pipeline type
type ReasoningInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
