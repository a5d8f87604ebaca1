package domain

import "time"

// Artifact is a document or URL submitted for ingestion into an index.
// Exactly one of LocalPath or URL is set.
type Artifact struct {
	// Name is the display name (original filename, or the URL itself)
	Name string `json:"name"`

	// User is the opaque owner identity, used to scope dedup checks
	User string `json:"user"`

	// LocalPath points at staged bytes for a local upload
	LocalPath string `json:"local_path,omitempty"`

	// URL is set for remote ingestion; the pipeline fetches it directly
	URL string `json:"url,omitempty"`

	// Reindex allows replacing an existing record with the same (name, user)
	Reindex bool `json:"reindex"`
}

// IsURL reports whether the artifact is fetched remotely rather than staged
func (a *Artifact) IsURL() bool {
	return a.URL != ""
}

// SourceRecord is the durable record an index keeps per ingested artifact.
// The indexing pipeline is authoritative for identity assignment: the
// workflow re-queries by (name, user) after indexing to learn the ID.
type SourceRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	User      string    `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}

// IngestResult reports the outcome of one ingestion request
type IngestResult struct {
	ArtifactID string `json:"artifact_id"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	Message    string `json:"message,omitempty"`
}

// IngestStatusSuccess is the only status returned on the success path;
// failures surface as errors, not as result statuses.
const (
	IngestStatusSuccess = "success"
	IngestStatusIndexed = "indexed"
)

// ProgressEvent is one structured event produced by an indexing pipeline.
// URL ingestion success is decided by these fields, not by absence of an
// error: Channel "index" with Status "success" or "failed" per artifact.
type ProgressEvent struct {
	Channel    string `json:"channel"`
	Status     string `json:"status,omitempty"`
	ArtifactID string `json:"artifact_id,omitempty"`
	Message    string `json:"message,omitempty"`
}

// ProgressEvent channels and statuses
const (
	ProgressChannelIndex = "index"
	ProgressChannelDebug = "debug"

	ProgressStatusSuccess = "success"
	ProgressStatusFailed  = "failed"
)

// IndexInfo describes a registered index
type IndexInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}
