package ragModel

import "context"

// Chunk is one retrievable unit produced by ingestion. The Id is derived
// from (document id, chunk index) so re-ingesting the same document
// overwrites its old units instead of duplicating them.
type Chunk struct {
	Id       string         `json:"chunk_id"`
	Text     string         `json:"text"`
	Markdown string         `json:"markdown,omitempty"`
	Metadata map[string]any `json:"metadata"`
}

// RetrievedChunk is a per-query search result. Similarity is normalized to
// [0,1]; Distance keeps the engine's raw cosine distance for diagnostics.
type RetrievedChunk struct {
	ChunkId          string         `json:"chunk_id"`
	DocumentId       string         `json:"document_id"`
	DocumentFilename string         `json:"document_filename"`
	Text             string         `json:"text"`
	Similarity       float64        `json:"similarity_score"`
	Distance         float64        `json:"distance_raw"`
	Metadata         map[string]any `json:"metadata,omitempty"`
}

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationTurn is a role-tagged message. It doubles as the prompt
// message type so the blob and message prompt forms stay in sync.
type ConversationTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type SourceRef struct {
	ChunkId          string  `json:"chunk_id"`
	DocumentId       string  `json:"document_id"`
	DocumentFilename string  `json:"document_filename"`
	Similarity       float64 `json:"similarity_score"`
	Preview          string  `json:"preview"`
}

type RAGAnswer struct {
	Answer    string      `json:"answer"`
	Sources   []SourceRef `json:"sources"`
	SessionId string      `json:"session_id"`
	Usage     TokenUsage  `json:"usage"`
}

type DocumentInfo struct {
	Id         string `json:"id"`
	Filename   string `json:"filename"`
	ChunkCount int    `json:"chunk_count"`
	IngestedAt int64  `json:"ingested_at,omitempty"`
}

// MemoryStore is the long-term conversational memory collaborator.
type MemoryStore interface {
	GetHistory(ctx context.Context, sessionId string, limit int) ([]ConversationTurn, error)
	AppendTurn(ctx context.Context, sessionId string, turn ConversationTurn) error
	ValidateSession(ctx context.Context, sessionId string) bool
	InitSession(ctx context.Context, sessionId string) error
}
