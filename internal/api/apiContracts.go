package api

import "time"

type TaskExternalStatus string

const (
	TaskStatusError TaskExternalStatus = "Error"
)

type ChatResponse struct {
	Answer    string           `json:"answer"`
	Sources   []SourceResponse `json:"sources"`
	SessionId string           `json:"session_id"`
	Usage     UsageResponse    `json:"usage"`
}

type SourceResponse struct {
	ChunkId          string  `json:"chunk_id"`
	DocumentId       string  `json:"document_id"`
	DocumentFilename string  `json:"document_filename"`
	Similarity       float64 `json:"similarity_score"`
	Preview          string  `json:"preview"`
}

type UsageResponse struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type UploadResponse struct {
	TaskId    string `json:"task_id"`
	StatusURL string `json:"status_url"`
}

type TaskStatusResponse struct {
	TaskId     string    `json:"task_id" example:"task_cz109"`
	Filename   string    `json:"filename"`
	Status     string    `json:"status"`
	Progress   float64   `json:"progress"`
	Message    string    `json:"message"`
	Error      string    `json:"error,omitempty"`
	DocumentId string    `json:"document_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type DocumentResponse struct {
	Id         string `json:"id"`
	Filename   string `json:"filename"`
	ChunkCount int    `json:"chunk_count"`
	IngestedAt int64  `json:"ingested_at,omitempty"`
}

type DocumentListResponse struct {
	Documents []DocumentResponse `json:"documents"`
	Count     int                `json:"count"`
}

type ChunkResponse struct {
	ChunkId string `json:"chunk_id"`
	Text    string `json:"text"`
}

type DocumentChunksResponse struct {
	DocumentId string          `json:"document_id"`
	Chunks     []ChunkResponse `json:"chunks"`
	Count      int             `json:"count"`
}

type ErrorResponse struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Bad Request"`
	Id      string `json:"id,omitempty"`
}

// requests---------------------

type ChatRequest struct {
	Message    string   `json:"message" validate:"required"`
	SessionID  string   `json:"session_id,omitempty"`
	TopK       int      `json:"top_k,omitempty"`
	MinScore   *float64 `json:"min_score,omitempty"`
	DocumentID string   `json:"document_id,omitempty"`
	Style      string   `json:"style,omitempty"`
}
