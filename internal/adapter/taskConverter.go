package adapter

import (
	"fmt"

	"github.com/tiramai/ragapi/internal/api"
	"github.com/tiramai/ragapi/internal/domain/ragModel"
	"github.com/tiramai/ragapi/internal/domain/taskModel"
)

func ToUploadResponse(taskId string) api.UploadResponse {
	return api.UploadResponse{
		TaskId:    taskId,
		StatusURL: fmt.Sprintf("tasks/%s", taskId),
	}
}

func ToTaskStatusResponse(task taskModel.IngestionTask) api.TaskStatusResponse {
	return api.TaskStatusResponse{
		TaskId:     task.TaskId,
		Filename:   task.Filename,
		Status:     string(task.Status),
		Progress:   task.Progress,
		Message:    task.Message,
		Error:      task.Error,
		DocumentId: task.DocumentId,
		CreatedAt:  task.CreatedAt,
		UpdatedAt:  task.UpdatedAt,
	}
}

func ToChatResponse(answer ragModel.RAGAnswer) api.ChatResponse {
	sources := make([]api.SourceResponse, 0, len(answer.Sources))
	for _, source := range answer.Sources {
		sources = append(sources, api.SourceResponse{
			ChunkId:          source.ChunkId,
			DocumentId:       source.DocumentId,
			DocumentFilename: source.DocumentFilename,
			Similarity:       source.Similarity,
			Preview:          source.Preview,
		})
	}
	return api.ChatResponse{
		Answer:    answer.Answer,
		Sources:   sources,
		SessionId: answer.SessionId,
		Usage: api.UsageResponse{
			PromptTokens:     answer.Usage.PromptTokens,
			CompletionTokens: answer.Usage.CompletionTokens,
			TotalTokens:      answer.Usage.TotalTokens,
		},
	}
}

func ToDocumentListResponse(docs []ragModel.DocumentInfo) api.DocumentListResponse {
	documents := make([]api.DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		documents = append(documents, api.DocumentResponse{
			Id:         doc.Id,
			Filename:   doc.Filename,
			ChunkCount: doc.ChunkCount,
			IngestedAt: doc.IngestedAt,
		})
	}
	return api.DocumentListResponse{Documents: documents, Count: len(documents)}
}

func ToDocumentChunksResponse(documentId string, chunks []ragModel.RetrievedChunk) api.DocumentChunksResponse {
	converted := make([]api.ChunkResponse, 0, len(chunks))
	for _, chunk := range chunks {
		converted = append(converted, api.ChunkResponse{
			ChunkId: chunk.ChunkId,
			Text:    chunk.Text,
		})
	}
	return api.DocumentChunksResponse{DocumentId: documentId, Chunks: converted, Count: len(converted)}
}

func BadRequest(id string, message string, code int) api.ErrorResponse {
	return api.ErrorResponse{
		Code:    code,
		Message: message,
		Id:      id,
	}
}
