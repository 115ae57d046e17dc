package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/tiramai/ragapi/internal/adapter"
	"github.com/tiramai/ragapi/internal/adapter/utils"
	"github.com/tiramai/ragapi/internal/api"
	"github.com/tiramai/ragapi/internal/config"
	"github.com/tiramai/ragapi/internal/rag"
	"github.com/tiramai/ragapi/pkg/logger_i"
)

var logRH *logger_i.Logger

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	return
}

// ChatHandler godoc
// @Summary      Ask a question against the knowledge base
// @Description  Retrieves relevant chunks, assembles a prompt with conversation history, and returns the model's grounded answer with sources.
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        request  body      api.ChatRequest   true  "Question, optional session id and retrieval tuning"
// @Success      200      {object}  api.ChatResponse  "Answer with sources and token usage"
// @Failure      400      {object}  api.ErrorResponse "Invalid request data"
// @Failure      503      {object}  api.ErrorResponse "A collaborator is unavailable"
// @Router       /chat [post]
func ChatHandler(w http.ResponseWriter, request *http.Request) {

	if validateContext(request.Context()) {

		var requestData api.ChatRequest
		defer func(Body io.ReadCloser) {
			err := Body.Close()
			if err != nil {
				logRH.Error("Couldn't close the Chat handler reader :", err)
			}
		}(request.Body)
		if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil || requestData.Message == "" {
			logRH.Warn("Bad Chat Request: ", "error:", err, "request data:", requestData)
			WriteErrorResponse(w, http.StatusBadRequest, requestData.SessionID, "Bad Request")
			return
		}

		answer, err := handlerInstance.ragService.Answer(request.Context(), rag.AnswerRequest{
			Question:   requestData.Message,
			SessionId:  requestData.SessionID,
			TopK:       requestData.TopK,
			MinScore:   requestData.MinScore,
			DocumentID: requestData.DocumentID,
			Style:      requestData.Style,
		})
		if err != nil {
			logRH.Error("Chat request failed", "error", err.Error())
			WriteErrorResponse(w, statusFromError(err), requestData.SessionID, "Failed to answer question")
			return
		}

		writeJsonResponse(w, http.StatusOK, adapter.ToChatResponse(answer))
		return
	}
	logRH.Warn("Invalid Context by request ", request.RemoteAddr)
}

// GetTaskStatusHandler godoc
// @Summary      Get ingestion task status
// @Description  Retrieves the current state of an ingestion task by id.
// @Tags         Ingestion
// @Produce      json
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  api.TaskStatusResponse "The current state of the task"
// @Failure      404  {object}  api.ErrorResponse      "Task not found"
// @Router       /tasks/{id} [get]
func GetTaskStatusHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		idString := utils.GetChiURLParam(r, "id")
		logRH.Debug("Get Task Status Request:", "URL path", r.URL.Path)

		task, isFound := GetTask(idString)
		if !isFound {
			WriteErrorResponse(w, http.StatusNotFound, idString, "Task not found")
			return
		}

		writeJsonResponse(w, http.StatusOK, adapter.ToTaskStatusResponse(task))
	}
}

// UploadHandler handles document uploads for ingestion.
// @Summary      Upload a document for ingestion
// @Description  Receives a file via multipart/form-data, saves it to a temporary directory, and queues an asynchronous ingestion task.
// @Tags         Ingestion
// @Accept       multipart/form-data
// @Produce      json
// @Param        document  formData  file  true  "The document to ingest (pdf, docx, txt, rtf, odt, md)"
// @Success      202  {object}  api.UploadResponse "Accepted - returns task id and status url"
// @Failure      400  {object}  api.ErrorResponse  "Bad Request - missing file, unsupported type or file too large"
// @Failure      500  {object}  api.ErrorResponse  "Internal Server Error - storage or write error"
// @Router       /upload [post]
func UploadHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {

		targetDir, errString := getTargetDirectory()
		if errString != "" {
			logRH.Error("Couldn't get target directory :", "err", errString)
			WriteErrorResponse(w, http.StatusInternalServerError, "", errString)
			return
		}

		err := r.ParseMultipartForm(config.MaxUploadSize)
		if err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
			return
		}

		fileReader, fileMetadata, err := r.FormFile("document")
		if err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, "", "Could not retrieve file")
			return
		}
		defer fileReader.Close()

		safeName, ok := sanitizeFilename(fileMetadata.Filename)
		if !ok {
			WriteErrorResponse(w, http.StatusBadRequest, "", "Invalid filename")
			return
		}
		if !isAllowedFileType(safeName) {
			WriteErrorResponse(w, http.StatusBadRequest, safeName, "Unsupported file type")
			return
		}

		filename := fmt.Sprintf("%d-%s", time.Now().UnixNano(), safeName)
		tempFilePath := filepath.Join(targetDir, filename)
		destinationFileWriter, err := os.Create(tempFilePath)
		if err != nil {
			WriteErrorResponse(w, http.StatusInternalServerError, safeName, "Storage error")
			return
		}
		defer destinationFileWriter.Close()

		if _, err := io.Copy(destinationFileWriter, fileReader); err != nil {
			WriteErrorResponse(w, http.StatusInternalServerError, safeName, "Write error")
			return
		}

		taskId := utils.GetNewUUID()
		traceId, _ := r.Context().Value(config.TRACE_ID_KEY).(string)
		EnqueueIngestion(taskId, safeName, tempFilePath, traceId)

		writeJsonResponse(w, http.StatusAccepted, adapter.ToUploadResponse(taskId))
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}

// ListDocumentsHandler godoc
// @Summary      List ingested documents
// @Tags         Documents
// @Produce      json
// @Success      200  {object}  api.DocumentListResponse
// @Failure      503  {object}  api.ErrorResponse "Vector store unavailable"
// @Router       /documents [get]
func ListDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		docs, err := handlerInstance.ragService.ListDocuments(r.Context())
		if err != nil {
			logRH.Error("Document listing failed", "error", err.Error())
			WriteErrorResponse(w, statusFromError(err), "", "Failed to list documents")
			return
		}
		writeJsonResponse(w, http.StatusOK, adapter.ToDocumentListResponse(docs))
	}
}

// GetDocumentChunksHandler godoc
// @Summary      List a document's stored chunks
// @Tags         Documents
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  api.DocumentChunksResponse
// @Failure      404  {object}  api.ErrorResponse "Document not found"
// @Router       /documents/{id}/chunks [get]
func GetDocumentChunksHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		documentId := utils.GetChiURLParam(r, "id")
		chunks, err := handlerInstance.ragService.DocumentChunks(r.Context(), documentId)
		if err != nil {
			logRH.Warn("Document chunk listing failed", "documentId", documentId, "error", err.Error())
			WriteErrorResponse(w, statusFromError(err), documentId, "Failed to get document chunks")
			return
		}
		writeJsonResponse(w, http.StatusOK, adapter.ToDocumentChunksResponse(documentId, chunks))
	}
}

// DeleteDocumentHandler godoc
// @Summary      Delete a document and its chunks
// @Tags         Documents
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      204  "Document deleted"
// @Failure      404  {object}  api.ErrorResponse "Document not found"
// @Router       /documents/{id} [delete]
func DeleteDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		documentId := utils.GetChiURLParam(r, "id")
		if err := handlerInstance.ragService.DeleteDocument(r.Context(), documentId); err != nil {
			logRH.Warn("Document delete failed", "documentId", documentId, "error", err.Error())
			WriteErrorResponse(w, statusFromError(err), documentId, "Failed to delete document")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
