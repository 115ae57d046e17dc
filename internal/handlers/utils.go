package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/tiramai/ragapi/internal/adapter"
	"github.com/tiramai/ragapi/internal/config"
	"github.com/tiramai/ragapi/internal/domain/ragModel"
)

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but can't send a clean status code now
		logRH.Error("Error encoding response: %v", err)
	}
}

func validateContext(ctx context.Context) bool {
	log := logRH.With("traceId", ctx.Value(config.TRACE_ID_KEY))
	if ctx.Err() != nil {
		log.Warn("context error", "error", ctx.Err())
		return false
	}

	select {
	case <-ctx.Done():
		log.Warn("context cancelled")
		return false
	default:
		return true

	}
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, id string, error string) {
	writeJsonResponse(w, httpCode, adapter.BadRequest(id, error, httpCode))
}

// statusFromError maps the domain error kinds onto HTTP codes. A
// pipeline failure that wraps a collaborator outage still reads as 503.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, ragModel.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ragModel.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ragModel.ErrCollaboratorUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func getTargetDirectory() (string, string) {
	root, err := os.Getwd()
	if err != nil {
		return "", "Storage Error"
	}

	targetDir := filepath.Join(root, "temporary_data")
	if err := os.MkdirAll(targetDir, 0750); err != nil {
		return "", "Storage Error"
	}
	return targetDir, ""
}

// sanitizeFilename reduces an uploaded filename to its final path
// element. The name is caller-controlled and must never steer the
// temp path outside the upload directory.
func sanitizeFilename(name string) (string, bool) {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", false
	}
	return name, true
}

func isAllowedFileType(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range config.AllowedFileTypes {
		if ext == allowed {
			return true
		}
	}
	return false
}
