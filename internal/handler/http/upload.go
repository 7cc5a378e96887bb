package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/upload"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/productivity-backend-go/internal/handler/http/response"
)

type UploadHandler interface {
	ImportTaskDefinitions(w http.ResponseWriter, r *http.Request)
	ImportExecutions(w http.ResponseWriter, r *http.Request)
	ImportTargets(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
	ListTaskDefinitions(w http.ResponseWriter, r *http.Request)
}

type uploadHandlerImpl struct {
	uploadService  upload.UploadService
	maxUploadBytes int64
}

func NewUploadHandler(uploadService upload.UploadService, maxUploadBytes int64) UploadHandler {
	return &uploadHandlerImpl{
		uploadService:  uploadService,
		maxUploadBytes: maxUploadBytes,
	}
}

// importFile reads the multipart file and hands it to one of the import operations.
func importFile[T any](h *uploadHandlerImpl, w http.ResponseWriter, r *http.Request, kind string,
	run func(actor user.User, fileName string, content []byte) (T, error)) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	content, fileName, err := readUpload(w, r, h.maxUploadBytes)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := run(actor, fileName, content)
	if err != nil {
		slog.Error("Upload failed", "kind", kind, "file_name", fileName, "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// ImportTaskDefinitions handles POST /uploads/task-definitions
func (h *uploadHandlerImpl) ImportTaskDefinitions(w http.ResponseWriter, r *http.Request) {
	importFile(h, w, r, string(upload.KindTaskDefinitions), func(actor user.User, fileName string, content []byte) (upload.TaskDefinitionImportResult, error) {
		return h.uploadService.ImportTaskDefinitions(r.Context(), actor, fileName, content)
	})
}

// ImportExecutions handles POST /uploads/executions
func (h *uploadHandlerImpl) ImportExecutions(w http.ResponseWriter, r *http.Request) {
	importFile(h, w, r, "executions", func(actor user.User, fileName string, content []byte) (upload.ExecutionImportResult, error) {
		return h.uploadService.ImportExecutions(r.Context(), actor, fileName, content)
	})
}

// ImportTargets handles POST /uploads/targets
func (h *uploadHandlerImpl) ImportTargets(w http.ResponseWriter, r *http.Request) {
	importFile(h, w, r, string(upload.KindTargets), func(actor user.User, fileName string, content []byte) (upload.TargetImportResult, error) {
		return h.uploadService.ImportTargets(r.Context(), actor, fileName, content)
	})
}

// History handles GET /uploads
func (h *uploadHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	history, err := h.uploadService.History(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, history)
}

// ListTaskDefinitions handles GET /task-definitions
func (h *uploadHandlerImpl) ListTaskDefinitions(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	defs, err := h.uploadService.ListTaskDefinitions(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, defs)
}
