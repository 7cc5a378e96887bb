// Package reconcile applies imported CSV rows to the record store: task definitions,
// execution files with their derived sessions and targets, and daily targets.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/execution"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/session"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/target"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/upload"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/productivity-backend-go/internal/service/file"
	"github.com/cmlabs-hris/productivity-backend-go/internal/service/importer"
	"github.com/google/uuid"
)

// Repositories groups the store collections reconciliation reads and writes.
type Repositories struct {
	Users       user.UserRepository
	Sessions    session.SessionRepository
	Targets     target.TargetRepository
	Definitions target.TaskDefinitionRepository
	Executions  execution.ExecutionRepository
	Uploads     upload.UploadRepository
}

type UploadServiceImpl struct {
	Repositories
	parser *importer.Parser
	files  file.FileService
	logger *slog.Logger
	now    func() time.Time
}

// NewUploadService wires the import pipeline to the store. files may be nil, in which
// case uploads are not archived.
func NewUploadService(repos Repositories, parser *importer.Parser, files file.FileService, logger *slog.Logger, now func() time.Time) *UploadServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &UploadServiceImpl{
		Repositories: repos,
		parser:       parser,
		files:        files,
		logger:       logger,
		now:          now,
	}
}

var _ upload.UploadService = (*UploadServiceImpl)(nil)

func canUpload(actor user.User) bool {
	return user.HasPermission(actor.Role, user.PermissionUploadData)
}

// archive never fails an import; a storage problem only costs the archive path.
func (s *UploadServiceImpl) archive(ctx context.Context, actor user.User, kind string, fileName string, content []byte) *string {
	if s.files == nil {
		return nil
	}
	path, err := s.files.ArchiveUpload(ctx, actor.ID, kind, fileName, content)
	if err != nil {
		s.logger.Warn("Failed to archive upload", "kind", kind, "file_name", fileName, "error", err)
		return nil
	}
	return &path
}

func (s *UploadServiceImpl) ImportTaskDefinitions(ctx context.Context, actor user.User, fileName string, content []byte) (upload.TaskDefinitionImportResult, error) {
	if !canUpload(actor) {
		return upload.TaskDefinitionImportResult{}, upload.ErrUploadForbidden
	}

	parsed, err := s.parser.ParseTaskDefinitions(fileName, content)
	if err != nil {
		return upload.TaskDefinitionImportResult{}, err
	}
	result := upload.TaskDefinitionImportResult{ImportResult: parsed}

	// An import with no accepted rows leaves the previous set in place.
	if len(parsed.Rows) > 0 {
		defs := make([]target.TaskTargetDefinition, 0, len(parsed.Rows))
		for _, row := range parsed.Rows {
			defs = append(defs, target.TaskTargetDefinition{
				OwnerID:            actor.ID,
				TaskName:           row.TaskName,
				AverageUnitMinutes: row.AverageUnitMinutes,
				TargetDaily:        row.TargetDaily,
			})
		}
		if err := s.Definitions.ReplaceForOwner(ctx, actor.ID, defs); err != nil {
			return upload.TaskDefinitionImportResult{}, fmt.Errorf("failed to replace task definitions: %w", err)
		}
		stored, err := s.Definitions.ListByOwner(ctx, actor.ID)
		if err != nil {
			return upload.TaskDefinitionImportResult{}, fmt.Errorf("failed to list task definitions: %w", err)
		}
		result.DefinitionsStored = len(stored)
	}

	audit, err := s.Uploads.RecordBulkUpload(ctx, upload.BulkUpload{
		ID:             "upload-" + uuid.NewString(),
		Kind:           upload.KindTaskDefinitions,
		UploadedBy:     actor.ID,
		UploadDate:     s.now().UTC(),
		FileName:       fileName,
		RowsProcessed:  parsed.RowsProcessed,
		RowsSuccessful: parsed.RowsSuccessful,
		RowsFailed:     parsed.RowsFailed,
		ErrorDetails:   parsed.ErrorDetails(),
		Status:         upload.StatusFor(parsed.RowsSuccessful, parsed.HeaderFailed()),
		ArchivePath:    s.archive(ctx, actor, string(upload.KindTaskDefinitions), fileName, content),
	})
	if err != nil {
		return upload.TaskDefinitionImportResult{}, fmt.Errorf("failed to record upload: %w", err)
	}
	result.UploadID = audit.ID

	s.logger.Info("Imported task definitions",
		"uploaded_by", actor.ID,
		"file_name", fileName,
		"rows_processed", parsed.RowsProcessed,
		"rows_failed", parsed.RowsFailed,
		"definitions_stored", result.DefinitionsStored,
	)
	return result, nil
}

func (s *UploadServiceImpl) ListTaskDefinitions(ctx context.Context, actor user.User) ([]target.TaskTargetDefinition, error) {
	ownerID := actor.ID
	if actor.IsAgent() && actor.ManagerID != nil {
		ownerID = *actor.ManagerID
	}
	defs, err := s.Definitions.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list task definitions: %w", err)
	}
	return defs, nil
}

func (s *UploadServiceImpl) History(ctx context.Context) (upload.UploadHistory, error) {
	bulk, err := s.Uploads.ListBulkUploads(ctx)
	if err != nil {
		return upload.UploadHistory{}, fmt.Errorf("failed to list bulk uploads: %w", err)
	}
	exec, err := s.Uploads.ListBulkExecutionUploads(ctx)
	if err != nil {
		return upload.UploadHistory{}, fmt.Errorf("failed to list execution uploads: %w", err)
	}
	return upload.UploadHistory{BulkUploads: bulk, BulkExecutionUploads: exec}, nil
}

// eligibleAgents returns the agents actor may upload for: every agent for an admin,
// direct reports otherwise.
func (s *UploadServiceImpl) eligibleAgents(ctx context.Context, actor user.User) ([]user.User, error) {
	if actor.IsAdmin() {
		return s.Users.ListByRole(ctx, user.RoleAgent)
	}

	reports, err := s.Users.ListByManager(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	agents := reports[:0]
	for _, u := range reports {
		if u.IsAgent() {
			agents = append(agents, u)
		}
	}
	return agents, nil
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
