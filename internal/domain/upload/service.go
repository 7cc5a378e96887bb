package upload

import (
	"context"

	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/target"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/user"
)

// UploadService imports CSV files and reconciles accepted rows into the store.
type UploadService interface {
	ImportTaskDefinitions(ctx context.Context, actor user.User, fileName string, content []byte) (TaskDefinitionImportResult, error)
	ImportExecutions(ctx context.Context, actor user.User, fileName string, content []byte) (ExecutionImportResult, error)
	ImportTargets(ctx context.Context, actor user.User, fileName string, content []byte) (TargetImportResult, error)
	ListTaskDefinitions(ctx context.Context, actor user.User) ([]target.TaskTargetDefinition, error)
	History(ctx context.Context) (UploadHistory, error)
}
