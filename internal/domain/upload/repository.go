package upload

import "context"

type UploadRepository interface {
	RecordBulkUpload(ctx context.Context, u BulkUpload) (BulkUpload, error)
	ListBulkUploads(ctx context.Context) ([]BulkUpload, error)
	RecordBulkExecutionUpload(ctx context.Context, u BulkExecutionUpload) (BulkExecutionUpload, error)
	ListBulkExecutionUploads(ctx context.Context) ([]BulkExecutionUpload, error)
}
