package memory

import (
	"context"

	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/upload"
)

type uploadRepositoryImpl struct {
	store *Store
}

func NewUploadRepository(store *Store) upload.UploadRepository {
	return &uploadRepositoryImpl{store: store}
}

func (r *uploadRepositoryImpl) RecordBulkUpload(ctx context.Context, u upload.BulkUpload) (upload.BulkUpload, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if u.UploadDate.IsZero() {
		u.UploadDate = r.store.now().UTC()
	}
	u.ErrorDetails = append([]upload.ErrorDetail{}, u.ErrorDetails...)
	r.store.bulkUploads = append(r.store.bulkUploads, u)
	r.store.persist(ctx)
	return u, nil
}

// ListBulkUploads returns audit rows newest first.
func (r *uploadRepositoryImpl) ListBulkUploads(ctx context.Context) ([]upload.BulkUpload, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]upload.BulkUpload, 0, len(r.store.bulkUploads))
	for i := len(r.store.bulkUploads) - 1; i >= 0; i-- {
		result = append(result, r.store.bulkUploads[i])
	}
	return result, nil
}

func (r *uploadRepositoryImpl) RecordBulkExecutionUpload(ctx context.Context, u upload.BulkExecutionUpload) (upload.BulkExecutionUpload, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if u.UploadDate.IsZero() {
		u.UploadDate = r.store.now().UTC()
	}
	u.ErrorDetails = append([]upload.ExecutionErrorDetail{}, u.ErrorDetails...)
	r.store.execUploads = append(r.store.execUploads, u)
	r.store.persist(ctx)
	return u, nil
}

func (r *uploadRepositoryImpl) ListBulkExecutionUploads(ctx context.Context) ([]upload.BulkExecutionUpload, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]upload.BulkExecutionUpload, 0, len(r.store.execUploads))
	for i := len(r.store.execUploads) - 1; i >= 0; i-- {
		result = append(result, r.store.execUploads[i])
	}
	return result, nil
}
