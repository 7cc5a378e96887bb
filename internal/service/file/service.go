package file

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/cmlabs-hris/productivity-backend-go/internal/pkg/storage"
	"github.com/google/uuid"
)

type FileService interface {
	// ArchiveUpload stores the raw bytes of an imported file and returns the archive path.
	ArchiveUpload(ctx context.Context, ownerID string, kind string, fileName string, content []byte) (string, error)

	// OpenArchive reads an archived upload back.
	OpenArchive(ctx context.Context, path string) (io.ReadCloser, error)
}

type fileServiceImpl struct {
	storage storage.FileStorage
	now     func() time.Time
}

func NewFileService(storage storage.FileStorage, now func() time.Time) FileService {
	if now == nil {
		now = time.Now
	}
	return &fileServiceImpl{
		storage: storage,
		now:     now,
	}
}

// ArchiveUpload writes to uploads/<kind>/<owner>/<date>-<uuid><ext>.
func (s *fileServiceImpl) ArchiveUpload(ctx context.Context, ownerID string, kind string, fileName string, content []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	contentType := "text/csv"
	switch ext {
	case ".csv":
	case ".txt":
		contentType = "text/plain"
	default:
		ext = ".csv"
	}

	// Generate unique filename
	newFilename := fmt.Sprintf("%s-%s%s", s.now().UTC().Format("2006-01-02"), uuid.New().String(), ext)
	path := filepath.Join("uploads", kind, ownerID, newFilename)

	uploadedPath, err := s.storage.Upload(ctx, bytes.NewReader(content), path, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to archive upload: %w", err)
	}

	return uploadedPath, nil
}

func (s *fileServiceImpl) OpenArchive(ctx context.Context, path string) (io.ReadCloser, error) {
	rc, err := s.storage.Download(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archived upload: %w", err)
	}
	return rc, nil
}
